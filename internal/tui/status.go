package tui

import (
	"errors"
	"fmt"

	"tempcast/internal/types"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Level selects the colour of a status line
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) Color() tcell.Color {
	switch l {
	case LevelSuccess:
		return tcell.ColorGreen
	case LevelWarning:
		return tcell.ColorYellow
	case LevelError:
		return tcell.ColorRed
	default:
		return tcell.ColorBlue
	}
}

// statusLine is a one line coloured message
type statusLine struct {
	*tview.TextView

	level Level
}

func newStatusLine() *statusLine {
	s := &statusLine{TextView: tview.NewTextView()}
	s.SetTextAlign(tview.AlignCenter)
	return s
}

func (s *statusLine) Set(level Level, message string) {
	s.level = level
	s.SetTextColor(level.Color())
	s.SetText(message)
}

func (s *statusLine) Level() Level {
	return s.level
}

func (s *statusLine) Message() string {
	return s.GetText(true)
}

// describeError turns a pipeline failure into a status message
func describeError(err error) string {
	var notFound *types.NotFoundError
	if errors.As(err, &notFound) {
		return fmt.Sprintf("Location not found: %s", notFound.Address)
	}

	switch types.KindOf(err) {
	case types.KindHTTP:
		return fmt.Sprintf("Weather service error: %v", err)
	case types.KindValidation:
		return fmt.Sprintf("Invalid weather data: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
