package present

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"
	"time"

	"tempcast/internal/config"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/browser"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var ErrNoData = errors.New("no hourly readings to chart")

// Renderer draws a temperature series
type Renderer interface {
	Render(times []time.Time, temps []float64, label string) error
}

// NewRenderer picks the renderer for the configured chart mode
func NewRenderer(cfg config.ChartConfig, out io.Writer, unit string) Renderer {
	switch strings.ToLower(cfg.Mode) {
	case "png":
		return &PNGChart{Path: cfg.Output, Unit: unit, Open: cfg.Open}
	case "none":
		return NoChart{}
	default:
		return &TerminalChart{Out: out, Unit: unit, Height: 12}
	}
}

func title(label string) string {
	return "Temperature for " + label
}

// NoChart skips charting
type NoChart struct{}

func (NoChart) Render([]time.Time, []float64, string) error { return nil }

// TerminalChart draws an ASCII line chart
type TerminalChart struct {
	Out    io.Writer
	Unit   string
	Height int
	Width  int // 0 plots one column per reading
}

func (c *TerminalChart) Render(times []time.Time, temps []float64, label string) error {
	text, err := PlotText(times, temps, label, c.Unit, c.Width, c.Height)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.Out, text)
	return err
}

// PlotText returns the ASCII chart as a string; the caption carries the time range.
func PlotText(times []time.Time, temps []float64, label, unit string, width, height int) (string, error) {
	if len(temps) == 0 || len(times) != len(temps) {
		return "", ErrNoData
	}

	caption := fmt.Sprintf("%s (%s) %s .. %s", title(label), unit,
		times[0].Format(HourLayout), times[len(times)-1].Format(HourLayout))

	opts := []asciigraph.Option{
		asciigraph.Caption(caption),
		asciigraph.Precision(1),
	}
	if height > 0 {
		opts = append(opts, asciigraph.Height(height))
	}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}

	return asciigraph.Plot(temps, opts...), nil
}

// PNGChart saves the chart as an image and can hand it to the desktop viewer
type PNGChart struct {
	Path string
	Unit string
	Open bool

	opener func(path string) error
}

var lineColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

func (c *PNGChart) Render(times []time.Time, temps []float64, label string) error {
	if len(temps) == 0 || len(times) != len(temps) {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = title(label)
	p.X.Label.Text = "Date / Time"
	p.Y.Label.Text = fmt.Sprintf("Temperature (%s)", c.Unit)
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 02\n15:04"}

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(grid)

	pts := make(plotter.XYs, len(temps))
	for i := range temps {
		pts[i].X = float64(times[i].Unix())
		pts[i].Y = temps[i]
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("failed to build chart: %w", err)
	}
	line.Color = lineColor
	line.Width = vg.Points(2)
	points.Shape = draw.CircleGlyph{}
	points.Color = lineColor
	points.Radius = vg.Points(3)
	p.Add(line, points)

	if err := p.Save(8*vg.Inch, 4.5*vg.Inch, c.Path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}

	if !c.Open {
		return nil
	}
	open := c.opener
	if open == nil {
		open = browser.OpenFile
	}
	if err := open(c.Path); err != nil {
		return fmt.Errorf("failed to open chart: %w", err)
	}
	return nil
}
