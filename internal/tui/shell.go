// Package tui is the interactive terminal front end for the forecast pipeline.
package tui

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"tempcast/internal/config"
	"tempcast/internal/weather"

	"github.com/rivo/tview"
)

const (
	pageMenu        = "menu"
	pageWeather     = "weather"
	pageDiagnostics = "diagnostics"

	logLines = 500
)

// Shell owns the tview application and switches between the menu, weather and diagnostics views.
type Shell struct {
	app   *tview.Application
	pages *tview.Pages
	menu  *tview.List
	logs  *tview.TextView

	weather     *WeatherView
	diagnostics *DiagnosticsView

	cfg    *config.Config
	logger *slog.Logger

	// queue runs f on the event goroutine; redraw asks for a repaint from any goroutine
	queue  func(f func())
	redraw func()

	alive   atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	workers sync.WaitGroup
}

// NewShell creates the application and its log pane. Call Mount before Run.
func NewShell(cfg *config.Config) *Shell {
	app := tview.NewApplication()
	return newShell(cfg, app,
		func(f func()) { app.QueueUpdateDraw(f) },
		func() { app.Draw() },
	)
}

func newShell(cfg *config.Config, app *tview.Application, queue func(func()), redraw func()) *Shell {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Shell{
		app:    app,
		pages:  tview.NewPages(),
		cfg:    cfg,
		queue:  queue,
		redraw: redraw,
		ctx:    ctx,
		cancel: cancel,
	}
	s.alive.Store(true)

	s.logs = tview.NewTextView()
	s.logs.SetMaxLines(logLines).
		SetChangedFunc(func() {
			if s.alive.Load() {
				s.redraw()
			}
		}).
		SetBorder(true).
		SetTitle("Log")
	s.logs.ScrollToEnd()

	s.logger = cfg.NewLoggerTo(s.LogWriter())

	return s
}

// Logger returns a logger whose output is shown in the diagnostics view
func (s *Shell) Logger() *slog.Logger {
	return s.logger
}

// LogWriter returns a sink for log output. Writes after teardown are dropped.
func (s *Shell) LogWriter() io.Writer {
	return &logSink{shell: s}
}

// Mount builds the views around the pipeline and the validator used by the schema check.
func (s *Shell) Mount(service weather.Service, validator weather.Validator) *Shell {
	s.weather = NewWeatherView(s, service, s.cfg.Present.Hours, s.cfg.Chart, s.showMenu)
	s.diagnostics = NewDiagnosticsView(s, validator, s.showMenu)

	s.menu = tview.NewList().
		AddItem("Weather", "Get an hourly temperature forecast", 'w', func() {
			s.show(pageWeather, s.weather.FocusTarget())
		}).
		AddItem("Diagnostics", "Run self checks and view the log", 'd', func() {
			s.show(pageDiagnostics, s.diagnostics.FocusTarget())
		}).
		AddItem("Quit", "Exit the application", 'q', s.Stop)
	s.menu.SetBorder(true).SetTitle("Hourly Temperature Forecast")

	s.pages.
		AddPage(pageMenu, s.menu, true, true).
		AddPage(pageWeather, s.weather, true, false).
		AddPage(pageDiagnostics, s.diagnostics, true, false)

	return s
}

// Run blocks until the user quits. The shell is torn down when it returns.
func (s *Shell) Run() error {
	defer s.teardown()

	s.logger.Info("shell started")
	return s.app.SetRoot(s.pages, true).SetFocus(s.menu).Run()
}

// Stop tears the shell down and stops the application
func (s *Shell) Stop() {
	s.teardown()
	s.app.Stop()
}

// Wait blocks until every background worker has returned
func (s *Shell) Wait() {
	s.workers.Wait()
}

// Alive reports whether the shell still accepts UI updates
func (s *Shell) Alive() bool {
	return s.alive.Load()
}

func (s *Shell) teardown() {
	if s.alive.CompareAndSwap(true, false) {
		s.cancel()
	}
}

// update schedules f on the event goroutine unless the shell has been torn down.
// It must not be called from the event goroutine.
func (s *Shell) update(f func()) {
	if !s.alive.Load() {
		return
	}
	s.queue(func() {
		if s.alive.Load() {
			f()
		}
	})
}

// goWorker runs f on a tracked background goroutine
func (s *Shell) goWorker(f func()) {
	s.workers.Add(1)
	go func() {
		defer s.workers.Done()
		f()
	}()
}

func (s *Shell) show(page string, focus tview.Primitive) {
	s.pages.SwitchToPage(page)
	if focus != nil {
		s.app.SetFocus(focus)
	}
}

func (s *Shell) showMenu() {
	s.show(pageMenu, s.menu)
}

// logSink writes log records into the diagnostics log pane
type logSink struct {
	shell *Shell
}

func (l *logSink) Write(p []byte) (int, error) {
	if !l.shell.alive.Load() {
		return len(p), nil
	}
	return l.shell.logs.Write(p)
}
