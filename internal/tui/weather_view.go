package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"tempcast/internal/config"
	"tempcast/internal/present"
	"tempcast/internal/weather"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	submitLabel  = "Submit"
	loadingLabel = "Loading..."
	chartHeight  = 10
)

// WeatherView collects an address and shows its forecast.
// All fields are owned by the event goroutine.
type WeatherView struct {
	*tview.Flex

	shell   *Shell
	service weather.Service
	hours   int
	charts  config.ChartConfig
	onBack  func()

	form    *tview.Form
	input   *tview.InputField
	submit  *tview.Button
	status  *statusLine
	summary *tview.TextView
	chart   *tview.TextView

	inflight bool
	// seq identifies the current request; results carrying an older value are dropped
	seq    uint64
	cancel context.CancelFunc
}

// NewWeatherView builds the view. With charts.Mode "png" each forecast is also
// saved as an image, and opened when charts.Open is set.
func NewWeatherView(shell *Shell, service weather.Service, hours int, charts config.ChartConfig, onBack func()) *WeatherView {
	v := &WeatherView{
		Flex:    tview.NewFlex(),
		shell:   shell,
		service: service,
		hours:   hours,
		charts:  charts,
		onBack:  onBack,
		status:  newStatusLine(),
		summary: tview.NewTextView(),
		chart:   tview.NewTextView(),
	}

	v.input = tview.NewInputField().
		SetLabel("Location: ").
		SetPlaceholder("e.g. London, England").
		SetFieldWidth(40)

	v.form = tview.NewForm().
		AddFormItem(v.input).
		AddButton(submitLabel, v.Submit).
		AddButton("Back", v.Back).
		SetCancelFunc(v.Back)
	v.form.SetHorizontal(true)
	v.submit = v.form.GetButton(0)

	// Enter in the input submits directly
	v.input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			v.Submit()
		}
	})

	v.summary.SetBorder(true).SetTitle("Forecast")
	v.chart.SetBorder(true).SetTitle("Chart")

	v.SetDirection(tview.FlexRow).
		AddItem(v.form, 3, 0, true).
		AddItem(v.status, 1, 0, false).
		AddItem(tview.NewFlex().
			AddItem(v.summary, 0, 1, false).
			AddItem(v.chart, 0, 2, false), 0, 1, false)
	v.SetBorder(true).SetTitle("Weather")

	v.status.Set(LevelInfo, "Enter a location and press Submit")

	return v
}

// FocusTarget is the primitive focused when the view is shown
func (v *WeatherView) FocusTarget() tview.Primitive {
	return v.form
}

// Submit starts a forecast request for the entered address.
// It does nothing while a request is already in flight.
func (v *WeatherView) Submit() {
	if v.inflight {
		return
	}

	address := strings.TrimSpace(v.input.GetText())
	if address == "" {
		v.status.Set(LevelWarning, "Please enter a location")
		return
	}

	v.inflight = true
	v.seq++
	seq := v.seq

	ctx, cancel := context.WithCancel(v.shell.ctx)
	v.cancel = cancel

	v.submit.SetLabel(loadingLabel).SetDisabled(true)
	v.status.Set(LevelInfo, fmt.Sprintf("Fetching weather for %s...", address))

	v.shell.goWorker(func() {
		report, err := v.fetch(ctx, address)
		var exportErr error
		if err == nil {
			exportErr = v.export(address, report)
		}
		v.shell.update(func() {
			v.finish(seq, address, report, err, exportErr)
		})
	})
}

// export writes the PNG chart off the event goroutine; other chart modes are drawn inline
func (v *WeatherView) export(address string, report *weather.Report) error {
	if !strings.EqualFold(v.charts.Mode, "png") {
		return nil
	}
	hourly := report.Result.Hourly().Head(v.hours)
	renderer := present.NewRenderer(v.charts, io.Discard, report.Result.Units().Temperature)
	if err := renderer.Render(hourly.Times(), hourly.Temperatures(), address); err != nil {
		v.shell.logger.Warn("failed to export chart", "path", v.charts.Output, "error", err)
		return err
	}
	v.shell.logger.Info("chart exported", "path", v.charts.Output)
	return nil
}

func (v *WeatherView) fetch(ctx context.Context, address string) (report *weather.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			v.shell.logger.Error("forecast worker panicked", "panic", r)
			err = fmt.Errorf("forecast worker panicked: %v", r)
		}
	}()
	return v.service.GetForecast(ctx, address)
}

func (v *WeatherView) finish(seq uint64, address string, report *weather.Report, err, exportErr error) {
	if seq != v.seq {
		return
	}

	v.inflight = false
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.submit.SetLabel(submitLabel).SetDisabled(false)

	if err != nil {
		v.summary.SetText("")
		v.chart.SetText("")
		v.status.Set(LevelError, describeError(err))
		return
	}

	v.summary.SetText(present.Summary(address, report.Result, v.hours))
	v.summary.ScrollToBeginning()

	hourly := report.Result.Hourly().Head(v.hours)
	text, chartErr := present.PlotText(hourly.Times(), hourly.Temperatures(), address,
		report.Result.Units().Temperature, 0, chartHeight)
	if chartErr != nil {
		v.chart.SetText("No chart available")
		v.status.Set(LevelWarning, fmt.Sprintf("Weather data loaded for %s, chart unavailable: %v", address, chartErr))
		return
	}

	v.chart.SetText(text)
	switch {
	case exportErr != nil:
		v.status.Set(LevelWarning, fmt.Sprintf("Weather data loaded for %s, chart export failed: %v", address, exportErr))
	case strings.EqualFold(v.charts.Mode, "png"):
		v.status.Set(LevelSuccess, fmt.Sprintf("Weather data loaded for %s, chart saved to %s", address, v.charts.Output))
	default:
		v.status.Set(LevelSuccess, fmt.Sprintf("Weather data loaded for %s", address))
	}
}

// Back cancels any pending request, clears the view and returns to the menu
func (v *WeatherView) Back() {
	v.Reset()
	if v.onBack != nil {
		v.onBack()
	}
}

// Reset cancels any pending request and clears the view
func (v *WeatherView) Reset() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.seq++
	v.inflight = false

	v.submit.SetLabel(submitLabel).SetDisabled(false)
	v.input.SetText("")
	v.summary.SetText("")
	v.chart.SetText("")
	v.status.Set(LevelInfo, "Enter a location and press Submit")
}
