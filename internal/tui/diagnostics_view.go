package tui

import (
	"context"
	"fmt"

	"tempcast/internal/diagnostics"
	"tempcast/internal/weather"

	"github.com/rivo/tview"
)

const runningLabel = "Running..."

type diagnosticButton struct {
	label  string
	check  diagnostics.Check
	button *tview.Button
}

// DiagnosticsView runs self checks and shows the application log
type DiagnosticsView struct {
	*tview.Flex

	shell  *Shell
	onBack func()

	form    *tview.Form
	status  *statusLine
	results *tview.TextView
	checks  []*diagnosticButton

	// seq is bumped on Back so late results are not shown on a view the user left
	seq    uint64
	ctx    context.Context
	cancel context.CancelFunc
}

func NewDiagnosticsView(shell *Shell, validator weather.Validator, onBack func()) *DiagnosticsView {
	v := &DiagnosticsView{
		Flex:    tview.NewFlex(),
		shell:   shell,
		onBack:  onBack,
		status:  newStatusLine(),
		results: tview.NewTextView(),
		form:    tview.NewForm(),
	}
	v.ctx, v.cancel = context.WithCancel(shell.ctx)

	v.checks = []*diagnosticButton{
		{label: "Schema Check", check: diagnostics.SchemaCheck(validator)},
		{label: "Build Info", check: diagnostics.BuildInfo},
	}
	for _, c := range v.checks {
		v.form.AddButton(c.label, func() { v.Run(c) })
		c.button = v.form.GetButton(v.form.GetButtonCount() - 1)
	}
	v.form.
		AddButton("Clear Results", v.Clear).
		AddButton("Back", v.Back).
		SetCancelFunc(v.Back)

	v.results.SetBorder(true).SetTitle("Results")

	v.SetDirection(tview.FlexRow).
		AddItem(v.form, 3, 0, true).
		AddItem(v.status, 1, 0, false).
		AddItem(v.results, 0, 1, false).
		AddItem(shell.logs, 0, 1, false)
	v.SetBorder(true).SetTitle("Diagnostics")

	v.status.Set(LevelInfo, "Select a command to run")

	return v
}

// FocusTarget is the primitive focused when the view is shown
func (v *DiagnosticsView) FocusTarget() tview.Primitive {
	return v.form
}

// Run starts check c on a background goroutine unless it is already running
func (v *DiagnosticsView) Run(c *diagnosticButton) {
	if c.button.IsDisabled() {
		return
	}

	c.button.SetLabel(runningLabel).SetDisabled(true)
	v.status.Set(LevelInfo, fmt.Sprintf("Running %s...", c.label))

	seq := v.seq
	ctx := v.ctx
	v.shell.goWorker(func() {
		res := v.execute(ctx, c)
		v.shell.update(func() {
			v.show(seq, c, res)
		})
	})
}

func (v *DiagnosticsView) execute(ctx context.Context, c *diagnosticButton) (res diagnostics.Result) {
	defer func() {
		if r := recover(); r != nil {
			v.shell.logger.Error("diagnostic check panicked", "check", c.label, "panic", r)
			res = diagnostics.Result{Title: c.label, Output: fmt.Sprintf("check panicked: %v", r)}
		}
	}()
	return c.check(ctx)
}

func (v *DiagnosticsView) show(seq uint64, c *diagnosticButton, res diagnostics.Result) {
	c.button.SetLabel(c.label).SetDisabled(false)
	if seq != v.seq {
		return
	}

	v.results.SetText(res.Format())
	v.results.ScrollToBeginning()
	if res.OK {
		v.status.Set(LevelSuccess, fmt.Sprintf("%s completed successfully", c.label))
		return
	}
	v.status.Set(LevelWarning, fmt.Sprintf("%s found issues", c.label))
}

// Clear empties the results pane
func (v *DiagnosticsView) Clear() {
	v.results.SetText("")
	v.status.Set(LevelInfo, "Results cleared")
}

// Back discards pending results and returns to the menu
func (v *DiagnosticsView) Back() {
	v.cancel()
	v.ctx, v.cancel = context.WithCancel(v.shell.ctx)
	v.seq++

	v.results.SetText("")
	v.status.Set(LevelInfo, "Select a command to run")

	if v.onBack != nil {
		v.onBack()
	}
}
