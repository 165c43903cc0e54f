package timerview

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"focustimer/internal/core/model"
	"focustimer/internal/core/timekeeper"
	"focustimer/internal/i18n"
)

// Controller is the set of timer operations the window triggers.
type Controller interface {
	ToggleRun()
	ResetCurrent()
	SwitchMode(target model.Mode)
	ResetCompletedCycles()
}

// Window shows the countdown and its controls.
type Window struct {
	window      fyne.Window
	localizer   *i18n.Localizer
	controller  Controller
	background  *canvas.Rectangle
	timerLabel  *canvas.Text
	modeLabel   *canvas.Text
	progress    *widget.ProgressBar
	toggle      *widget.Button
	reset       *widget.Button
	resetCount  *widget.Button
	countLabel  *widget.Label
	modeButtons map[model.Mode]*widget.Button
	tasks       *TaskPanel
}

var modeTints = map[model.Mode]color.NRGBA{
	model.ModeWork:       {R: 229, G: 57, B: 53, A: 48},
	model.ModeShortBreak: {R: 67, G: 160, B: 71, A: 48},
	model.ModeLongBreak:  {R: 30, G: 136, B: 229, A: 48},
}

// New creates a hidden timer window. A nil panel leaves out the task list.
func New(app fyne.App, localizer *i18n.Localizer, controller Controller, panel *TaskPanel) *Window {
	window := app.NewWindow(localizer.AppName())
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	view := &Window{
		window:      window,
		localizer:   localizer,
		controller:  controller,
		modeButtons: map[model.Mode]*widget.Button{},
		tasks:       panel,
	}

	view.background = canvas.NewRectangle(modeTints[model.ModeWork])

	view.timerLabel = canvas.NewText("--:--", theme.Color(theme.ColorNameForeground))
	view.timerLabel.Alignment = fyne.TextAlignCenter
	view.timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	view.timerLabel.TextSize = 56

	view.modeLabel = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	view.modeLabel.Alignment = fyne.TextAlignCenter
	view.modeLabel.TextSize = 18

	view.progress = widget.NewProgressBar()
	view.progress.TextFormatter = func() string { return "" }

	modeRow := container.NewGridWithColumns(len(model.Modes))
	for _, mode := range model.Modes {
		mode := mode
		button := widget.NewButton(localizer.Mode(mode), func() {
			view.controller.SwitchMode(mode)
		})
		view.modeButtons[mode] = button
		modeRow.Add(button)
	}

	view.toggle = widget.NewButton(localizer.T("timer.start"), func() {
		view.controller.ToggleRun()
	})
	view.toggle.Importance = widget.HighImportance
	view.reset = widget.NewButton(localizer.T("timer.reset"), func() {
		view.controller.ResetCurrent()
	})
	view.countLabel = widget.NewLabel("")
	view.resetCount = widget.NewButton(localizer.T("timer.reset_count"), func() {
		view.controller.ResetCompletedCycles()
	})

	clock := container.NewVBox(
		modeRow,
		view.modeLabel,
		view.timerLabel,
		view.progress,
		container.NewGridWithColumns(2, view.toggle, view.reset),
		container.NewHBox(view.countLabel, layout.NewSpacer(), view.resetCount),
	)
	content := fyne.CanvasObject(container.NewPadded(clock))
	if panel != nil {
		panel.SetWindow(window)
		content = container.NewBorder(content, nil, nil, nil, panel.Content())
	}

	window.SetContent(container.NewStack(view.background, content))
	window.Resize(fyne.NewSize(380, 520))
	window.SetCloseIntercept(window.Hide)
	return view
}

// Window returns the underlying fyne window.
func (view *Window) Window() fyne.Window {
	return view.window
}

// Show displays and focuses the window.
func (view *Window) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// Hide hides the window; the timer keeps running.
func (view *Window) Hide() {
	view.window.Hide()
}

// Update renders snapshot. Call it on the fyne thread.
func (view *Window) Update(snapshot timekeeper.Snapshot) {
	view.window.SetTitle(view.localizer.Title(snapshot.RemainingSeconds, snapshot.Mode))

	view.timerLabel.Text = snapshot.Clock()
	view.timerLabel.Refresh()
	view.modeLabel.Text = view.localizer.Mode(snapshot.Mode)
	view.modeLabel.Refresh()
	view.progress.SetValue(snapshot.Progress())

	if snapshot.Running {
		view.toggle.SetText(view.localizer.T("timer.pause"))
	} else {
		view.toggle.SetText(view.localizer.T("timer.start"))
	}
	for mode, button := range view.modeButtons {
		if mode == snapshot.Mode {
			button.Importance = widget.HighImportance
		} else {
			button.Importance = widget.MediumImportance
		}
		button.Refresh()
	}
	view.countLabel.SetText(view.localizer.T("timer.completed", snapshot.CompletedWorkCycles))

	if tint, ok := modeTints[snapshot.Mode]; ok {
		view.background.FillColor = tint
		canvas.Refresh(view.background)
	}
}
