package preferences

import (
	"errors"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"focustimer/internal/core/model"
	"focustimer/internal/i18n"
	"focustimer/internal/logging"
	"focustimer/internal/ui/palette"
)

// DurationStore is the part of the durations store the window edits.
type DurationStore interface {
	Current() model.Durations
	SaveWithin(next model.Durations, bounds model.Bounds) error
}

// PaletteStore persists the chosen colour palette.
type PaletteStore interface {
	LoadPalette() string
	SavePalette(name string)
}

// Options configures the optional controls. A nil OnAutostart hides the
// autostart checkbox and a nil Palettes hides the palette selector.
type Options struct {
	Autostart   bool
	OnAutostart func(enabled bool) error
	OnSaved     func(model.Durations)
	Palettes    PaletteStore
}

// Window handles the preferences UI.
type Window struct {
	app       fyne.App
	window    fyne.Window
	store     DurationStore
	localizer *i18n.Localizer
	options   Options
	entries   map[model.Mode]*widget.Entry
	errors    map[model.Mode]*widget.Label
	autostart *widget.Check
	palette   *widget.Select
	palettes  map[string]string
	status    *widget.Label
	save      *widget.Button
	cancel    *widget.Button

	// loaded and shown are what the last Reload put in the entries.
	loaded model.Durations
	shown  map[model.Mode]string
}

// New creates a hidden preferences window showing the store's durations.
func New(app fyne.App, store DurationStore, localizer *i18n.Localizer, options Options) *Window {
	window := app.NewWindow(localizer.T("prefs.title"))

	prefs := &Window{
		app:       app,
		window:    window,
		store:     store,
		localizer: localizer,
		options:   options,
		entries:   map[model.Mode]*widget.Entry{},
		errors:    map[model.Mode]*widget.Label{},
		palettes:  map[string]string{},
		status:    widget.NewLabel(""),
		shown:     map[model.Mode]string{},
	}

	form := container.NewVBox(
		widget.NewLabelWithStyle(localizer.T("prefs.title"), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	for _, mode := range model.Modes {
		entry := widget.NewEntry()
		errorLabel := widget.NewLabel("")
		errorLabel.Importance = widget.DangerImportance
		errorLabel.Hide()
		prefs.entries[mode] = entry
		prefs.errors[mode] = errorLabel
		form.Add(widget.NewLabel(localizer.T("prefs.minutes", localizer.Mode(mode))))
		form.Add(entry)
		form.Add(errorLabel)
	}

	prefs.autostart = widget.NewCheck(localizer.T("prefs.autostart"), nil)
	prefs.autostart.SetChecked(options.Autostart)
	if options.OnAutostart != nil {
		form.Add(prefs.autostart)
	}
	labels := make([]string, 0, len(palette.Names()))
	for _, name := range palette.Names() {
		label := localizer.T("palette." + name)
		prefs.palettes[label] = name
		labels = append(labels, label)
	}
	prefs.palette = widget.NewSelect(labels, nil)
	if options.Palettes != nil {
		form.Add(widget.NewLabel(localizer.T("prefs.palette")))
		form.Add(prefs.palette)
	}
	form.Add(prefs.status)

	prefs.save = widget.NewButton(localizer.T("prefs.save"), prefs.handleSave)
	prefs.save.Importance = widget.HighImportance
	prefs.cancel = widget.NewButton(localizer.T("prefs.cancel"), func() {
		prefs.Reload()
		window.Hide()
	})
	buttons := container.NewHBox(prefs.save, layout.NewSpacer(), prefs.cancel)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(360, 380))
	window.SetCloseIntercept(window.Hide)

	prefs.Reload()
	return prefs
}

// Show reloads the stored durations and displays the window.
func (prefs *Window) Show() {
	prefs.Reload()
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// Reload discards edits and shows the current stored values.
func (prefs *Window) Reload() {
	prefs.loaded = prefs.store.Current()
	minutes := MinutesOf(prefs.loaded)
	for _, mode := range model.Modes {
		text := strconv.Itoa(minutes.For(mode))
		prefs.shown[mode] = text
		prefs.entries[mode].SetText(text)
		prefs.errors[mode].Hide()
	}
	if prefs.options.Palettes != nil {
		prefs.palette.SetSelected(prefs.localizer.T("palette." + palette.Resolve(prefs.options.Palettes.LoadPalette())))
	}
	prefs.status.SetText("")
}

func (prefs *Window) handleSave() {
	next := prefs.edited()
	for _, mode := range model.Modes {
		prefs.errors[mode].Hide()
	}

	err := prefs.store.SaveWithin(next, Bounds())
	if err != nil {
		prefs.showError(err)
		return
	}

	prefs.applyAutostart()
	prefs.applyPalette()
	prefs.status.SetText(prefs.localizer.T("prefs.saved"))
	if prefs.options.OnSaved != nil {
		prefs.options.OnSaved(prefs.store.Current())
	}
	prefs.window.Hide()
}

// edited returns the durations in the entries. A field whose text is still
// what Reload showed keeps its stored seconds, so partial minutes survive.
func (prefs *Window) edited() model.Durations {
	bounds := Bounds()
	next := Minutes{
		Work:       parseMinutes(prefs.entries[model.ModeWork].Text),
		ShortBreak: parseMinutes(prefs.entries[model.ModeShortBreak].Text),
		LongBreak:  parseMinutes(prefs.entries[model.ModeLongBreak].Text),
	}.Durations()
	for _, mode := range model.Modes {
		if prefs.entries[mode].Text != prefs.shown[mode] {
			continue
		}
		kept := prefs.loaded.For(mode)
		if kept >= bounds.Min.For(mode) && kept <= bounds.Max.For(mode) {
			next = next.With(mode, kept)
		}
	}
	return next
}

func (prefs *Window) showError(err error) {
	var invalid *model.ValidationError
	if !errors.As(err, &invalid) {
		logging.Errorf("save preferences: %v", err)
		prefs.status.SetText(err.Error())
		return
	}
	for _, field := range invalid.Fields {
		label := prefs.errors[field.Mode]
		label.SetText(prefs.localizer.T("prefs.invalid", prefs.localizer.Mode(field.Mode), field.Min/60, field.Max/60))
		label.Show()
	}
}

func (prefs *Window) applyAutostart() {
	if prefs.options.OnAutostart == nil || prefs.autostart.Checked == prefs.options.Autostart {
		return
	}
	enabled := prefs.autostart.Checked
	if err := prefs.options.OnAutostart(enabled); err != nil {
		logging.Errorf("set autostart: %v", err)
		prefs.autostart.SetChecked(prefs.options.Autostart)
		return
	}
	prefs.options.Autostart = enabled
}

func (prefs *Window) applyPalette() {
	if prefs.options.Palettes == nil {
		return
	}
	name, ok := prefs.palettes[prefs.palette.Selected]
	if !ok {
		return
	}
	prefs.options.Palettes.SavePalette(name)
	palette.Apply(prefs.app, name)
	logging.Debugf("palette set to %s", name)
}

// parseMinutes returns 0 for anything that is not a positive integer so
// validation reports the field.
func parseMinutes(value string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0
	}
	return parsed
}
