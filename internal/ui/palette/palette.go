// Package palette provides the selectable colour schemes of the timer UI.
package palette

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Default is used when nothing valid is stored.
const Default = "tomato"

// Palette is a named accent colour applied on top of the stock fyne theme.
type Palette struct {
	Name    string
	Primary color.NRGBA
}

var palettes = []Palette{
	{Name: "tomato", Primary: color.NRGBA{R: 229, G: 57, B: 53, A: 255}},
	{Name: "forest", Primary: color.NRGBA{R: 67, G: 160, B: 71, A: 255}},
	{Name: "ocean", Primary: color.NRGBA{R: 30, G: 136, B: 229, A: 255}},
	{Name: "plum", Primary: color.NRGBA{R: 142, G: 36, B: 170, A: 255}},
}

// Names lists the palettes in display order.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for _, palette := range palettes {
		names = append(names, palette.Name)
	}
	return names
}

// Lookup finds a palette by name.
func Lookup(name string) (Palette, bool) {
	for _, palette := range palettes {
		if palette.Name == name {
			return palette, true
		}
	}
	return Palette{}, false
}

// Resolve returns name when it is known and Default otherwise.
func Resolve(name string) string {
	if _, ok := Lookup(name); ok {
		return name
	}
	return Default
}

// Theme returns the fyne theme for name. Unknown names get Default.
func Theme(name string) fyne.Theme {
	palette, _ := Lookup(Resolve(name))
	return &paletteTheme{palette: palette, base: theme.DefaultTheme()}
}

// Apply installs the theme for name on app.
func Apply(app fyne.App, name string) {
	app.Settings().SetTheme(Theme(name))
}

type paletteTheme struct {
	palette Palette
	base    fyne.Theme
}

func (themed *paletteTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	primary := themed.palette.Primary
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameHyperlink:
		return primary
	case theme.ColorNameFocus:
		primary.A = 0x7f
		return primary
	case theme.ColorNameSelection:
		primary.A = 0x40
		return primary
	}
	return themed.base.Color(name, variant)
}

func (themed *paletteTheme) Font(style fyne.TextStyle) fyne.Resource {
	return themed.base.Font(style)
}

func (themed *paletteTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return themed.base.Icon(name)
}

func (themed *paletteTheme) Size(name fyne.ThemeSizeName) float32 {
	return themed.base.Size(name)
}
