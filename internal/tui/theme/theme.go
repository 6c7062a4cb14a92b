// Package theme defines the color palettes for the dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps the color roles the dashboard draws with. Palettes define
// exactly these roles; widgets never reach for raw colors.
type Theme struct {
	Name string

	Surface      lipgloss.Color // card and chart backgrounds
	SurfaceHover lipgloss.Color // selected row
	Border       lipgloss.Color // card borders

	TextDim     lipgloss.Color // hints, axis labels
	TextMuted   lipgloss.Color // labels, metadata
	TextPrimary lipgloss.Color // values, content

	Accent       lipgloss.Color // active tab, bars, spinner
	AccentBright lipgloss.Color // bar chart highlights
	Red          lipgloss.Color // load errors
}

// Active is the palette in effect; SetActive swaps it at startup.
var Active = FlexokiDark

// FlexokiDark is the default palette, warm and paper-toned.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Red:          lipgloss.Color("#D14D41"),
}

// CatppuccinMocha is a soft pastel palette.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Red:          lipgloss.Color("#F38BA8"),
}

// TokyoNight is a cool blue palette.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Red:          lipgloss.Color("#F7768E"),
}

// Terminal sticks to ANSI-16 colors for terminals without truecolor.
var Terminal = Theme{
	Name:         "terminal",
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Red:          lipgloss.Color("1"),
}

// All lists the selectable palettes, default first.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns the named palette, or the default when unknown.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive installs the named palette as the active one.
func SetActive(name string) {
	Active = ByName(name)
}
