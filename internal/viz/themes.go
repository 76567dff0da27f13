package viz

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors the live view. Arena draws the bodies and walls, and also the
// foreground of recorded GIFs over Backdrop.
type Theme struct {
	Name      string
	Arena     lipgloss.Color
	Title     lipgloss.Color
	Highlight lipgloss.Color
	Backdrop  lipgloss.Color
}

var (
	ThemeNeon = Theme{
		Name:      "neon",
		Arena:     lipgloss.Color("#ff00ff"),
		Title:     lipgloss.Color("#00ffff"),
		Highlight: lipgloss.Color("#ffff00"),
		Backdrop:  lipgloss.Color("#0a0a0a"),
	}

	ThemePhosphor = Theme{
		Name:      "phosphor",
		Arena:     lipgloss.Color("#33ff66"),
		Title:     lipgloss.Color("#00aa33"),
		Highlight: lipgloss.Color("#ccffcc"),
		Backdrop:  lipgloss.Color("#001100"),
	}

	ThemeChalk = Theme{
		Name:      "chalk",
		Arena:     lipgloss.Color("#f0f0f0"),
		Title:     lipgloss.Color("#9a9a9a"),
		Highlight: lipgloss.Color("#3399ff"),
		Backdrop:  lipgloss.Color("#202428"),
	}

	ThemeDeepSea = Theme{
		Name:      "deepsea",
		Arena:     lipgloss.Color("#3fa7d6"),
		Title:     lipgloss.Color("#59cd90"),
		Highlight: lipgloss.Color("#fac05e"),
		Backdrop:  lipgloss.Color("#001a33"),
	}

	ThemeEmber = Theme{
		Name:      "ember",
		Arena:     lipgloss.Color("#ff7b54"),
		Title:     lipgloss.Color("#ffd56b"),
		Highlight: lipgloss.Color("#ff9ff3"),
		Backdrop:  lipgloss.Color("#2d1b2e"),
	}

	CurrentTheme = ThemeNeon

	Themes = []Theme{ThemeNeon, ThemePhosphor, ThemeChalk, ThemeDeepSea, ThemeEmber}
)

// GetTheme returns the named theme and whether it exists. Unknown names give
// the neon theme.
func GetTheme(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return ThemeNeon, false
}

func SetTheme(name string) bool {
	t, ok := GetTheme(name)
	CurrentTheme = t
	return ok
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme switches to the theme after the current one, wrapping around.
func NextTheme() Theme {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return CurrentTheme
		}
	}
	CurrentTheme = Themes[0]
	return CurrentTheme
}

// Palette is the two-color GIF palette of the theme: backdrop, then arena.
func (t Theme) Palette() color.Palette {
	return color.Palette{rgba(t.Backdrop), rgba(t.Arena)}
}

func rgba(c lipgloss.Color) color.RGBA {
	r, g, b := parseHex(string(c))
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}
