package theme

// Theming for the facepad window: a light and a dark palette plus the
// semantic ttk styles the root view refers to by name.

import (
	tk "modernc.org/tk9.0"
)

// Palette holds resolved colors for one mode.
type Palette struct {
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Accent    string
	Text      string
	TextMuted string
}

var (
	light = Palette{
		AppBg:     "#f7f9fb",
		Surface:   "#ffffff",
		Border:    "#d0d7de",
		Primary:   "#2563eb",
		Danger:    "#dc2626",
		Accent:    "#10b981",
		Text:      "#1e293b",
		TextMuted: "#64748b",
	}
	dark = Palette{
		AppBg:     "#0f172a",
		Surface:   "#1e293b",
		Border:    "#334155",
		Primary:   "#3b82f6",
		Danger:    "#ef4444",
		Accent:    "#10b981",
		Text:      "#f1f5f9",
		TextMuted: "#94a3b8",
	}
)

// Style names used with Style(theme.StylePrimaryButton) etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleAccentLabel   = "accent.TLabel"
	StyleStateLabel    = "state.TLabel"
)

var darkMode bool

// CurrentPalette returns colors for the current mode.
func CurrentPalette() Palette {
	if darkMode {
		return dark
	}
	return light
}

// InitStyles (re)applies styles for the current mode.
func InitStyles() { applyStyles(CurrentPalette()) }

// SetDark switches mode and reapplies styles. Returns the new mode.
func SetDark(on bool) bool {
	darkMode = on
	InitStyles()
	return darkMode
}

func applyStyles(p Palette) {
	theme := "azure light"
	if darkMode {
		theme = "azure dark"
	}
	_ = tk.ActivateTheme(theme)
	tk.App.Configure(tk.Background(p.AppBg))

	tk.StyleConfigure(StylePrimaryButton, tk.Background(p.Primary), tk.Foreground("white"), tk.Padding("4p 3p"), tk.Borderwidth(1), tk.Relief("ridge"))
	tk.StyleConfigure(StyleDangerButton, tk.Background(p.Danger), tk.Foreground("white"), tk.Padding("4p 3p"), tk.Borderwidth(1), tk.Relief("ridge"))
	// Action readout.
	tk.StyleConfigure(StyleAccentLabel, tk.Foreground(p.Primary), tk.Background(p.Surface), tk.Padding("6p 3p"))
	tk.StyleConfigure(StyleStateLabel, tk.Foreground("white"), tk.Background(p.Accent), tk.Padding("4p 2p"), tk.Borderwidth(1), tk.Relief("groove"))
}
