package config

import "github.com/gdamore/tcell/v2"

// Theme holds the colors used by the renderer.
type Theme struct {
	TextForeground   tcell.Color
	TextBackground   tcell.Color
	StatusForeground tcell.Color
	StatusBackground tcell.Color
}

// Text returns the style for buffer text.
func (t Theme) Text() tcell.Style {
	return tcell.StyleDefault.Foreground(t.TextForeground).Background(t.TextBackground)
}

// Status returns the style for the status line.
func (t Theme) Status() tcell.Style {
	return tcell.StyleDefault.Foreground(t.StatusForeground).Background(t.StatusBackground)
}

// DefaultTheme returns white text with a light status bar.
func DefaultTheme() Theme {
	return Theme{
		TextForeground:   tcell.ColorWhite,
		TextBackground:   tcell.ColorBlack,
		StatusForeground: tcell.ColorBlack,
		StatusBackground: tcell.ColorWhite,
	}
}

// TerminalTheme follows the terminal's own default colors.
func TerminalTheme() Theme {
	return Theme{
		TextForeground:   tcell.ColorDefault,
		TextBackground:   tcell.ColorDefault,
		StatusForeground: tcell.ColorDefault,
		StatusBackground: tcell.ColorGray,
	}
}

// BuiltinThemes exposes the presets by name.
var BuiltinThemes = map[string]Theme{
	"default":  DefaultTheme(),
	"light":    DefaultTheme(),
	"terminal": TerminalTheme(),
	"dark": {
		TextForeground:   tcell.ColorWhite,
		TextBackground:   tcell.ColorBlack,
		StatusForeground: tcell.ColorWhite,
		StatusBackground: tcell.ColorGray,
	},
}
