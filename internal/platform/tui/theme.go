package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme contains the visual styles of the preview and run board.
type Theme struct {
	// HUD styles
	HUDTitle   lipgloss.Style
	HUDValue   lipgloss.Style
	HUDPaused  lipgloss.Style
	HUDMessage lipgloss.Style
	HUDError   lipgloss.Style

	// Outcome colors
	Success lipgloss.Style
	Failure lipgloss.Style

	// Panels
	Panel lipgloss.Style
	Help  lipgloss.Style
	Empty lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		HUDTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		HUDValue:   lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
		HUDPaused:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		HUDMessage: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		HUDError:   lipgloss.NewStyle().Foreground(lipgloss.Color("160")),

		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		Panel: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		Help:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Empty: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4),
	}
}

// NeonTheme returns a neon-style theme.
func NeonTheme() Theme {
	theme := DefaultTheme()
	theme.HUDTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("87")).Bold(true)
	theme.HUDValue = lipgloss.NewStyle().Foreground(lipgloss.Color("227"))
	theme.HUDMessage = lipgloss.NewStyle().Foreground(lipgloss.Color("199")).Bold(true)
	theme.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("118")).Bold(true)
	theme.Panel = theme.Panel.BorderForeground(lipgloss.Color("171"))
	return theme
}

// PastelTheme returns a softer pastel theme.
func PastelTheme() Theme {
	theme := DefaultTheme()
	theme.HUDTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("123")).Bold(true)
	theme.HUDValue = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	theme.HUDMessage = lipgloss.NewStyle().Foreground(lipgloss.Color("218")).Bold(true)
	theme.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("157")).Bold(true)
	theme.Failure = lipgloss.NewStyle().Foreground(lipgloss.Color("217")).Bold(true)
	return theme
}

// MonochromeTheme returns a grayscale theme.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	theme.HUDTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.HUDValue = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	theme.HUDMessage = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.HUDError = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	theme.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.Failure = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	return theme
}

// ThemeByName resolves a theme name from the config. Unknown names fall
// back to the default theme.
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "", "default":
		return DefaultTheme(), true
	case "neon":
		return NeonTheme(), true
	case "pastel":
		return PastelTheme(), true
	case "mono", "monochrome":
		return MonochromeTheme(), true
	default:
		return DefaultTheme(), false
	}
}

// Outcome styles a status or outcome name.
func (t Theme) Outcome(s string) string {
	switch s {
	case "success":
		return t.Success.Render(s)
	case "failure":
		return t.Failure.Render(s)
	default:
		return t.HUDValue.Render(s)
	}
}
