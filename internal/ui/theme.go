// Package ui provides the terminal user interface for pubadmin.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the styles used in the UI.
type Theme struct {
	// Base styles
	App lipgloss.Style

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style

	// List styles
	ListBorder     lipgloss.Style
	ListTitle      lipgloss.Style
	ListFilter     lipgloss.Style
	ColumnHeader   lipgloss.Style
	SelectedItem   lipgloss.Style
	UnselectedItem lipgloss.Style
	PickedItem     lipgloss.Style
	Muted          lipgloss.Style
	PageCurrent    lipgloss.Style
	Page           lipgloss.Style

	// Status bar
	StatusBar     lipgloss.Style
	StatusMessage lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style

	// Help bar
	HelpBar  lipgloss.Style
	HelpKey  lipgloss.Style
	HelpText lipgloss.Style
	HelpSep  lipgloss.Style

	// Modal styles
	ModalBorder  lipgloss.Style
	ModalTitle   lipgloss.Style
	ModalContent lipgloss.Style
	ModalHelp    lipgloss.Style
	ModalDanger  lipgloss.Style

	// Markdown is the glamour style used for detail and dashboard views.
	Markdown string
}

// DarkTheme returns a theme for dark terminals.
func DarkTheme() Theme {
	return Theme{
		App: lipgloss.NewStyle(),

		Header:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")), // Cyan
		Tab:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("17")).Padding(0, 1),

		ListBorder:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		ListTitle:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		ListFilter:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")), // Magenta
		ColumnHeader:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Underline(true),
		SelectedItem:   lipgloss.NewStyle().Background(lipgloss.Color("17")).Foreground(lipgloss.Color("15")), // Dark blue bg
		UnselectedItem: lipgloss.NewStyle(),
		PickedItem:     lipgloss.NewStyle().Background(lipgloss.Color("58")).Foreground(lipgloss.Color("11")).Bold(true),
		Muted:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		PageCurrent:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Underline(true),
		Page:           lipgloss.NewStyle().Foreground(lipgloss.Color("7")),

		StatusBar:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		StatusMessage: lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // Lime
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // Yellow
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),  // Red

		HelpBar:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		HelpKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")), // Cyan
		HelpText: lipgloss.NewStyle().Foreground(lipgloss.Color("15")), // White
		HelpSep:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),

		ModalBorder:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("14")).Padding(1, 2),
		ModalTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		ModalContent: lipgloss.NewStyle(),
		ModalHelp:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
		ModalDanger:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),

		Markdown: "dark",
	}
}

// LightTheme returns a theme for light terminals.
func LightTheme() Theme {
	return Theme{
		App: lipgloss.NewStyle(),

		Header:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")), // Blue
		Tab:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1),
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("252")).Padding(0, 1),

		ListBorder:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		ListTitle:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")),
		ListFilter:     lipgloss.NewStyle().Foreground(lipgloss.Color("5")), // Purple
		ColumnHeader:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("240")).Underline(true),
		SelectedItem:   lipgloss.NewStyle().Background(lipgloss.Color("252")).Foreground(lipgloss.Color("0")), // Light gray bg
		UnselectedItem: lipgloss.NewStyle(),
		PickedItem:     lipgloss.NewStyle().Background(lipgloss.Color("229")).Foreground(lipgloss.Color("94")).Bold(true),
		Muted:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		PageCurrent:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")).Underline(true),
		Page:           lipgloss.NewStyle().Foreground(lipgloss.Color("240")),

		StatusBar:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		StatusMessage: lipgloss.NewStyle().Foreground(lipgloss.Color("2")), // Dark green
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")), // Dark yellow
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")), // Red

		HelpBar:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		HelpKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")), // Blue
		HelpText: lipgloss.NewStyle().Foreground(lipgloss.Color("0")), // Black
		HelpSep:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		ModalBorder:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("4")).Padding(1, 2),
		ModalTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		ModalContent: lipgloss.NewStyle(),
		ModalHelp:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		ModalDanger:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),

		Markdown: "light",
	}
}

// DetectTheme returns the appropriate theme based on PUBADMIN_THEME env var,
// falling back to the terminal's background.
func DetectTheme() Theme {
	if override := os.Getenv("PUBADMIN_THEME"); override != "" {
		switch strings.ToLower(override) {
		case "dark":
			return DarkTheme()
		case "light":
			return LightTheme()
		}
	}
	if lipgloss.HasDarkBackground() {
		return DarkTheme()
	}
	return LightTheme()
}

// GetTheme returns the theme based on the theme name.
func GetTheme(name string) Theme {
	switch strings.ToLower(name) {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		return DetectTheme()
	}
}
