package views

import (
	"github.com/charmbracelet/lipgloss"

	"collapsehead/internal/domain"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	FixedTop    lipgloss.Style
	HeaderTitle lipgloss.Style
	Header      lipgloss.Style
	HeaderDim   lipgloss.Style
	Sticky      lipgloss.Style
	Row         lipgloss.Style
	RowAlt      lipgloss.Style
	Bounce      lipgloss.Style
	Empty       lipgloss.Style
	Status      lipgloss.Style
	StatusKey   lipgloss.Style
	StatusError lipgloss.Style
	Debug       lipgloss.Style
	DebugTitle  lipgloss.Style
	Help        lipgloss.Style
	HelpTitle   lipgloss.Style
	Popup       lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		FixedTop: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("57")),
		HeaderTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Background(lipgloss.Color("236")),
		Header:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		HeaderDim:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")),
		Sticky:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")).Background(lipgloss.Color("238")),
		Row:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		RowAlt:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Bounce:      lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Empty:       lipgloss.NewStyle().Faint(true).Italic(true),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Debug: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		DebugTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Help:       lipgloss.NewStyle().Faint(true),
		HelpTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(1, 2),
	}
}

// DirectionColor returns the status bar color for a scroll direction
func DirectionColor(d domain.Direction) string {
	switch d {
	case domain.DirectionUp:
		return "78" // green
	case domain.DirectionDown:
		return "214" // yellow
	default:
		return "241" // gray
	}
}

// DirectionGlyph returns a one-cell marker for a scroll direction
func DirectionGlyph(d domain.Direction) string {
	switch d {
	case domain.DirectionUp:
		return "▲"
	case domain.DirectionDown:
		return "▼"
	default:
		return "■"
	}
}
