package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/frogmud/neverdieguy-core/internal/pool"
)

// Theme contains all configurable visual styles for the dev overlay.
type Theme struct {
	// Header styles
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Separator lipgloss.Style

	// Counter styles
	Label lipgloss.Style
	Value lipgloss.Style
	Gold  lipgloss.Style
	Heat  lipgloss.Style
	Favor lipgloss.Style
	Calm  lipgloss.Style

	// List styles
	ItemNormal lipgloss.Style
	ItemActive lipgloss.Style
	ItemDim    lipgloss.Style
	Price      lipgloss.Style

	// Door styles, one per door type
	DoorStable  lipgloss.Style
	DoorElite   lipgloss.Style
	DoorAnomaly lipgloss.Style
	DoorAudit   lipgloss.Style

	// Outcome styles
	Win    lipgloss.Style
	Loss   lipgloss.Style
	Status lipgloss.Style
	Help   lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),  // Bright cyan
		Subtitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),            // Medium gray
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),            // Dark gray

		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Value: lipgloss.NewStyle().Bold(true),
		Gold:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")), // Bright yellow
		Heat:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // Red
		Favor: lipgloss.NewStyle().Foreground(lipgloss.Color("135")), // Medium purple
		Calm:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")),  // Lime green

		ItemNormal: lipgloss.NewStyle(),
		ItemActive: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		ItemDim:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Price:      lipgloss.NewStyle().Foreground(lipgloss.Color("226")),

		DoorStable:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		DoorElite:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")), // Hot pink
		DoorAnomaly: lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
		DoorAudit:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),

		Win:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")),
		Loss:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Status: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
		Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// DoorStyle returns the style for a door type.
func (t Theme) DoorStyle(dt pool.DoorType) lipgloss.Style {
	switch dt {
	case pool.DoorElite:
		return t.DoorElite
	case pool.DoorAnomaly:
		return t.DoorAnomaly
	case pool.DoorAudit:
		return t.DoorAudit
	default:
		return t.DoorStable
	}
}
