package render

import "github.com/charmbracelet/lipgloss"

var (
	Subtle    = lipgloss.Color("#64748b")
	Primary   = lipgloss.Color("#7D56F4")
	ErrorRed  = lipgloss.Color("#ef4444")
	WarnAmber = lipgloss.Color("#f59e0b")

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	HelpStyle  = lipgloss.NewStyle().Foreground(Subtle).Italic(true)
	ErrorStyle = lipgloss.NewStyle().Foreground(ErrorRed).Bold(true)
	WarnStyle  = lipgloss.NewStyle().Foreground(WarnAmber)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Subtle).
			Padding(0, 1)
)

// tierColors — цвета тиров ALRI
var tierColors = map[string]lipgloss.Color{
	"red_critical":  "#ef4444",
	"orange_high":   "#f97316",
	"yellow_medium": "#eab308",
	"green_low":     "#22c55e",
}
