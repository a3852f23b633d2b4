package output

import "github.com/charmbracelet/lipgloss"

// Styles is the set of lipgloss styles used by command output.
type Styles struct {
	Header1  lipgloss.Style
	Header2  lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	MealName lipgloss.Style
	Day      lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

// NewStyles builds the styles on lg so they respect its colour profile.
func NewStyles(lg *lipgloss.Renderer) Styles {
	return Styles{
		Header1:  lg.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:  lg.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:     lg.NewStyle().Bold(true),
		Muted:    lg.NewStyle().Foreground(lipgloss.Color("8")),
		Success:  lg.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:  lg.NewStyle().Foreground(lipgloss.Color("11")),
		Error:    lg.NewStyle().Foreground(lipgloss.Color("9")),
		Info:     lg.NewStyle().Foreground(lipgloss.Color("12")),
		MealName: lg.NewStyle().Foreground(lipgloss.Color("13")),
		Day:      lg.NewStyle().Bold(true).Underline(true),

		StatusSuccess: lg.NewStyle().Foreground(lipgloss.Color("10")).SetString("✓"),
		StatusFailed:  lg.NewStyle().Foreground(lipgloss.Color("9")).SetString("✗"),
	}
}
