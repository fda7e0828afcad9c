package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Table styles
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	CellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	BorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// Version update styles
	PatchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	MinorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	MajorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	UpToDateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// Section header styles
	MainHeaderStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	PeerHeaderStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	OptionalHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("240"))
	SummaryStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	CTAStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	SuccessStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	WarnStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// FormatVersionUpdate returns the style for an update type
func FormatVersionUpdate(updateType string) lipgloss.Style {
	switch updateType {
	case "major":
		return MajorStyle
	case "minor":
		return MinorStyle
	case "patch":
		return PatchStyle
	case "none":
		return UpToDateStyle
	default:
		return CellStyle
	}
}
