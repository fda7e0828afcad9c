package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("241"))

	sectionStyles = map[Section]lipgloss.Style{
		SectionMain:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		SectionPeer:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		SectionOptional: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("240")),
	}

	cursorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	nameStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	scopeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	activeScope     = lipgloss.NewStyle().Foreground(lipgloss.Color("139"))
	fillerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	rangeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	latestStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dotStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	pickedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))

	modalBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(0, 1)
	modalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	modalDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	modalLinkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Underline(true)
	spinnerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	summaryNameStyle = lipgloss.NewStyle().Bold(true)
	summaryHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)
