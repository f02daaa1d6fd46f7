package board

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor   = lipgloss.Color("212")
	secondaryColor = lipgloss.Color("141")
	mutedColor     = lipgloss.Color("241")
	successColor   = lipgloss.Color("42")
	warningColor   = lipgloss.Color("214")
	errorColor     = lipgloss.Color("196")
	borderColor    = lipgloss.Color("240")

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	selectedTileStyle = tileStyle.
				BorderForeground(secondaryColor)

	// candidateTileStyle marks the tile under the pointer while the dwell runs
	candidateTileStyle = tileStyle.
				BorderForeground(warningColor)

	// targetTileStyle marks an armed merge target
	targetTileStyle = tileStyle.
			Border(lipgloss.DoubleBorder()).
			BorderForeground(successColor)

	overlayStyle = tileStyle.
			Border(lipgloss.ThickBorder()).
			BorderForeground(primaryColor)

	mergeMarkerStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)

	placeholderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("236"))

	titleStyle    = lipgloss.NewStyle().Bold(true)
	subtleStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	folderStyle   = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)
	linkHostStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))

	toolbarButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("237")).
				Padding(0, 1)

	toolbarActiveStyle = toolbarButtonStyle.
				Background(primaryColor).
				Foreground(lipgloss.Color("0"))

	breadcrumbStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)

	statusOKStyle    = lipgloss.NewStyle().Foreground(successColor)
	statusErrorStyle = lipgloss.NewStyle().Foreground(errorColor).Bold(true)

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)
)
