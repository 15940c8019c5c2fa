package presentation

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic colors for report output
	titleColor   = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#89B4FA"}
	labelColor   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}
	valueColor   = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#CCCCCC"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#696969"}
	successColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	addedColor   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	removedColor = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"}
	changedColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}

	// TitleStyle renders section headers.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(titleColor)
	// LabelStyle renders field labels.
	LabelStyle = lipgloss.NewStyle().Foreground(labelColor)
	// ValueStyle renders field values.
	ValueStyle = lipgloss.NewStyle().Foreground(valueColor)
	// MutedStyle renders secondary detail like source attribution.
	MutedStyle = lipgloss.NewStyle().Foreground(mutedColor)
	// SuccessStyle renders the completed status.
	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(successColor)
	// ErrorStyle renders the failed status and error text.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
	// AddedStyle renders added diff lines.
	AddedStyle = lipgloss.NewStyle().Foreground(addedColor)
	// RemovedStyle renders removed diff lines.
	RemovedStyle = lipgloss.NewStyle().Foreground(removedColor)
	// ChangedStyle renders changed diff lines.
	ChangedStyle = lipgloss.NewStyle().Foreground(changedColor)
)
