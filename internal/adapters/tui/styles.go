package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent      = lipgloss.Color("#7b4db0")
	muted       = lipgloss.Color("#6b537a")
	destructive = lipgloss.Color("#e53935")
	success     = lipgloss.Color("#8BC34A")
)

// Styles は画面描画に使うスタイルの集合です。
type Styles struct {
	Title       lipgloss.Style
	Subtle      lipgloss.Style
	Selected    lipgloss.Style
	Label       lipgloss.Style
	Avatar      lipgloss.Style
	Card        lipgloss.Style
	StepActive  lipgloss.Style
	StepPending lipgloss.Style
	Toast       lipgloss.Style
	Danger      lipgloss.Style
	Done        lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles は既定のスタイルを返します。
func DefaultStyles() Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(accent),
		Subtle:      lipgloss.NewStyle().Foreground(muted),
		Selected:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Label:       lipgloss.NewStyle().Width(14).Foreground(muted),
		Avatar:      lipgloss.NewStyle().Width(4).Align(lipgloss.Center).Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(accent),
		Card:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		StepActive:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		StepPending: lipgloss.NewStyle().Foreground(muted),
		Toast:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(muted).Padding(0, 1),
		Danger:      lipgloss.NewStyle().Bold(true).Foreground(destructive),
		Done:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(success).Padding(0, 2),
		Help:        lipgloss.NewStyle().Foreground(muted).Italic(true),
	}
}
