package cli

import (
	"github.com/charmbracelet/lipgloss"

	"cron-editor/internal/domain"
)

// TerminalRenderer emphasizes the focused fragment with lipgloss styles.
type TerminalRenderer struct {
	highlight lipgloss.Style
	err       lipgloss.Style
}

// NewTerminalRenderer creates a renderer using color for the highlight.
func NewTerminalRenderer(color string) TerminalRenderer {
	return TerminalRenderer{
		highlight: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color(color)),
		err:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (t TerminalRenderer) RenderSummary(s domain.Summary, highlight int) string {
	return domain.RenderSegments(s, highlight, func(text string) string {
		return t.highlight.Render(text)
	})
}

func (t TerminalRenderer) RenderError(message string) string {
	return t.err.Render(message)
}
