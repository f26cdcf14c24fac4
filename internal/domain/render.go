package domain

import (
	"html"
	"strings"
)

// Renderer turns a summary and the highlighted field into display text.
type Renderer interface {
	RenderSummary(s Summary, highlight int) string
	RenderError(message string) string
}

// HTMLRenderer emits the markup used by the editor widget.
type HTMLRenderer struct{}

func (HTMLRenderer) RenderSummary(s Summary, highlight int) string {
	var b strings.Builder
	for _, seg := range s.Segments() {
		text := html.EscapeString(seg.Text)
		if highlight != NoHighlight && seg.Field == highlight {
			b.WriteString(`<span class="cron-editor-highlight">`)
			b.WriteString(text)
			b.WriteString(`</span>`)
			continue
		}
		b.WriteString(text)
	}
	return b.String()
}

func (HTMLRenderer) RenderError(message string) string {
	return `<span class="cron-editor-error">` + html.EscapeString(message) + `</span>`
}

// MarkerRenderer wraps the highlighted fragment in plain text markers.
type MarkerRenderer struct {
	Open  string
	Close string
}

// NewMarkerRenderer returns a renderer using "[" and "]".
func NewMarkerRenderer() MarkerRenderer {
	return MarkerRenderer{Open: "[", Close: "]"}
}

func (m MarkerRenderer) RenderSummary(s Summary, highlight int) string {
	return RenderSegments(s, highlight, func(text string) string {
		return m.Open + text + m.Close
	})
}

func (MarkerRenderer) RenderError(message string) string {
	return message
}

// RenderSegments concatenates the summary, passing the highlighted segment
// through emphasize.
func RenderSegments(s Summary, highlight int, emphasize func(string) string) string {
	var b strings.Builder
	for _, seg := range s.Segments() {
		if highlight != NoHighlight && seg.Field == highlight {
			b.WriteString(emphasize(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
