package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLRenderer(t *testing.T) {
	t.Parallel()

	r := HTMLRenderer{}
	s := BuildSummary([FieldCount]string{"30", "14", "1", "1", "*"})

	assert.Equal(t, "At 14:30 on day-of-month 1 in January.", r.RenderSummary(s, NoHighlight))
	assert.Equal(t,
		`At <span class="cron-editor-highlight">14</span>:30 on day-of-month 1 in January.`,
		r.RenderSummary(s, int(KindHour)))
	assert.Equal(t,
		`At 14:<span class="cron-editor-highlight">30</span> on day-of-month 1 in January.`,
		r.RenderSummary(s, int(KindMinute)))
	assert.Equal(t,
		`At 14:30 on day-of-month 1<span class="cron-editor-highlight"> in January</span>.`,
		r.RenderSummary(s, int(KindMonth)))
	assert.Equal(t,
		`<span class="cron-editor-error">Invalid cron expression. Please check highlighted fields.</span>`,
		r.RenderError(InvalidExpressionMessage))
}

func TestHTMLRenderer_HighlightOmittedClause(t *testing.T) {
	t.Parallel()

	s := BuildSummary([FieldCount]string{"0", "0", "*", "*", "*"})
	assert.Equal(t, "At 00:00.", HTMLRenderer{}.RenderSummary(s, int(KindDayOfWeek)))
}

func TestMarkerRenderer(t *testing.T) {
	t.Parallel()

	r := NewMarkerRenderer()
	s := BuildSummary([FieldCount]string{"*/15", "*", "*", "*", "*"})

	assert.Equal(t, "At every 15th minute [every hour].", r.RenderSummary(s, int(KindHour)))
	assert.Equal(t, "At [every 15th minute] every hour.", r.RenderSummary(s, int(KindMinute)))
	assert.Equal(t, InvalidExpressionMessage, r.RenderError(InvalidExpressionMessage))

	custom := MarkerRenderer{Open: "**", Close: "**"}
	assert.Equal(t, "At every 15th minute **every hour**.", custom.RenderSummary(s, int(KindHour)))
}
