package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cron-editor/internal/domain"
)

func TestCronPreviewer_DailyMidnight(t *testing.T) {
	t.Parallel()

	p := NewCronPreviewer(time.UTC)
	from := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	runs, err := p.Next("0 0 * * *", from, 2)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC),
	}, runs)
}

func TestCronPreviewer_EveryFifteenMinutes(t *testing.T) {
	t.Parallel()

	p := NewCronPreviewer(time.UTC)
	from := time.Date(2026, 1, 15, 10, 3, 0, 0, time.UTC)

	runs, err := p.Next("*/15 * * * *", from, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, time.Date(2026, 1, 15, 10, 15, 0, 0, time.UTC), runs[0])
	assert.Equal(t, time.Date(2026, 1, 15, 10, 45, 0, 0, time.UTC), runs[2])
}

func TestCronPreviewer_Weekdays(t *testing.T) {
	t.Parallel()

	p := NewCronPreviewer(time.UTC)
	// 2026-01-15 is a Thursday.
	from := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	runs, err := p.Next("0 9 * * 1,3,5", from, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, time.Friday, runs[0].Weekday())
	assert.Equal(t, time.Monday, runs[1].Weekday())
	assert.Equal(t, time.Wednesday, runs[2].Weekday())
	assert.Equal(t, 9, runs[0].Hour())
}

func TestCronPreviewer_Invalid(t *testing.T) {
	t.Parallel()

	p := NewCronPreviewer(time.UTC)
	from := time.Now()

	_, err := p.Next("0 24 * * *", from, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidExpression)

	_, err = p.Next("@daily", from, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidExpression)

	_, err = p.Next("*/0 * * * *", from, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidExpression)
}

func TestCronPreviewer_LeavesGrammarToCaller(t *testing.T) {
	t.Parallel()

	p := NewCronPreviewer(time.UTC)
	// 2026-01-15 is a Thursday.
	from := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	runs, err := p.Next("0 9 * * MON", from, 1)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 19, 9, 0, 0, 0, time.UTC), runs[0])
}

func TestCronPreviewer_CountBounds(t *testing.T) {
	t.Parallel()

	p := NewCronPreviewer(time.UTC)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	runs, err := p.Next("* * * * *", from, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	runs, err = p.Next("* * * * *", from, 1000)
	require.NoError(t, err)
	assert.Len(t, runs, MaxPreview)
}
