package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammar_FieldBoundaries(t *testing.T) {
	t.Parallel()

	g := DefaultGrammar()
	cases := []struct {
		kind  Kind
		value string
		want  bool
	}{
		{KindMinute, "0", true},
		{KindMinute, "59", true},
		{KindMinute, "60", false},
		{KindHour, "23", true},
		{KindHour, "24", false},
		{KindDayOfMonth, "0", false},
		{KindDayOfMonth, "1", true},
		{KindDayOfMonth, "31", true},
		{KindDayOfMonth, "32", false},
		{KindMonth, "0", false},
		{KindMonth, "12", true},
		{KindMonth, "13", false},
		{KindDayOfWeek, "0", true},
		{KindDayOfWeek, "6", true},
		{KindDayOfWeek, "7", false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, g.ValidField(tc.kind, tc.value), "%s %q", tc.kind, tc.value)
	}
}

func TestGrammar_Forms(t *testing.T) {
	t.Parallel()

	g := DefaultGrammar()
	valid := []string{"*", "5", "1-5", "1,3,5", "1-5,10,20-30", "*/15", "*/0", "5-1"}
	for _, v := range valid {
		assert.Truef(t, g.ValidField(KindMinute, v), "expected %q to be valid", v)
	}

	invalid := []string{"", " ", "**", "*/", "1,,2", "1-", "-1", "1-5/2", "*/60", "a", "05", "1, 2", "*,1"}
	for _, v := range invalid {
		assert.Falsef(t, g.ValidField(KindMinute, v), "expected %q to be invalid", v)
	}
}

func TestGrammar_EmptyIsInvalidButSerializesAsWildcard(t *testing.T) {
	t.Parallel()

	g := DefaultGrammar()
	for _, k := range Kinds {
		assert.False(t, g.ValidField(k, ""), k.String())
	}

	fields := g.Evaluate([FieldCount]string{"", "", "", "", ""})
	assert.False(t, fields.AllValid())
	assert.Equal(t, "* * * * *", fields.Serialize())
}

func TestGrammar_ValidExpression(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidateExpression("0 0 * * *"))
	assert.True(t, ValidateExpression("*/5 9-17 1,15 1-6 1-5"))
	assert.False(t, ValidateExpression("0 0 * *"))
	assert.False(t, ValidateExpression("0 0 * * * *"))
	assert.False(t, ValidateExpression("0 24 * * *"))
	assert.False(t, ValidateExpression(""))
	assert.False(t, ValidateExpression("@daily"))
}

func TestNewGrammar_InjectedPatterns(t *testing.T) {
	t.Parallel()

	patterns := Patterns{}
	for k, v := range DefaultPatterns {
		patterns[k] = v
	}
	patterns[KindMinute] = `^(\*|[0-9])$`

	g, err := NewGrammar(patterns)
	require.NoError(t, err)
	assert.True(t, g.ValidField(KindMinute, "9"))
	assert.False(t, g.ValidField(KindMinute, "10"))
	assert.True(t, g.ValidField(KindHour, "23"))
}

func TestNewGrammar_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewGrammar(Patterns{KindMinute: `^\*$`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing pattern for hour field")

	patterns := Patterns{}
	for k, v := range DefaultPatterns {
		patterns[k] = v
	}
	patterns[KindMonth] = `(`
	_, err = NewGrammar(patterns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile month pattern")
}

func TestSplitExpression(t *testing.T) {
	t.Parallel()

	assert.Equal(t, [FieldCount]string{"0", "0", "*", "*", "*"}, SplitExpression("0 0"))
	assert.Equal(t, [FieldCount]string{"1", "2", "3", "4", "5"}, SplitExpression("1  2 3 4 5 6"))
	assert.Equal(t, [FieldCount]string{"*", "*", "*", "*", "*"}, SplitExpression(""))
}

func TestKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "day-of-month", KindDayOfMonth.String())
	assert.Equal(t, "unknown", Kind(9).String())

	lo, hi := KindDayOfWeek.Bounds()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 6, hi)
}

func TestParseExpression(t *testing.T) {
	t.Parallel()

	got, err := ParseExpression("  0 9 * * 1-5 ")
	require.NoError(t, err)
	assert.Equal(t, [FieldCount]string{"0", "9", "*", "*", "1-5"}, got)

	for _, expr := range []string{"", "0 0 * *", "0 0 * * * 2024"} {
		_, err := ParseExpression(expr)
		assert.ErrorIs(t, err, ErrInvalidExpression, expr)
		assert.Equal(t, ValidateExpression(expr), err == nil, expr)
	}
	_, err = ParseExpression("0 0 * * * 2024")
	assert.EqualError(t, err, "invalid cron expression: expected 5 fields, got 6")
}
