package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Patterns maps each field to the regular expression its raw value must match
// in full. A value is one of: "*", a literal, a range "a-b", a comma list of
// literals and ranges, or a step "*/n".
type Patterns map[Kind]string

// DefaultPatterns accepts minute 0-59, hour 0-23, day-of-month 1-31,
// month 1-12 and day-of-week 0-6.
var DefaultPatterns = Patterns{
	KindMinute:     `^(\*|([0-9]|[1-5][0-9])(-([0-9]|[1-5][0-9]))?(,([0-9]|[1-5][0-9])(-([0-9]|[1-5][0-9]))?)*|\*/([0-9]|[1-5][0-9]))$`,
	KindHour:       `^(\*|([0-9]|1[0-9]|2[0-3])(-([0-9]|1[0-9]|2[0-3]))?(,([0-9]|1[0-9]|2[0-3])(-([0-9]|1[0-9]|2[0-3]))?)*|\*/([0-9]|1[0-9]|2[0-3]))$`,
	KindDayOfMonth: `^(\*|([1-9]|[12][0-9]|3[01])(-([1-9]|[12][0-9]|3[01]))?(,([1-9]|[12][0-9]|3[01])(-([1-9]|[12][0-9]|3[01]))?)*|\*/([1-9]|[12][0-9]|3[01]))$`,
	KindMonth:      `^(\*|([1-9]|1[0-2])(-([1-9]|1[0-2]))?(,([1-9]|1[0-2])(-([1-9]|1[0-2]))?)*|\*/([1-9]|1[0-2]))$`,
	KindDayOfWeek:  `^(\*|[0-6](-[0-6])?(,[0-6](-[0-6])?)*|\*/[0-6])$`,
}

// Grammar is the compiled per-field validation table.
type Grammar struct {
	patterns [FieldCount]*regexp.Regexp
}

// NewGrammar compiles a pattern table. Every field must have a pattern.
func NewGrammar(patterns Patterns) (*Grammar, error) {
	g := &Grammar{}
	for _, k := range Kinds {
		src, ok := patterns[k]
		if !ok {
			return nil, fmt.Errorf("missing pattern for %s field", k)
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("compile %s pattern: %w", k, err)
		}
		g.patterns[k] = re
	}
	return g, nil
}

var defaultGrammar = mustGrammar(DefaultPatterns)

// DefaultGrammar returns the grammar built from DefaultPatterns.
func DefaultGrammar() *Grammar {
	return defaultGrammar
}

func mustGrammar(p Patterns) *Grammar {
	g, err := NewGrammar(p)
	if err != nil {
		panic(err)
	}
	return g
}

// ValidField reports whether value satisfies the grammar of field k.
// An empty value is never valid.
func (g *Grammar) ValidField(k Kind, value string) bool {
	if value == "" || !k.Valid() {
		return false
	}
	return g.patterns[k].MatchString(value)
}

// ValidExpression reports whether expr has exactly five whitespace separated
// fields that are each valid.
func (g *Grammar) ValidExpression(expr string) bool {
	parts := strings.Fields(expr)
	if len(parts) != FieldCount {
		return false
	}
	for i, part := range parts {
		if !g.ValidField(Kind(i), part) {
			return false
		}
	}
	return true
}

// Evaluate builds field states for five raw values.
func (g *Grammar) Evaluate(values [FieldCount]string) Fields {
	var f Fields
	for i, v := range values {
		v = strings.TrimSpace(v)
		f[i] = FieldState{Raw: v, Valid: g.ValidField(Kind(i), v)}
	}
	return f
}

// ValidateExpression checks expr against the default grammar.
func ValidateExpression(expr string) bool {
	return defaultGrammar.ValidExpression(expr)
}
