package domain

import (
	"fmt"
	"strings"
)

// Kind identifies one of the five cron fields. The numeric value is the
// field index and also its position in the serialized expression.
type Kind int

const (
	KindMinute Kind = iota
	KindHour
	KindDayOfMonth
	KindMonth
	KindDayOfWeek
)

// FieldCount is the number of fields in a cron expression.
const FieldCount = 5

// DefaultExpression seeds editors whose bound value is empty.
const DefaultExpression = "* * * * *"

// Wildcard matches every value of a field.
const Wildcard = "*"

// Kinds lists all fields in serialization order.
var Kinds = [FieldCount]Kind{KindMinute, KindHour, KindDayOfMonth, KindMonth, KindDayOfWeek}

var kindNames = [FieldCount]string{"minute", "hour", "day-of-month", "month", "day-of-week"}

// String returns the display name used in summaries, e.g. "day-of-month".
func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the five known fields.
func (k Kind) Valid() bool {
	return k >= KindMinute && k <= KindDayOfWeek
}

// Bounds returns the inclusive value range of the field.
func (k Kind) Bounds() (min, max int) {
	switch k {
	case KindMinute:
		return 0, 59
	case KindHour:
		return 0, 23
	case KindDayOfMonth:
		return 1, 31
	case KindMonth:
		return 1, 12
	case KindDayOfWeek:
		return 0, 6
	default:
		return 0, -1
	}
}

// FieldState is the raw text of one field and whether it satisfies the grammar.
type FieldState struct {
	Raw   string
	Valid bool
}

// Fields holds the state of all five fields of one editor.
type Fields [FieldCount]FieldState

// Serialize joins the raw values with single spaces. Empty values are written
// as a wildcard; non-empty values are kept verbatim even when invalid.
func (f Fields) Serialize() string {
	parts := make([]string, FieldCount)
	for i, field := range f {
		parts[i] = field.Raw
		if parts[i] == "" {
			parts[i] = Wildcard
		}
	}
	return strings.Join(parts, " ")
}

// Values returns the raw values with the same wildcard substitution as Serialize.
func (f Fields) Values() [FieldCount]string {
	var out [FieldCount]string
	for i, field := range f {
		out[i] = field.Raw
		if out[i] == "" {
			out[i] = Wildcard
		}
	}
	return out
}

// AllValid is the aggregate validity flag.
func (f Fields) AllValid() bool {
	for _, field := range f {
		if !field.Valid {
			return false
		}
	}
	return true
}

// SplitExpression splits a persisted value into five raw field values. Missing
// fields become wildcards and extra fields are ignored; an empty value yields
// DefaultExpression.
func SplitExpression(value string) [FieldCount]string {
	var out [FieldCount]string
	parts := strings.Fields(value)
	for i := range out {
		if i < len(parts) {
			out[i] = parts[i]
		} else {
			out[i] = Wildcard
		}
	}
	return out
}

// ParseExpression splits a user-entered expression that must carry exactly
// FieldCount fields. Unlike SplitExpression it never pads or truncates.
func ParseExpression(expr string) ([FieldCount]string, error) {
	var out [FieldCount]string
	parts := strings.Fields(expr)
	if len(parts) != FieldCount {
		return out, fmt.Errorf("%w: expected %d fields, got %d", ErrInvalidExpression, FieldCount, len(parts))
	}
	copy(out[:], parts)
	return out, nil
}
