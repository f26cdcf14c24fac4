package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NoHighlight marks a segment or state that belongs to no field.
const NoHighlight = -1

var monthNames = map[string]string{
	"1": "January", "2": "February", "3": "March", "4": "April",
	"5": "May", "6": "June", "7": "July", "8": "August",
	"9": "September", "10": "October", "11": "November", "12": "December",
}

var weekdayNames = map[string]string{
	"0": "Sunday", "1": "Monday", "2": "Tuesday", "3": "Wednesday",
	"4": "Thursday", "5": "Friday", "6": "Saturday",
}

// Summary is the phrase model of a valid expression. Clause fields carry
// their leading connector (" on ", " in ", " and on ") and are empty when the
// field is a wildcard.
type Summary struct {
	// SpecificTime is set when minute and hour are plain literals; Minute and
	// Hour then hold the zero-padded "MM" and "HH" halves.
	SpecificTime bool
	Minute       string
	Hour         string
	DayOfMonth   string
	Month        string
	DayOfWeek    string
}

// Segment is one piece of rendered summary text. Field is the index of the
// field the text describes, or NoHighlight.
type Segment struct {
	Text  string
	Field int
}

// BuildSummary derives the summary of five valid field values.
func BuildSummary(values [FieldCount]string) Summary {
	minute, hour := values[KindMinute], values[KindHour]
	dom, month, dow := values[KindDayOfMonth], values[KindMonth], values[KindDayOfWeek]

	s := Summary{}
	if isPlainLiteral(minute) && isPlainLiteral(hour) {
		s.SpecificTime = true
		s.Minute = pad2(minute)
		s.Hour = pad2(hour)
	} else {
		s.Minute = FieldPhrase(KindMinute, minute, true)
		s.Hour = FieldPhrase(KindHour, hour, true)
	}

	if dom != Wildcard {
		s.DayOfMonth = " on " + FieldPhrase(KindDayOfMonth, dom, true)
	}
	if month != Wildcard {
		s.Month = " in " + FieldPhrase(KindMonth, month, false)
	}
	if dow != Wildcard {
		connector := " on "
		if s.DayOfMonth != "" {
			connector = " and on "
		}
		s.DayOfWeek = connector + FieldPhrase(KindDayOfWeek, dow, false)
	}
	return s
}

// Segments lays the summary out in reading order.
func (s Summary) Segments() []Segment {
	segs := []Segment{{Text: "At ", Field: NoHighlight}}
	if s.SpecificTime {
		segs = append(segs,
			Segment{Text: s.Hour, Field: int(KindHour)},
			Segment{Text: ":", Field: NoHighlight},
			Segment{Text: s.Minute, Field: int(KindMinute)},
		)
	} else {
		segs = append(segs,
			Segment{Text: s.Minute, Field: int(KindMinute)},
			Segment{Text: " ", Field: NoHighlight},
			Segment{Text: s.Hour, Field: int(KindHour)},
		)
	}
	for _, c := range []Segment{
		{Text: s.DayOfMonth, Field: int(KindDayOfMonth)},
		{Text: s.Month, Field: int(KindMonth)},
		{Text: s.DayOfWeek, Field: int(KindDayOfWeek)},
	} {
		if c.Text != "" {
			segs = append(segs, c)
		}
	}
	return append(segs, Segment{Text: ".", Field: NoHighlight})
}

// String returns the summary without emphasis.
func (s Summary) String() string {
	var b strings.Builder
	for _, seg := range s.Segments() {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// IsZero reports whether no summary has been built yet.
func (s Summary) IsZero() bool {
	return s == Summary{}
}

// FieldPhrase describes a single field value in English. withName controls
// whether lists, ranges and literals are prefixed by the field name; wildcard
// and step phrases always name the field.
func FieldPhrase(k Kind, expr string, withName bool) string {
	name := k.String()
	switch {
	case expr == Wildcard:
		return "every " + name
	case strings.HasPrefix(expr, "*/"):
		return "every " + Ordinal(strings.TrimPrefix(expr, "*/")) + " " + name
	case strings.Contains(expr, ","):
		return prefixed(name+"s ", withName) + formatList(k, strings.Split(expr, ","))
	case strings.Contains(expr, "-"):
		return prefixed(name+"s ", withName) + formatRange(k, expr)
	default:
		return prefixed(name+" ", withName) + formatValue(k, expr)
	}
}

func prefixed(prefix string, on bool) string {
	if on {
		return prefix
	}
	return ""
}

func formatList(k Kind, values []string) string {
	items := make([]string, len(values))
	for i, v := range values {
		if strings.Contains(v, "-") {
			items[i] = formatRange(k, v)
		} else {
			items[i] = formatValue(k, v)
		}
	}
	switch len(items) {
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

func formatRange(k Kind, expr string) string {
	lo, hi, _ := strings.Cut(expr, "-")
	return formatValue(k, lo) + " through " + formatValue(k, hi)
}

func formatValue(k Kind, v string) string {
	switch k {
	case KindMonth:
		if name, ok := monthNames[v]; ok {
			return name
		}
	case KindDayOfWeek:
		if name, ok := weekdayNames[v]; ok {
			return name
		}
	}
	return v
}

// Ordinal renders a number with its English suffix: 1st, 2nd, 3rd, 4th,
// 11th, 12th, 13th, 21st and so on. Non-numeric input is returned unchanged.
func Ordinal(num string) string {
	n, err := strconv.Atoi(num)
	if err != nil {
		return num
	}
	suffix := "th"
	if v := n % 100; v < 11 || v > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

func isPlainLiteral(v string) bool {
	return v != "" && !strings.ContainsAny(v, "*,-/")
}

func pad2(v string) string {
	if len(v) < 2 {
		return "0" + v
	}
	return v
}

// Describe validates a full expression and returns its plain summary.
func Describe(expr string) (string, error) {
	s, err := SummarizeExpression(defaultGrammar, expr)
	if err != nil {
		return "", err
	}
	return s.String(), nil
}

// SummarizeExpression validates expr with g and builds its summary.
func SummarizeExpression(g *Grammar, expr string) (Summary, error) {
	if !g.ValidExpression(expr) {
		return Summary{}, fmt.Errorf("%w: %q", ErrInvalidExpression, expr)
	}
	return BuildSummary(SplitExpression(expr)), nil
}
