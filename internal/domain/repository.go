package domain

import "time"

// ValueRepository is a secondary port holding the persisted expression of
// each editor instance. It plays the role of the bound hidden form field.
type ValueRepository interface {
	Load(key string) (string, error)
	Save(key, value string) error
}

// SchedulePreviewer is a secondary port that computes upcoming run times of a
// valid expression.
type SchedulePreviewer interface {
	Next(expr string, from time.Time, count int) ([]time.Time, error)
}
