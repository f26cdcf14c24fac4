package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"cron-editor/internal/domain"
)

// MaxPreview caps the number of run times a single preview returns.
const MaxPreview = 50

// CronPreviewer implements domain.SchedulePreviewer with robfig/cron.
type CronPreviewer struct {
	parser   cron.Parser
	location *time.Location
}

// NewCronPreviewer creates a previewer evaluating schedules in loc
// (time.Local when nil).
func NewCronPreviewer(loc *time.Location) *CronPreviewer {
	if loc == nil {
		loc = time.Local
	}
	return &CronPreviewer{
		parser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		location: loc,
	}
}

// Next returns up to count run times strictly after from. Field grammar is
// the caller's concern; expr is only checked for being schedulable.
func (p *CronPreviewer) Next(expr string, from time.Time, count int) ([]time.Time, error) {
	sched, err := p.parser.Parse(expr)
	if err != nil {
		// Grammar-valid values such as "*/0" or "5-1" have no schedule.
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidExpression, err)
	}

	if count <= 0 {
		count = 1
	}
	if count > MaxPreview {
		count = MaxPreview
	}

	runs := make([]time.Time, 0, count)
	t := from.In(p.location)
	for len(runs) < count {
		t = sched.Next(t)
		if t.IsZero() {
			break
		}
		runs = append(runs, t)
	}
	return runs, nil
}
