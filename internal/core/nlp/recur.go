package nlp

import (
	"time"

	"github.com/colonyops/taskwise/internal/core/task"
)

// NextOccurrence computes the due date of the next instance of a recurring
// task from its previous due date. Returns ok=false when the previous date
// or rule is absent, unparseable, or of an unknown type.
//
// A weekly rule with an explicit weekday always advances exactly 7 days:
// a named-weekday recurrence means "the same weekday next week" and the
// interval is ignored for that shape. Monthly recurrence follows
// time.AddDate normalization, so a day-of-month past the target month's
// end rolls into the following month.
func NextOccurrence(previousDueDate string, rule *task.Recurrence) (string, bool) {
	if previousDueDate == "" || rule == nil {
		return "", false
	}

	prev, err := time.Parse(DateLayout, previousDueDate)
	if err != nil {
		return "", false
	}
	prev = time.Date(prev.Year(), prev.Month(), prev.Day(), 12, 0, 0, 0, time.UTC)

	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	var next time.Time
	switch rule.Type {
	case task.RecurDaily:
		next = prev.AddDate(0, 0, interval)
	case task.RecurWeekly:
		if rule.HasWeekday() {
			next = prev.AddDate(0, 0, 7)
		} else {
			next = prev.AddDate(0, 0, 7*interval)
		}
	case task.RecurMonthly:
		next = prev.AddDate(0, interval, 0)
	default:
		return "", false
	}

	return formatDate(next), true
}
