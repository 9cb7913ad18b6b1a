package store

import (
	"time"

	"github.com/codeready-toolchain/inbox/pkg/models"
)

// nextDueDate mirrors the original implementation's recurrence walk:
// daily/weekly add a fixed delta, monthly clamps the day-of-month to 28 to
// dodge month-length overflow, and an end_date (if set) is checked both
// before and after advancing.
func nextDueDate(currentDue time.Time, rec *models.Recurrence) *time.Time {
	if rec == nil || currentDue.IsZero() {
		return nil
	}
	if rec.EndDate != nil && !currentDue.Before(*rec.EndDate) {
		return nil
	}

	interval := rec.Interval
	if interval <= 0 {
		interval = 1
	}

	var next time.Time
	switch rec.Type {
	case models.RecurrenceDaily:
		next = currentDue.AddDate(0, 0, interval)

	case models.RecurrenceWeekly:
		if len(rec.Days) == 0 {
			next = currentDue.AddDate(0, 0, 7*interval)
			break
		}
		currentWeekday := int(currentDue.Weekday())
		sorted := append([]int(nil), rec.Days...)
		sortInts(sorted)

		nextDay := -1
		for _, d := range sorted {
			if d > currentWeekday {
				nextDay = d
				break
			}
		}
		var delta int
		if nextDay != -1 {
			delta = nextDay - currentWeekday
		} else {
			delta = (7 * interval) - currentWeekday + sorted[0]
		}
		next = currentDue.AddDate(0, 0, delta)

	case models.RecurrenceMonthly:
		month := int(currentDue.Month()) + interval
		year := currentDue.Year() + (month-1)/12
		month = ((month - 1) % 12) + 1
		day := currentDue.Day()
		if day > 28 {
			day = 28
		}
		next = time.Date(year, time.Month(month), day,
			currentDue.Hour(), currentDue.Minute(), currentDue.Second(), currentDue.Nanosecond(),
			currentDue.Location())

	default:
		next = currentDue.AddDate(0, 0, interval)
	}

	if rec.EndDate != nil && next.After(*rec.EndDate) {
		return nil
	}
	return &next
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
