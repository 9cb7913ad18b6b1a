package store

import (
	"testing"
	"time"

	"github.com/codeready-toolchain/inbox/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestNextDueDate_Daily(t *testing.T) {
	start := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	rec := &models.Recurrence{Type: models.RecurrenceDaily, Interval: 3}
	next := nextDueDate(start, rec)
	if assert.NotNil(t, next) {
		assert.Equal(t, time.Date(2026, 1, 13, 9, 0, 0, 0, time.UTC), *next)
	}
}

func TestNextDueDate_MonthlyClampsTo28th(t *testing.T) {
	start := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)
	rec := &models.Recurrence{Type: models.RecurrenceMonthly, Interval: 1}
	next := nextDueDate(start, rec)
	if assert.NotNil(t, next) {
		assert.Equal(t, 28, next.Day())
		assert.Equal(t, time.February, next.Month())
	}
}

func TestNextDueDate_WeeklyWithDays(t *testing.T) {
	// Monday 2026-01-12, want Mon/Wed/Fri (1,3,5) -> next is Wed
	start := time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)
	rec := &models.Recurrence{Type: models.RecurrenceWeekly, Interval: 1, Days: []int{1, 3, 5}}
	next := nextDueDate(start, rec)
	if assert.NotNil(t, next) {
		assert.Equal(t, time.Wednesday, next.Weekday())
	}
}

func TestNextDueDate_WeeklyWrapsToNextCycle(t *testing.T) {
	// Friday 2026-01-16, want Mon/Wed/Fri -> no day greater than Friday this
	// week, so wrap to next week's Monday.
	start := time.Date(2026, 1, 16, 9, 0, 0, 0, time.UTC)
	rec := &models.Recurrence{Type: models.RecurrenceWeekly, Interval: 1, Days: []int{1, 3, 5}}
	next := nextDueDate(start, rec)
	if assert.NotNil(t, next) {
		assert.Equal(t, time.Monday, next.Weekday())
		assert.True(t, next.After(start))
	}
}

func TestNextDueDate_RespectsEndDate(t *testing.T) {
	start := time.Date(2026, 1, 30, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rec := &models.Recurrence{Type: models.RecurrenceDaily, Interval: 5, EndDate: &end}
	next := nextDueDate(start, rec)
	assert.Nil(t, next, "next occurrence exceeds end_date and should not be created")
}

func TestNextDueDate_NilRecurrenceOrZeroDue(t *testing.T) {
	assert.Nil(t, nextDueDate(time.Now(), nil))
	assert.Nil(t, nextDueDate(time.Time{}, &models.Recurrence{Type: models.RecurrenceDaily}))
}

func TestDedupeTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupeTags([]string{"a", "b", "a"}))
}
