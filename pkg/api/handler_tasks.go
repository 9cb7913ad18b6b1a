package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/inbox/ent/item"
)

// taskBuckets handles GET /api/tasks: every task bucketed into overdue,
// today, tomorrow, this_week, later, without_date, completed, relative to
// the caller's own wall clock (their stored IANA timezone).
func (s *Server) taskBuckets(c *gin.Context) {
	ctx := c.Request.Context()
	userID := authenticatedUserID(c)

	u, err := s.store.Users.GetOrCreate(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	loc := apiTimezoneOrUTC(u.Timezone)

	tasks, err := s.store.Items.GetTasksWithDueDates(ctx, userID, nil, nil)
	if err != nil {
		writeError(c, err)
		return
	}

	now := time.Now().In(loc)
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	startOfTomorrow := startOfToday.AddDate(0, 0, 1)
	startOfDayAfterTomorrow := startOfToday.AddDate(0, 0, 2)
	weekEnd := endOfWeek(startOfToday)

	var resp TaskBucketsResponse
	for _, it := range tasks {
		ir := newItemResponse(it)
		switch {
		case it.Status == item.StatusDone || it.Status == item.StatusArchived:
			resp.Completed = append(resp.Completed, ir)
		case it.DueAt == nil:
			resp.WithoutDate = append(resp.WithoutDate, ir)
		case it.DueAt.Before(startOfToday):
			resp.Overdue = append(resp.Overdue, ir)
		case it.DueAt.Before(startOfTomorrow):
			resp.Today = append(resp.Today, ir)
		case it.DueAt.Before(startOfDayAfterTomorrow):
			resp.Tomorrow = append(resp.Tomorrow, ir)
		case it.DueAt.Before(weekEnd):
			resp.ThisWeek = append(resp.ThisWeek, ir)
		default:
			resp.Later = append(resp.Later, ir)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// endOfWeek returns the start of the Monday following the week containing
// t (a half-open upper bound for "this week", where weeks run Mon–Sun).
func endOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday()) // Sunday=0 .. Saturday=6
	isoWeekday := weekday
	if isoWeekday == 0 {
		isoWeekday = 7
	}
	daysUntilNextMonday := 8 - isoWeekday
	return t.AddDate(0, 0, daysUntilNextMonday)
}

// taskCalendar handles GET /api/tasks/calendar?year=&month=: per-day task
// counts plus the full list of tasks due within the month.
func (s *Server) taskCalendar(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		badRequest(c, "year is required")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		badRequest(c, "month must be an integer in [1,12]")
		return
	}

	ctx := c.Request.Context()
	userID := authenticatedUserID(c)
	u, err := s.store.Users.GetOrCreate(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	loc := apiTimezoneOrUTC(u.Timezone)

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	tasks, err := s.store.Items.GetTasksWithDueDates(ctx, userID, &monthStart, &monthEnd)
	if err != nil {
		writeError(c, err)
		return
	}

	counts := make(map[int]int)
	items := make([]ItemResponse, 0, len(tasks))
	for _, it := range tasks {
		items = append(items, newItemResponse(it))
		if it.DueAt != nil {
			counts[it.DueAt.In(loc).Day()]++
		}
	}

	days := make([]CalendarDay, 0, len(counts))
	for day, n := range counts {
		days = append(days, CalendarDay{Day: day, Count: n})
	}

	c.JSON(http.StatusOK, CalendarResponse{Year: year, Month: month, Days: days, Tasks: items})
}

func apiTimezoneOrUTC(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
