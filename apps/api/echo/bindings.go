package echoapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mentorhub/agenda/core/schedule"
)

var (
	viewParam    = "view"
	dateParam    = "date"
	classIDParam = "class_id"

	queryDateLayout = "2006-01-02"
)

// CalendarQuery carries the calendar view selectors. Unknown or malformed
// values fall back to the week view and a zero date rather than erroring;
// the handler keeps the store's current focus in that case.
type CalendarQuery struct {
	View    schedule.ViewMode
	Date    time.Time
	ClassID int
}

func (q *CalendarQuery) Bind(ctx echo.Context, loc *time.Location) {
	q.View = schedule.ViewWeek

	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	if val, ok := data[viewParam]; ok && len(val) > 0 {
		if strings.TrimSpace(strings.ToLower(val[0])) == "day" {
			q.View = schedule.ViewDay
		}
	}
	if val, ok := data[dateParam]; ok && len(val) > 0 {
		if date, err := time.ParseInLocation(queryDateLayout, strings.TrimSpace(val[0]), loc); err == nil {
			q.Date = date
		}
	}
	if val, ok := data[classIDParam]; ok && len(val) > 0 {
		if id, err := strconv.Atoi(strings.TrimSpace(val[0])); err == nil {
			q.ClassID = id
		}
	}
}
