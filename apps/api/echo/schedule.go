package echoapi

import (
	"net/http"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mentorhub/agenda/core"
	"github.com/mentorhub/agenda/core/schedule"
)

type scheduleApi struct {
	svc        *schedule.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerScheduleAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *schedule.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := scheduleApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	sg := g.Group("/schedule", jwt)
	sg.GET("/calendar", api.calendar)
	sg.POST("/invalidate", api.invalidate)
	sg.GET("/slots", api.daySlots)
	sg.POST("/slots/group", api.groupSlots)

	// facilitator-only commands
	cg := sg.Group("", facilitatorMiddleware())
	cg.POST("/block", api.block)
	cg.POST("/unblock/:id", api.unblock)
}

// Handlers

func (api *scheduleApi) calendar(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	query := new(CalendarQuery)
	query.Bind(ctx, api.svc.Location())

	store := api.svc.Store()
	refresh := false
	if query.ClassID != 0 && query.ClassID != store.SelectedClass() {
		store.SelectClass(query.ClassID)
		refresh = true
	}
	if !query.Date.IsZero() {
		if store.SetFocusDate(query.Date) {
			refresh = true
		}
		store.SetDayViewDate(query.Date)
	}
	if state := store.State(); state == schedule.StateIdle || state == schedule.StateFailure {
		refresh = true
	}
	if store.Stale() {
		refresh = true
	}

	if refresh {
		if err := api.svc.Refresh(ctx.Request().Context(), actor); err != nil {
			return err
		}
	}

	focus := store.FocusDate()
	opts := schedule.LayoutOptions{
		View:          query.View,
		WindowStart:   mondayOf(focus),
		WorkHourStart: core.Conf.Schedule.WorkHourStart,
		WorkHourEnd:   core.Conf.Schedule.WorkHourEnd,
		FocusDay:      store.DayViewDate().Day(),
	}
	return ctx.JSON(http.StatusOK, CalendarResponse{
		State:     store.State().String(),
		Loading:   store.Loading(),
		FocusDate: focus.Format(queryDateLayout),
		Events:    schedule.Layout(store.Events(), opts),
	})
}

// invalidate bumps the schedule version; the next calendar read refetches.
// Other hub surfaces call this after they change bookings behind our back.
func (api *scheduleApi) invalidate(ctx echo.Context) error {
	api.svc.Store().BumpVersion()
	return ctx.NoContent(http.StatusNoContent)
}

func (api *scheduleApi) block(ctx echo.Context) error {
	var data BlockRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BlockRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	ev, err := api.svc.Block(ctx.Request().Context(), actor, data.ClassID, data.StartTime, data.FinishTime)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, ev)
}

func (api *scheduleApi) unblock(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	ev, err := api.svc.Unblock(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ev)
}

func (api *scheduleApi) daySlots(ctx echo.Context) error {
	var query SlotsQuery
	if err := ctx.Bind(&query); err != nil {
		return ctx.JSON(http.StatusOK, []schedule.Slot{})
	}
	if err := query.Validate(api.validate); err != nil {
		return err
	}

	slots, err := api.svc.DaySlots(ctx.Request().Context(), query.Date, query.ClassID)
	if err != nil {
		return err
	}
	if slots == nil {
		slots = []schedule.Slot{}
	}
	return ctx.JSON(http.StatusOK, slots)
}

func (api *scheduleApi) groupSlots(ctx echo.Context) error {
	var data GroupSlotsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GroupSlotsRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	slots, err := api.svc.GroupSlots(ctx.Request().Context(), data.ClassID, data.Date)
	if err != nil {
		return err
	}
	if slots == nil {
		slots = []schedule.Slot{}
	}
	return ctx.JSON(http.StatusOK, slots)
}

// mondayOf truncates a date to the Monday of its ISO week, midnight.
func mondayOf(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // Sunday
	}
	t = t.AddDate(0, 0, 1-wd)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

type (
	CalendarResponse struct {
		State     string                 `json:"state"`
		Loading   bool                   `json:"loading"`
		FocusDate string                 `json:"focus_date"`
		Events    []schedule.PlacedEvent `json:"events"`
	}

	BlockRequest struct {
		ClassID    int    `json:"class_id" validate:"required"`
		StartTime  string `json:"start_time" validate:"required,naivetime"`
		FinishTime string `json:"finish_time" validate:"required,naivetime"`
	}

	SlotsQuery struct {
		Date    string `query:"date" json:"date" validate:"required"`
		ClassID int    `query:"class_id" json:"class_id" validate:"required"`
	}

	GroupSlotsRequest struct {
		ClassID int    `json:"class_id" validate:"required"`
		Date    string `json:"date" validate:"required"`
	}
)

func (br *BlockRequest) Validate(validate *validator.Validate) error {
	br.StartTime = core.CleanString(br.StartTime)
	br.FinishTime = core.CleanString(br.FinishTime)
	return validate.Struct(br)
}

func (sq *SlotsQuery) Validate(validate *validator.Validate) error {
	sq.Date = core.CleanString(sq.Date)
	return validate.Struct(sq)
}

func (gr *GroupSlotsRequest) Validate(validate *validator.Validate) error {
	gr.Date = core.CleanString(gr.Date)
	return validate.Struct(gr)
}
