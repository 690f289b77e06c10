package schedule

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mentorhub/agenda/core"
)

var (
	// ErrNotPermitted is returned before any round-trip when a supervisor
	// attempts a facilitator-only command.
	ErrNotPermitted = errors.New("supervisors are not permitted to block or unblock slots")
)

// RejectedError reports a block/unblock command the backend answered with an
// unexpected status. The store is left untouched in that case.
type RejectedError struct {
	Status int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("schedule backend rejected the command (status %d)", e.Status)
}

type (
	// Fetcher is the engine's I/O boundary to the schedule backend.
	Fetcher interface {
		FetchWeek(ctx context.Context, week int) ([]RawAppointment, error)
		FetchWeekForClass(ctx context.Context, week, classID int) ([]RawAppointment, error)
		Block(ctx context.Context, classID int, startTime, finishTime string) (CommandResult, error)
		Unblock(ctx context.Context, id string) (CommandResult, error)
		DaySlots(ctx context.Context, date string, classID int) ([]Slot, error)
		GroupSlots(ctx context.Context, classID int, date string) ([]Slot, error)
	}

	Service struct {
		fetcher Fetcher
		store   *Store
		logger  core.Logger
		mailSvc core.EmailService
		loc     *time.Location
	}
)

func NewService(fetcher Fetcher, store *Store, logger core.Logger, mailSvc core.EmailService) *Service {
	loc, err := time.LoadLocation(core.Conf.Schedule.Timezone)
	if err != nil {
		logger.Warn(fmt.Sprintf("unknown schedule timezone %q, using local", core.Conf.Schedule.Timezone))
		loc = time.Local
	}
	return &Service{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
		mailSvc: mailSvc,
		loc:     loc,
	}
}

func (svc *Service) Store() *Store { return svc.store }

func (svc *Service) Location() *time.Location { return svc.loc }

// Refresh fetches the focus week, runs the aggregate/normalize pipeline and
// replaces the store's event list wholesale. A supervisor with no selected
// class short-circuits: no fetch, the store stays idle. A failed fetch moves
// the store to its failure state and is the only error surfaced to callers.
func (svc *Service) Refresh(ctx context.Context, actor Actor) error {
	classID := svc.store.SelectedClass()
	if actor.IsSupervisor() && classID == 0 {
		return nil
	}

	gen := svc.store.beginLoad()
	_, week := svc.store.FocusDate().ISOWeek()

	var raw []RawAppointment
	var err error
	if actor.IsSupervisor() {
		raw, err = svc.fetcher.FetchWeekForClass(ctx, week, classID)
	} else {
		raw, err = svc.fetcher.FetchWeek(ctx, week)
	}
	if err != nil {
		svc.logger.Error("fetching calendar week", err, actor)
		svc.store.failLoad(gen)
		return errors.Wrap(err, "fetching calendar week")
	}

	events := Normalize(raw, AggregateGroups(raw), svc.loc)
	svc.store.completeLoad(gen, events)
	return nil
}

// Block marks the given time range as unavailable. On success (backend status
// 201) the synthetic blocked event built from the response payload is
// appended to the store — no refetch. Any other status leaves the store
// untouched and surfaces as a RejectedError.
func (svc *Service) Block(ctx context.Context, actor Actor, classID int, startTime, finishTime string) (Event, error) {
	if actor.IsSupervisor() {
		return Event{}, ErrNotPermitted
	}

	res, err := svc.fetcher.Block(ctx, classID, startTime, finishTime)
	if err != nil {
		return Event{}, errors.Wrap(err, "blocking slot")
	}
	if res.Status != http.StatusCreated {
		return Event{}, &RejectedError{Status: res.Status}
	}

	ev := svc.blockEvent(res.Data)
	svc.store.AppendEvent(ev)
	svc.notify(actor, "Horário bloqueado", ev)
	return ev, nil
}

// Unblock clears a previously blocked range. On success (backend status 200)
// the event whose id matches the response payload is removed from the store
// by string-cast id equality — no refetch.
func (svc *Service) Unblock(ctx context.Context, actor Actor, id string) (Event, error) {
	if actor.IsSupervisor() {
		return Event{}, ErrNotPermitted
	}

	res, err := svc.fetcher.Unblock(ctx, id)
	if err != nil {
		return Event{}, errors.Wrap(err, "unblocking slot")
	}
	if res.Status != http.StatusOK {
		return Event{}, &RejectedError{Status: res.Status}
	}

	removed, _ := svc.store.RemoveEvent(string(res.Data.ID))
	svc.notify(actor, "Horário desbloqueado", removed)
	return removed, nil
}

// DaySlots lists the free individual-booking windows of a day.
func (svc *Service) DaySlots(ctx context.Context, date string, classID int) ([]Slot, error) {
	slots, err := svc.fetcher.DaySlots(ctx, date, classID)
	return slots, errors.Wrap(err, "fetching day slots")
}

// GroupSlots lists the group windows of a day annotated with booking counts
// for capacity display.
func (svc *Service) GroupSlots(ctx context.Context, classID int, date string) ([]Slot, error) {
	slots, err := svc.fetcher.GroupSlots(ctx, classID, date)
	return slots, errors.Wrap(err, "fetching group slots")
}

// blockEvent builds the synthetic blocked event from a command payload,
// applying the same parse-with-fallback rule as normalization. A payload
// without an id gets a generated one so the event stays removable.
func (svc *Service) blockEvent(appt RawAppointment) Event {
	now := nowFunc().In(svc.loc)
	id := appt.ID
	if id == "" {
		id = FlexID(uuid.New().String())
	}
	return Event{
		ID:         id,
		Type:       TypeBlock,
		Start:      parseNaive(appt.StartTime, svc.loc, now),
		End:        parseNaive(appt.FinishTime, svc.loc, now),
		Title:      TypeBlock.Label(),
		ClientName: TypeBlock.Label(),
		Employee:   appt.Employee,
		ClassID:    appt.ClassID,
	}
}

// notify sends the facilitator an audit notice; a missing address or a send
// failure never fails the workflow.
func (svc *Service) notify(actor Actor, subject string, ev Event) {
	if svc.mailSvc == nil || actor.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: actor.Name, Address: actor.Email}},
		Subject: subject,
		BodyStr: fmt.Sprintf(
			"%s: %s, %s às %s.",
			subject, ev.Title,
			ev.Start.Format("02/01/2006 15:04"), ev.End.Format("15:04"),
		),
	})
}
