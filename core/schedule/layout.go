package schedule

import (
	"math"
	"time"
)

// ViewMode selects the calendar rendering mode.
type ViewMode int

const (
	ViewDay ViewMode = iota
	ViewWeek
)

func (v ViewMode) String() string {
	if v == ViewDay {
		return "day"
	}
	return "week"
}

// GridPlacement is an event's position on the calendar grid. Rows have
// half-hour granularity: each working hour spans two rows, row 1 being the
// first half hour of the working-hours window. Ephemeral; recomputed on every
// render pass.
type GridPlacement struct {
	Column  int `json:"column"`
	Row     int `json:"row"`
	RowSpan int `json:"row_span"`
}

// PlacedEvent pairs an event with its computed grid placement.
type PlacedEvent struct {
	Event
	GridPlacement
}

// LayoutOptions configures a layout pass.
//
// Events outside the working-hours window receive out-of-bounds (possibly
// negative) rows unless Clamp is set: the caller either pre-filters to the
// window or lets them visually overflow. Clamp bounds every placement to the
// window instead.
type LayoutOptions struct {
	View          ViewMode
	WindowStart   time.Time // first day of the rendered window (week view)
	WorkHourStart int
	WorkHourEnd   int
	FocusDay      int // day of month the day view renders
	Clamp         bool
}

// Layout computes grid placements for the given events.
//
// Day view keeps only events starting on FocusDay, all in column 1. Week view
// keeps every event and assigns the column from the day offset between
// WindowStart and the event start (1-indexed). Overlapping events are not
// resolved here; simultaneous placements are stacked by the renderer.
func Layout(events []Event, opts LayoutOptions) []PlacedEvent {
	placed := make([]PlacedEvent, 0, len(events))
	for _, ev := range events {
		if opts.View == ViewDay && ev.Start.Day() != opts.FocusDay {
			continue
		}

		column := 1
		if opts.View == ViewWeek {
			column = daysBetween(opts.WindowStart, ev.Start) + 1
		}
		place := GridPlacement{
			Column:  column,
			Row:     (ev.Start.Hour()-opts.WorkHourStart)*2 + 1,
			RowSpan: int(ev.End.Sub(ev.Start).Hours() * 2),
		}
		if opts.Clamp {
			place = clampToWindow(place, opts)
		}
		placed = append(placed, PlacedEvent{Event: ev, GridPlacement: place})
	}
	return placed
}

func daysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

// clampToWindow bounds a placement to the working-hours rows; placements
// fully outside the window degrade to a zero span at the nearest edge.
func clampToWindow(p GridPlacement, opts LayoutOptions) GridPlacement {
	total := (opts.WorkHourEnd - opts.WorkHourStart) * 2
	if p.Row < 1 {
		p.RowSpan += p.Row - 1
		p.Row = 1
	}
	if p.Row > total {
		p.Row = total
		p.RowSpan = 0
	}
	if end := p.Row + p.RowSpan; end > total+1 {
		p.RowSpan = total + 1 - p.Row
	}
	if p.RowSpan < 0 {
		p.RowSpan = 0
	}
	return p
}
