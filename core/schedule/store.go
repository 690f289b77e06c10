package schedule

import (
	"sync"
	"time"
)

// State is the store's fetch lifecycle state.
type State int

const (
	StateIdle    State = iota // nothing fetched yet
	StateLoading              // a fetch is in flight
	StateReady                // events hold the last resolved fetch
	StateFailure              // last fetch resolved without a usable payload
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailure:
		return "failure"
	default:
		return "idle"
	}
}

// Store holds the process-wide, view-scoped schedule state: the focus date,
// the current event list and the fetch lifecycle. All mutation goes through
// its methods; interleaved callbacks are safe.
//
// Each load carries a monotonic generation token. A resolving fetch is only
// applied while its token is still the latest, so a fast double-navigation
// can no longer surface stale data.
type Store struct {
	mu            sync.Mutex
	focusDate     time.Time
	dayViewDate   time.Time
	events        []Event
	loading       bool
	started       bool
	generation    uint64
	version       int
	loadedVersion int
	selectedClass int
}

func NewStore(focus time.Time) *Store {
	return &Store{focusDate: focus, dayViewDate: focus}
}

func (s *Store) FocusDate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusDate
}

// SetFocusDate moves the calendar focus and reports whether the focus week
// changed; a week change must trigger a refetch.
func (s *Store) SetFocusDate(t time.Time) (weekChanged bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prevYear, prevWeek := s.focusDate.ISOWeek()
	year, week := t.ISOWeek()
	s.focusDate = t
	return prevYear != year || prevWeek != week
}

func (s *Store) DayViewDate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dayViewDate
}

func (s *Store) SetDayViewDate(t time.Time) {
	s.mu.Lock()
	s.dayViewDate = t
	s.mu.Unlock()
}

// Events returns a copy of the current event list; nil when no fetch has
// resolved with data.
func (s *Store) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.events == nil {
		return nil
	}
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// SetEvents replaces the event list wholesale.
func (s *Store) SetEvents(events []Event) {
	s.mu.Lock()
	s.events = events
	s.mu.Unlock()
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.loading:
		return StateLoading
	case !s.started:
		return StateIdle
	case s.events == nil:
		return StateFailure
	default:
		return StateReady
	}
}

// Version is the schedule version counter; bumping it forces a refetch.
func (s *Store) Version() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Store) BumpVersion() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	return s.version
}

// Stale reports whether the version counter moved past the last applied
// fetch; a stale store must refetch on the next calendar read.
func (s *Store) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version != s.loadedVersion
}

// SelectedClass is the ephemeral class marker scoping supervisor fetches.
func (s *Store) SelectedClass() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedClass
}

func (s *Store) SelectClass(classID int) {
	s.mu.Lock()
	s.selectedClass = classID
	s.mu.Unlock()
}

// beginLoad enters Loading and issues the generation token the resolving
// fetch must present.
func (s *Store) beginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	s.loading = true
	s.generation++
	return s.generation
}

// completeLoad applies a resolved fetch; superseded generations are discarded.
func (s *Store) completeLoad(gen uint64, events []Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.events = events
	s.loading = false
	s.loadedVersion = s.version
	return true
}

// failLoad records a failed fetch: events cleared, loading off.
func (s *Store) failLoad(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.events = nil
	s.loading = false
	return true
}

// AppendEvent inserts a single event without a refetch (optimistic patch).
func (s *Store) AppendEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

// RemoveEvent removes the event with the given id, matching on the string
// form. It reports the removed event, if any.
func (s *Store) RemoveEvent(id string) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ev := range s.events {
		if string(ev.ID) == id {
			removed := ev
			s.events = append(s.events[:i], s.events[i+1:]...)
			return removed, true
		}
	}
	return Event{}, false
}
