package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLifecycle(t *testing.T) {
	store := NewStore(time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, StateIdle, store.State())
	assert.Nil(t, store.Events())

	gen := store.beginLoad()
	assert.Equal(t, StateLoading, store.State())
	assert.True(t, store.Loading())

	applied := store.completeLoad(gen, []Event{{ID: "1", Type: TypeBlock}})
	assert.True(t, applied)
	assert.Equal(t, StateReady, store.State())
	require.Len(t, store.Events(), 1)
}

func TestStoreFailureState(t *testing.T) {
	store := NewStore(time.Now())
	gen := store.beginLoad()
	store.failLoad(gen)

	// events=nil with loading=false after a started fetch is the failure state
	assert.Equal(t, StateFailure, store.State())
	assert.Nil(t, store.Events())
	assert.False(t, store.Loading())
}

func TestStoreStaleGenerationDiscarded(t *testing.T) {
	store := NewStore(time.Now())

	first := store.beginLoad()
	second := store.beginLoad()

	// the superseded fetch resolves last but must not win
	assert.True(t, store.completeLoad(second, []Event{{ID: "new"}}))
	assert.False(t, store.completeLoad(first, []Event{{ID: "stale"}}))

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, FlexID("new"), events[0].ID)

	// a stale failure must not wipe fresh data either
	assert.False(t, store.failLoad(first))
	assert.Equal(t, StateReady, store.State())
}

func TestStoreSetFocusDateWeekChange(t *testing.T) {
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	store := NewStore(monday)

	assert.False(t, store.SetFocusDate(monday.AddDate(0, 0, 3)), "same ISO week")
	assert.True(t, store.SetFocusDate(monday.AddDate(0, 0, 7)), "next ISO week")
	assert.True(t, store.SetFocusDate(monday.AddDate(-1, 0, 0)), "same week number, different year")
}

func TestStoreAppendAndRemoveEvent(t *testing.T) {
	store := NewStore(time.Now())
	gen := store.beginLoad()
	store.completeLoad(gen, []Event{{ID: "1"}, {ID: "42"}, {ID: "3"}})

	store.AppendEvent(Event{ID: "4", Type: TypeBlock})
	assert.Len(t, store.Events(), 4)

	removed, ok := store.RemoveEvent("42")
	assert.True(t, ok)
	assert.Equal(t, FlexID("42"), removed.ID)
	assert.Len(t, store.Events(), 3)
	for _, ev := range store.Events() {
		assert.NotEqual(t, FlexID("42"), ev.ID)
	}

	_, ok = store.RemoveEvent("missing")
	assert.False(t, ok)
	assert.Len(t, store.Events(), 3)
}

func TestStoreVersionCounter(t *testing.T) {
	store := NewStore(time.Now())
	assert.Equal(t, 0, store.Version())
	assert.Equal(t, 1, store.BumpVersion())
	assert.Equal(t, 2, store.BumpVersion())
}

func TestStoreStaleAfterVersionBump(t *testing.T) {
	store := NewStore(time.Now())
	assert.False(t, store.Stale())

	store.BumpVersion()
	assert.True(t, store.Stale())

	// applying a fetch catches the store up with the counter
	store.completeLoad(store.beginLoad(), []Event{})
	assert.False(t, store.Stale())
}
