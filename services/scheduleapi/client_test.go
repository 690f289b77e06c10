package scheduleapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/agenda/core/schedule"
)

type noopLogger struct{}

func (noopLogger) Enable(bool)                  {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Fatal(string, ...interface{}) {}

func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		baseURL: srv.URL,
		token:   "test-token",
		http:    &http.Client{Timeout: 5 * time.Second},
		logger:  noopLogger{},
	}
}

func TestClientFetchWeek(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/schedule/calendar/35", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"id": 7, "start_time": "2026-08-24 10:00:00", "finish_time": "2026-08-24 11:00:00", "type_id": 2},
			},
		})
	}))
	defer srv.Close()

	raw, err := newTestClient(srv).FetchWeek(context.Background(), 35)
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, schedule.FlexID("7"), raw[0].ID, "numeric backend ids decode to their string form")
	assert.Equal(t, schedule.TypeMeeting, raw[0].TypeID)
}

func TestClientFetchWeekForClass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedule/calendar/35/class/7", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	}))
	defer srv.Close()

	raw, err := newTestClient(srv).FetchWeekForClass(context.Background(), 35, 7)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestClientBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/schedule/block/7", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "2026-08-26 09:00:00", payload["start_time"])
		assert.Equal(t, float64(7), payload["class_id"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": 201,
			"data":   map[string]interface{}{"id": "42", "type_id": 1},
		})
	}))
	defer srv.Close()

	res, err := newTestClient(srv).Block(context.Background(), 7, "2026-08-26 09:00:00", "2026-08-26 10:00:00")
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.Status)
	assert.Equal(t, schedule.FlexID("42"), res.Data.ID)
}

func TestClientUnblock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedule/unblock/42", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": 200,
			"data":   map[string]interface{}{"id": "42"},
		})
	}))
	defer srv.Close()

	res, err := newTestClient(srv).Unblock(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status)
}

func TestClientGroupSlots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/schedule/slot", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"start_time": "2026-08-26 09:00:00", "finish_time": "2026-08-26 10:00:00", "appointment_count": 3},
			},
		})
	}))
	defer srv.Close()

	slots, err := newTestClient(srv).GroupSlots(context.Background(), 7, "2026-08-26")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 3, slots[0].AppointmentCount)
}

func TestClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchWeek(context.Background(), 35)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}
