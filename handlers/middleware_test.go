package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"blogrig-server/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverer(t *testing.T) {
	var notified []notify.Event
	notify.Register(func(ev notify.Event) {
		notified = append(notified, ev)
	})
	t.Cleanup(func() { notify.Register(nil) })

	handler := Recoverer(RequestLogger(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIdHeader, "req-42")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Server error", body["message"])
	assert.Equal(t, "kaboom", body["error"])
	require.Len(t, notified, 1)
	assert.Equal(t, notify.SeverityError, notified[0].Severity)
	assert.Equal(t, "req-42", notified[0].RequestId)
	assert.Equal(t, "GET /boom", notified[0].Route)
	assert.Contains(t, notified[0].Stack, "goroutine")
	assert.EqualError(t, notified[0].Err, "panic: kaboom")
}

func TestRequestLogger(t *testing.T) {
	handler := RequestLogger(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Len(t, rec.Header().Get(RequestIdHeader), 36)
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIdHeader, "abc-123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIdHeader))
	})
}

func TestColorStatus(t *testing.T) {
	for _, status := range []int{200, 404, 500} {
		assert.Contains(t, colorStatus(status), strconv.Itoa(status))
	}
}
