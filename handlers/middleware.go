package handlers

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"blogrig-server/notify"
	"blogrig-server/shared"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

const RequestIdHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rec *statusRecorder) WriteHeader(status int) {
	if !rec.wroteHeader {
		rec.status = status
		rec.wroteHeader = true
	}
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if !rec.wroteHeader {
		rec.WriteHeader(http.StatusOK)
	}
	return rec.ResponseWriter.Write(b)
}

func colorStatus(status int) string {
	s := fmt.Sprintf("%d", status)
	switch {
	case status >= 500:
		return color.New(color.FgHiRed, color.Bold).Sprint(s)
	case status >= 400:
		return color.New(color.FgHiYellow).Sprint(s)
	default:
		return color.New(color.FgHiGreen).Sprint(s)
	}
}

// RequestLogger tags every request with an id and logs its outcome. Status
// codes are colorized in development.
func RequestLogger(colorize bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestId := r.Header.Get(RequestIdHeader)
			if requestId == "" {
				requestId = uuid.New().String()
			}
			w.Header().Set(RequestIdHeader, requestId)

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			status := fmt.Sprintf("%d", rec.status)
			if colorize {
				status = colorStatus(rec.status)
			}
			log.Printf("[%s] %s %s %s %s\n", requestId, r.Method, r.URL.Path, status, time.Since(start))
		})
	}
}

// Recoverer turns a handler panic into a 500 and reports it.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := debug.Stack()
				log.Printf("panic in %s %s: %v\n", r.Method, r.URL.Path, rec)
				notify.Notify(notify.Event{
					Severity:  notify.SeverityError,
					Err:       fmt.Errorf("panic: %v", rec),
					RequestId: w.Header().Get(RequestIdHeader),
					Route:     r.Method + " " + r.URL.Path,
					Stack:     string(stack),
				})

				writeApiError(w, shared.ApiError{
					Type:   shared.ApiErrorTypeOther,
					Status: http.StatusInternalServerError,
					Msg:    "Server error",
					Error:  fmt.Sprintf("%v", rec),
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
