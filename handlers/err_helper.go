package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"blogrig-server/notify"
	"blogrig-server/shared"
)

func writeJson(w http.ResponseWriter, status int, v interface{}) {
	bytes, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshalling response: %v\n", err)
		http.Error(w, "Error marshalling response: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
}

func writeApiError(w http.ResponseWriter, apiErr shared.ApiError) {
	if apiErr.Status == 0 {
		apiErr.Status = http.StatusInternalServerError
	}
	writeJson(w, apiErr.Status, apiErr)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJson(w, status, map[string]string{"message": msg})
}

// writeServerError logs err and responds 500 with the error text included.
func writeServerError(w http.ResponseWriter, context string, err error) {
	log.Printf("%s: %v\n", context, err)
	notify.Notify(notify.Event{
		Severity:  notify.SeverityError,
		Err:       fmt.Errorf("%s: %v", context, err),
		RequestId: w.Header().Get(RequestIdHeader),
	})

	writeApiError(w, shared.ApiError{
		Type:   shared.ApiErrorTypeOther,
		Status: http.StatusInternalServerError,
		Msg:    "Server error",
		Error:  err.Error(),
	})
}

func writeNotFound(w http.ResponseWriter, msg string) {
	writeApiError(w, shared.ApiError{
		Type:   shared.ApiErrorTypeNotFound,
		Status: http.StatusNotFound,
		Msg:    msg,
	})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeApiError(w, shared.ApiError{
		Type:   shared.ApiErrorTypeValidation,
		Status: http.StatusBadRequest,
		Msg:    msg,
	})
}

func writeForbidden(w http.ResponseWriter) {
	writeApiError(w, shared.ApiError{
		Type:   shared.ApiErrorTypeForbidden,
		Status: http.StatusForbidden,
		Msg:    "Access denied",
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	writeApiError(w, shared.ApiError{
		Type:   shared.ApiErrorTypeUnauthenticated,
		Status: http.StatusUnauthorized,
		Msg:    "Not authorized",
	})
}
