package handlers

import (
	"log"
	"net/http"

	"blogrig-server/shared"
)

func (h *Handler) RootHandler(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "API is running")
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	res := shared.HealthResponse{Status: "OK", Timestamp: h.now()}

	if err := h.store.Ping(r.Context()); err != nil {
		log.Printf("Health check failed: %v\n", err)
		res.Status = "UNAVAILABLE"
		writeJson(w, http.StatusServiceUnavailable, res)
		return
	}

	writeJson(w, http.StatusOK, res)
}

func (h *Handler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	log.Printf("No route for %s %s\n", r.Method, r.URL.Path)
	writeMessage(w, http.StatusNotFound, "Route not found")
}
