// Package server exposes the event API: CRUD over single events, batch
// operations over series, and an iCalendar export. Recurrence expansion and
// series membership decisions live in the recurrence and series packages;
// this layer only routes, decodes, and maps errors.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"repeatcal/recurrence"
	"repeatcal/storage"
)

const (
	headerContentType = "Content-Type"

	mimeTypeJSON     = "application/json; charset=utf-8"
	mimeTypeCalendar = "text/calendar; charset=utf-8"
)

// Router handles event API request routing.
type Router struct {
	storage storage.Storage
	engine  *recurrence.Engine
	logger  *slog.Logger
	mux     *http.ServeMux
}

// NewRouter creates a new event API router.
func NewRouter(store storage.Storage, engine *recurrence.Engine, logger *slog.Logger) *Router {
	r := &Router{
		storage: store,
		engine:  engine,
		logger:  logger,
		mux:     http.NewServeMux(),
	}

	r.mux.HandleFunc("GET /api/events", r.handleListEvents)
	r.mux.HandleFunc("POST /api/events", r.handleCreateEvent)
	r.mux.HandleFunc("PUT /api/events/{id}", r.handleUpdateEvent)
	r.mux.HandleFunc("DELETE /api/events/{id}", r.handleDeleteEvent)
	r.mux.HandleFunc("POST /api/events-list", r.handleCreateEventList)
	r.mux.HandleFunc("PUT /api/events-list", r.handleUpdateEventList)
	r.mux.HandleFunc("DELETE /api/events-list", r.handleDeleteEventList)
	r.mux.HandleFunc("GET /api/events/export.ics", r.handleExport)

	return r
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.logger.Info("received request",
		"method", req.Method,
		"path", req.URL.Path,
		"remote_addr", req.RemoteAddr)

	r.mux.ServeHTTP(w, req)
}

func (r *Router) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(headerContentType, mimeTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		r.logger.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps an error onto the HTTP surface: recurrence validation
// failures are the client's fault, a missing event is 404, anything else
// is a storage-side failure.
func (r *Router) writeError(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case recurrence.KindOf(err) != "":
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		r.logger.Error("request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err)
	} else {
		r.logger.Warn("request rejected",
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"error", err)
	}

	r.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (r *Router) decodeJSON(w http.ResponseWriter, req *http.Request, v any) bool {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		r.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
