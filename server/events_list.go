package server

import (
	"net/http"

	"repeatcal/recurrence"
	"repeatcal/storage"
)

type eventListRequest struct {
	Events []recurrence.EventTemplate `json:"events"`
}

type eventUpdateListRequest struct {
	Events []storage.Event `json:"events"`
}

type eventDeleteListRequest struct {
	EventIDs []string `json:"eventIds"`
}

// handleCreateEventList batch-creates pre-expanded templates. The storage
// layer assigns ids and the shared group id.
func (r *Router) handleCreateEventList(w http.ResponseWriter, req *http.Request) {
	var body eventListRequest
	if !r.decodeJSON(w, req, &body) {
		return
	}

	batch := make([]*storage.Event, 0, len(body.Events))
	for _, t := range body.Events {
		batch = append(batch, &storage.Event{EventTemplate: t})
	}
	if err := r.storage.CreateEvents(req.Context(), batch); err != nil {
		r.writeError(w, req, err)
		return
	}

	created := make([]storage.Event, 0, len(batch))
	for _, ev := range batch {
		created = append(created, *ev)
	}
	r.writeJSON(w, http.StatusCreated, eventsResponse{Events: created})
}

// handleUpdateEventList batch-updates already-identified events, typically
// a whole series after a group modification.
func (r *Router) handleUpdateEventList(w http.ResponseWriter, req *http.Request) {
	var body eventUpdateListRequest
	if !r.decodeJSON(w, req, &body) {
		return
	}

	batch := make([]*storage.Event, 0, len(body.Events))
	for i := range body.Events {
		batch = append(batch, &body.Events[i])
	}
	if err := r.storage.UpdateEvents(req.Context(), batch); err != nil {
		r.writeError(w, req, err)
		return
	}

	r.writeJSON(w, http.StatusOK, eventsResponse{Events: body.Events})
}

// handleDeleteEventList batch-deletes by id; the whole batch succeeds or
// fails as one.
func (r *Router) handleDeleteEventList(w http.ResponseWriter, req *http.Request) {
	var body eventDeleteListRequest
	if !r.decodeJSON(w, req, &body) {
		return
	}

	if err := r.storage.DeleteEvents(req.Context(), body.EventIDs); err != nil {
		r.writeError(w, req, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
