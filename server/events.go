package server

import (
	"net/http"

	"github.com/samber/mo"

	"repeatcal/recurrence"
	"repeatcal/series"
	"repeatcal/storage"
)

type eventsResponse struct {
	Events []storage.Event `json:"events"`
}

func (r *Router) handleListEvents(w http.ResponseWriter, req *http.Request) {
	events, err := r.storage.ListEvents(req.Context())
	if err != nil {
		r.writeError(w, req, err)
		return
	}

	r.writeJSON(w, http.StatusOK, eventsResponse{Events: events})
}

// handleCreateEvent stores one event. A recurring template is expanded
// first and the whole series is created as one batch, so the persistence
// layer can assign the shared group id.
func (r *Router) handleCreateEvent(w http.ResponseWriter, req *http.Request) {
	var template recurrence.EventTemplate
	if !r.decodeJSON(w, req, &template) {
		return
	}

	if template.Repeat.Type == recurrence.RepeatNone || template.Repeat.Type == "" {
		ev := &storage.Event{EventTemplate: template}
		ev.Repeat = recurrence.RepeatRule{Type: recurrence.RepeatNone, Interval: 1}
		if err := r.storage.CreateEvent(req.Context(), ev); err != nil {
			r.writeError(w, req, err)
			return
		}
		r.writeJSON(w, http.StatusCreated, eventsResponse{Events: []storage.Event{*ev}})
		return
	}

	templates, err := r.engine.Expand(&template, template.Repeat, expandOptions(req))
	if err != nil {
		r.writeError(w, req, err)
		return
	}

	batch := make([]*storage.Event, 0, len(templates))
	for _, t := range templates {
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
	r.logger.Info("created recurring series",
		"count", len(created),
		"repeat_type", template.Repeat.Type)
	r.writeJSON(w, http.StatusCreated, eventsResponse{Events: created})
}

// expandOptions reads the strict-mode flag: periods without the anchor day
// are skipped instead of clamped when strict=true.
func expandOptions(req *http.Request) recurrence.ExpandOptions {
	opts := recurrence.DefaultExpandOptions
	if req.URL.Query().Get("strict") == "true" {
		opts.Mode = recurrence.ModeStrict
	}
	return opts
}

// handleUpdateEvent edits one displayed instance. Editing the origin of a
// series edits the whole group; editing any other member detaches it into
// a standalone event. Non-recurring events update in place.
func (r *Router) handleUpdateEvent(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")

	var body recurrence.EventTemplate
	if !r.decodeJSON(w, req, &body) {
		return
	}

	existing, err := r.storage.GetEvent(req.Context(), id)
	if err != nil {
		r.writeError(w, req, err)
		return
	}

	if existing.Repeat.RepeatID == "" {
		updated := *existing
		updated.EventTemplate = body
		updated.Repeat = existing.Repeat
		if err := r.storage.UpdateEvent(req.Context(), &updated); err != nil {
			r.writeError(w, req, err)
			return
		}
		r.writeJSON(w, http.StatusOK, eventsResponse{Events: []storage.Event{updated}})
		return
	}

	siblings, err := r.storage.ListSeries(req.Context(), existing.Repeat.RepeatID)
	if err != nil {
		r.writeError(w, req, err)
		return
	}

	if series.IsOrigin(*existing, siblings) {
		// Dates stay per-sibling; everything else propagates.
		updated := series.ModifyGroup(siblings, groupUpdates(body))
		batch := make([]*storage.Event, 0, len(updated))
		for i := range updated {
			batch = append(batch, &updated[i])
		}
		if err := r.storage.UpdateEvents(req.Context(), batch); err != nil {
			r.writeError(w, req, err)
			return
		}
		r.logger.Info("modified series group",
			"repeat_id", existing.Repeat.RepeatID,
			"count", len(updated))
		r.writeJSON(w, http.StatusOK, eventsResponse{Events: updated})
		return
	}

	detached := series.Detach(*existing, detachUpdates(body))
	if err := r.storage.UpdateEvent(req.Context(), &detached); err != nil {
		r.writeError(w, req, err)
		return
	}
	r.logger.Info("detached series member", "id", id)
	r.writeJSON(w, http.StatusOK, eventsResponse{Events: []storage.Event{detached}})
}

// handleDeleteEvent removes one displayed instance. Deleting the origin of
// a series deletes the whole group; deleting any other member is a point
// deletion leaving siblings untouched.
func (r *Router) handleDeleteEvent(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")

	existing, err := r.storage.GetEvent(req.Context(), id)
	if err != nil {
		r.writeError(w, req, err)
		return
	}

	if existing.Repeat.RepeatID != "" {
		siblings, err := r.storage.ListSeries(req.Context(), existing.Repeat.RepeatID)
		if err != nil {
			r.writeError(w, req, err)
			return
		}
		if series.IsOrigin(*existing, siblings) {
			ids := make([]string, 0, len(siblings))
			for _, sib := range siblings {
				ids = append(ids, sib.ID)
			}
			if err := r.storage.DeleteEvents(req.Context(), ids); err != nil {
				r.writeError(w, req, err)
				return
			}
			r.logger.Info("deleted series group",
				"repeat_id", existing.Repeat.RepeatID,
				"count", len(ids))
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	if err := r.storage.DeleteEvent(req.Context(), id); err != nil {
		r.writeError(w, req, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// detachUpdates carries every field of the submitted form onto the
// detached instance, including its date.
func detachUpdates(body recurrence.EventTemplate) series.Updates {
	u := groupUpdates(body)
	u.Date = mo.Some(body.Date)
	return u
}

// groupUpdates carries the shared fields of the submitted form onto every
// series member. Date is deliberately absent: each sibling keeps its own
// occurrence date.
func groupUpdates(body recurrence.EventTemplate) series.Updates {
	return series.Updates{
		Title:            mo.Some(body.Title),
		StartTime:        mo.Some(body.StartTime),
		EndTime:          mo.Some(body.EndTime),
		Description:      mo.Some(body.Description),
		Location:         mo.Some(body.Location),
		Category:         mo.Some(body.Category),
		NotificationTime: mo.Some(body.NotificationTime),
	}
}
