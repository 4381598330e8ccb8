package server

import (
	"net/http"

	"repeatcal/ics"
)

// handleExport renders the whole event store as an iCalendar document.
func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) {
	events, err := r.storage.ListEvents(req.Context())
	if err != nil {
		r.writeError(w, req, err)
		return
	}

	data, err := ics.Marshal(events)
	if err != nil {
		r.writeError(w, req, err)
		return
	}

	w.Header().Set(headerContentType, mimeTypeCalendar)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		r.logger.Error("failed to write export", "error", err)
	}
}
