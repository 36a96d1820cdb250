package adapthttp

import (
	"net/http"

	"eventsx/internal/domain"
)

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleEventsList(w, r)
	case http.MethodPost:
		s.handleEventsAdd(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleEventsList(w http.ResponseWriter, r *http.Request) {
	events, err := s.catalog.ListEvents(r.Context())
	if err != nil {
		s.writeFailure(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "events": events})
}

func (s *Server) handleEventsAdd(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Date     string  `json:"date"`
		Location string  `json:"location"`
		Cost     float64 `json:"cost"`
		Image    string  `json:"image"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeMessageFailure(w, http.StatusBadRequest, "Invalid request")
		return
	}

	event, err := s.catalog.AddEvent(r.Context(), profileFrom(r.Context()), domain.Event{
		Name:     body.Name,
		Category: body.Category,
		Date:     body.Date,
		Location: body.Location,
		Cost:     body.Cost,
		Image:    body.Image,
	})
	if err != nil {
		s.writeFailure(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "event": event})
}
