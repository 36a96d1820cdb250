package adapthttp

import "net/http"

func (s *Server) handleRegistrationRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	profile := profileFrom(r.Context())
	var body struct {
		EventKey  string `json:"eventKey"`
		EventName string `json:"eventName"`
	}
	// Authentication is checked before the body so anonymous callers get 401.
	if profile != nil {
		if err := parseJSON(r, &body); err != nil {
			writeMessageFailure(w, http.StatusBadRequest, "Invalid request")
			return
		}
	}

	res, err := s.registrations.Register(r.Context(), profile, body.EventKey, body.EventName)
	if err != nil {
		s.writeFailure(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": res.Message})
}

func (s *Server) handleRegistrationList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	items, err := s.registrations.ListMine(r.Context(), profileFrom(r.Context()))
	if err != nil {
		s.writeFailure(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "registrations": items})
}
