// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"errors"
	"net/http"
	"time"

	"eventsx/internal/app"
	"eventsx/internal/domain"
)

func (s *Server) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess *domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		Expires:  sess.ExpiresAt,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeMessageFailure(w, http.StatusBadRequest, "Invalid request")
		return
	}

	sess, err := s.auth.Login(r.Context(), s.sessionToken(r), req.Login, req.Password)
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, domain.ErrValidation) {
			// Missing credentials are reported in-band.
			status = http.StatusOK
		}
		s.writeFailure(w, r, status, err)
		return
	}

	s.setSessionCookie(w, sess)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "user": sess.Profile})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		FullName string `json:"fullname"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeMessageFailure(w, http.StatusBadRequest, "Invalid request")
		return
	}

	name := req.FullName
	if name == "" {
		name = req.Name
	}

	sess, err := s.auth.Register(r.Context(), s.sessionToken(r), app.RegisterInput{
		Username: req.Username,
		Name:     name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		s.writeFailure(w, r, statusFor(err), err)
		return
	}

	s.setSessionCookie(w, sess)
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "Account created successfully",
		"user":    sess.Profile,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	profile := profileFrom(r.Context())
	if profile == nil {
		writeJSON(w, http.StatusOK, map[string]any{"ok": false, "user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "user": profile})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	if err := s.auth.Logout(r.Context(), s.sessionToken(r)); err != nil {
		s.writeFailure(w, r, statusFor(err), err)
		return
	}

	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
