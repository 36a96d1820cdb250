package adapthttp

import (
	"net/http"

	"eventsx/internal/app"

	"github.com/sirupsen/logrus"
)

// Options configures the HTTP adapter.
type Options struct {
	CookieName   string
	SecureCookie bool
	CORSOrigins  []string
	WebDir       string
	OIDC         *OIDCConfig
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth          *app.AuthService
	catalog       *app.CatalogService
	registrations *app.RegistrationService
	log           logrus.FieldLogger

	cookieName   string
	secureCookie bool
	corsOrigins  []string
	webDir       string
	oidcConfig   *OIDCConfig
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, catalog *app.CatalogService, regs *app.RegistrationService, log logrus.FieldLogger, opts Options) *Server {
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}
	if opts.OIDC == nil {
		opts.OIDC = &OIDCConfig{}
	}
	return &Server{
		auth:          auth,
		catalog:       catalog,
		registrations: regs,
		log:           log,
		cookieName:    opts.CookieName,
		secureCookie:  opts.SecureCookie,
		corsOrigins:   opts.CORSOrigins,
		webDir:        opts.WebDir,
		oidcConfig:    opts.OIDC,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/register", s.handleRegister)
	api.HandleFunc("/auth/me", s.handleMe)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/config", s.handleConfig)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	api.HandleFunc("/events", s.handleEvents)

	api.HandleFunc("/registrations/register", s.handleRegistrationRegister)
	api.HandleFunc("/registrations/list", s.handleRegistrationList)

	withSession := s.sessionMiddleware(api)

	root := http.NewServeMux()
	root.Handle("/health", withSession)
	root.Handle("/auth/", withSession)
	root.Handle("/events", withSession)
	root.Handle("/registrations/", withSession)
	root.Handle("/", staticFromDisk(s.webDir))

	return s.requestIDMiddleware(s.loggingMiddleware(corsMiddleware(s.corsOrigins, withNoCache(root))))
}
