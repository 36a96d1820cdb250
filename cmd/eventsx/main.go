package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	adapthttp "eventsx/internal/adapter/http"
	"eventsx/internal/adapter/memory"
	"eventsx/internal/adapter/postgres"
	"eventsx/internal/app"
	"eventsx/internal/config"
	"eventsx/internal/domain"
	"eventsx/internal/logger"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type stores struct {
	users         domain.UserRepository
	sessions      domain.SessionRepository
	events        domain.EventRepository
	registrations domain.RegistrationRepository
	close         func() error
}

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Debug("no .env file found; relying on existing environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer func() { _ = st.close() }()

	images, err := app.LoadImageOverrides(cfg.ImageOverridesFile)
	if err != nil {
		log.Fatalf("load image overrides: %v", err)
	}

	authSvc := app.NewAuthService(st.users, st.sessions, cfg.Session.TTL).WithHashCost(cfg.Auth.BcryptCost)
	if cfg.Admin.Enabled() {
		created, err := authSvc.BootstrapAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.Fatalf("bootstrap admin: %v", err)
		}
		if created {
			log.WithField("username", cfg.Admin.Username).Info("created initial admin account")
		}
	}

	catalogSvc := app.NewCatalogService(st.events, images)
	registrationSvc := app.NewRegistrationService(st.registrations)

	oidcCfg := &adapthttp.OIDCConfig{}
	if cfg.OIDC.Enabled() {
		oidcCfg, err = adapthttp.NewOIDCConfig(ctx, cfg.OIDC.IssuerURL, cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL)
		if err != nil {
			log.Fatalf("init sso: %v", err)
		}
		log.WithField("issuer", cfg.OIDC.IssuerURL).Info("sso enabled")
	}

	srv := adapthttp.New(authSvc, catalogSvc, registrationSvc, log, adapthttp.Options{
		CookieName:   cfg.Session.CookieName,
		SecureCookie: cfg.Session.SecureCookie,
		CORSOrigins:  cfg.CORS.AllowedOrigins,
		WebDir:       cfg.WebDir,
		OIDC:         oidcCfg,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go purgeSessions(ctx, authSvc, cfg.Session.PurgeInterval, log)

	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.Addr, "storage": cfg.Storage}).Info("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown: %v", err)
	}
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		db := memory.NewSeeded()
		return &stores{
			users:         db,
			sessions:      db.NewSessionRepo(),
			events:        db,
			registrations: db,
			close:         func() error { return nil },
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.Database.URL, postgres.Options{MaxOpenConns: cfg.Database.MaxOpenConns})
	if err != nil {
		return nil, err
	}
	return &stores{
		users:         db,
		sessions:      postgres.NewSessionRepo(db),
		events:        db,
		registrations: db,
		close:         db.Close,
	}, nil
}

func purgeSessions(ctx context.Context, auth *app.AuthService, interval time.Duration, log logrus.FieldLogger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := auth.PurgeExpired(ctx)
			if err != nil {
				log.WithError(err).Warn("purge expired sessions")
				continue
			}
			if n > 0 {
				log.WithField("count", n).Debug("purged expired sessions")
			}
		}
	}
}
