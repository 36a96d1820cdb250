// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Addr               string   `env:"ADDR" envDefault:":8080"`
	WebDir             string   `env:"WEB_DIR" envDefault:"web"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat          string   `env:"LOG_FORMAT" envDefault:"text"`
	Storage            string   `env:"STORAGE" envDefault:"postgres"`
	ImageOverridesFile string   `env:"IMAGE_OVERRIDES_FILE"`
	Database           Database `envPrefix:"DATABASE_"`
	Session            Session  `envPrefix:"SESSION_"`
	Auth               Auth     `envPrefix:"AUTH_"`
	CORS               CORS     `envPrefix:"CORS_"`
	OIDC               OIDC     `envPrefix:"OIDC_"`
	Admin              Admin    `envPrefix:"ADMIN_"`
}

// Database contains database connection parameters.
type Database struct {
	URL          string `env:"URL"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
}

// Session contains session cookie parameters.
type Session struct {
	CookieName    string        `env:"COOKIE_NAME" envDefault:"session"`
	TTL           time.Duration `env:"TTL" envDefault:"24h"`
	SecureCookie  bool          `env:"SECURE_COOKIE" envDefault:"false"`
	PurgeInterval time.Duration `env:"PURGE_INTERVAL" envDefault:"1h"`
}

// Auth contains password hashing parameters.
type Auth struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

// CORS lists origins allowed to call the API with credentials.
type CORS struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Admin describes the account created on first start when no users exist.
type Admin struct {
	Username string `env:"USERNAME"`
	Email    string `env:"EMAIL"`
	Password string `env:"PASSWORD"`
}

// Enabled reports whether an admin bootstrap account is configured.
func (a Admin) Enabled() bool {
	return a.Username != ""
}

// OIDC contains optional single sign-on settings.
type OIDC struct {
	IssuerURL    string `env:"ISSUER_URL"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

// Enabled reports whether enough is configured to offer SSO.
func (o OIDC) Enabled() bool {
	return o.IssuerURL != "" && o.ClientID != ""
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	c.Database.URL = strings.TrimSpace(c.Database.URL)
	c.Session.CookieName = strings.TrimSpace(c.Session.CookieName)
	c.Admin.Username = strings.TrimSpace(c.Admin.Username)
	c.Admin.Email = strings.TrimSpace(c.Admin.Email)

	origins := c.CORS.AllowedOrigins[:0]
	for _, o := range c.CORS.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORS.AllowedOrigins = origins
}

// Validate performs minimal consistency checks.
func (c Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL is required when STORAGE=postgres")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.Session.CookieName == "" {
		return errors.New("SESSION_COOKIE_NAME must not be empty")
	}
	if c.Admin.Enabled() && (c.Admin.Email == "" || c.Admin.Password == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required with ADMIN_USERNAME")
	}
	return nil
}
