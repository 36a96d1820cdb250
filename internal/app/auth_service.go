// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"eventsx/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum number of characters in a password.
const MinPasswordLength = 8

// MaxPasswordBytes is the longest password bcrypt can hash without truncation.
const MaxPasswordBytes = 72

// DefaultSessionTTL is the fixed lifetime of a session.
const DefaultSessionTTL = 24 * time.Hour

const (
	msgMissingFields      = "Please fill all required fields"
	msgPasswordTooShort   = "Password must be at least 8 characters"
	msgPasswordTooLong    = "Password must be at most 72 bytes"
	msgAccountExists      = "Username or Email already exists"
	msgRegisterSystem     = "Registration failed due to system error"
	msgMissingCredentials = "Missing credentials"
	msgInvalidCredentials = "Invalid username or password"
	msgLoginSystem        = "Login system error"
	msgSessionSystem      = "Session error"
	msgEmailUnverified    = "Email address not verified"
)

// RegisterInput carries the fields of an account registration.
type RegisterInput struct {
	Username string
	Name     string
	Email    string
	Password string
	Phone    string
}

// AuthService handles credentials and session management.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	ttl      time.Duration
	hashCost int
	now      func() time.Time
}

// NewAuthService creates a new authentication service. A non-positive ttl
// selects DefaultSessionTTL.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// WithHashCost sets the bcrypt cost used for new password hashes.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		s.hashCost = cost
	}
	return s
}

// Register creates an account with role user and opens a session for it.
// priorToken, if any, is revoked first.
func (s *AuthService) Register(ctx context.Context, priorToken string, in RegisterInput) (*domain.Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if in.Username == "" || in.Name == "" || in.Email == "" || strings.TrimSpace(in.Password) == "" {
		return nil, domain.Validation(msgMissingFields)
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, domain.System(msgRegisterSystem, err)
	}
	if exists {
		return nil, domain.Conflict(msgAccountExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, domain.System(msgRegisterSystem, err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Username:     in.Username,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, domain.ErrDuplicate) {
		// Lost a race with a concurrent registration for the same name or email.
		return nil, domain.Conflict(msgAccountExists)
	}
	if err != nil {
		return nil, domain.System(msgRegisterSystem, err)
	}

	sess, err := s.startSession(ctx, priorToken, user)
	if err != nil {
		return nil, domain.System(msgRegisterSystem, err)
	}
	return sess, nil
}

// Login authenticates by username or email and issues a fresh session,
// revoking priorToken. Unknown users and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, priorToken, login, password string) (*domain.Session, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, domain.Validation(msgMissingCredentials)
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, domain.System(msgLoginSystem, err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, domain.Authentication(msgInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.Authentication(msgInvalidCredentials)
	}

	sess, err := s.startSession(ctx, priorToken, user)
	if err != nil {
		return nil, domain.System(msgLoginSystem, err)
	}
	return sess, nil
}

// Identity is the subset of an external provider's claims used for login.
type Identity struct {
	Email         string
	EmailVerified bool
	Name          string
}

// LoginWithIdentity opens a session for an identity already authenticated by
// an external provider, provisioning the account on first use. Identities
// whose email the provider has not verified are refused.
func (s *AuthService) LoginWithIdentity(ctx context.Context, priorToken string, id Identity) (*domain.Session, error) {
	email := strings.TrimSpace(id.Email)
	name := id.Name
	if email == "" {
		return nil, domain.Validation("Identity has no email")
	}
	if !id.EmailVerified {
		return nil, domain.Authentication(msgEmailUnverified)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.System(msgLoginSystem, err)
	}
	if user == nil {
		user, err = s.provision(ctx, email, name)
		if err != nil {
			return nil, domain.System(msgLoginSystem, err)
		}
	}

	sess, err := s.startSession(ctx, priorToken, user)
	if err != nil {
		return nil, domain.System(msgLoginSystem, err)
	}
	return sess, nil
}

// BootstrapAdmin creates an admin account when the user table is empty. It
// reports whether an account was created; a blank username disables it.
func (s *AuthService) BootstrapAdmin(ctx context.Context, username, email, password string) (bool, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return false, nil
	}
	if email == "" {
		return false, domain.Validation(msgMissingFields)
	}
	if err := checkPassword(password); err != nil {
		return false, err
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return false, err
	}
	_, err = s.users.Create(ctx, domain.User{
		Username:     username,
		Name:         username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func checkPassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return domain.Validation(msgPasswordTooShort)
	}
	if len(password) > MaxPasswordBytes {
		return domain.Validation(msgPasswordTooLong)
	}
	return nil
}

func (s *AuthService) provision(ctx context.Context, email, name string) (*domain.User, error) {
	if strings.TrimSpace(name) == "" {
		name = email
	}
	base, _, _ := strings.Cut(email, "@")
	if base == "" {
		base = "user"
	}

	username := base
	for attempt := 0; attempt < 5; attempt++ {
		user, err := s.users.Create(ctx, domain.User{
			Username:  username,
			Name:      strings.TrimSpace(name),
			Email:     email,
			Role:      domain.RoleUser,
			CreatedAt: s.now().UTC(),
		})
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		// Either the email was provisioned concurrently or the username is taken.
		if existing, lookupErr := s.users.GetByEmail(ctx, email); lookupErr == nil && existing != nil {
			return existing, nil
		}
		suffix, err := generateToken(3)
		if err != nil {
			return nil, err
		}
		username = base + "-" + strings.ToLower(strings.Trim(suffix, "-_="))
	}
	return nil, errors.New("could not allocate a username")
}

// WhoAmI returns the profile cached on the session, or nil when token does not
// name a live session. It never reads the user table.
func (s *AuthService) WhoAmI(ctx context.Context, token string) (*domain.Profile, error) {
	if token == "" {
		return nil, nil
	}
	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, domain.System(msgSessionSystem, err)
	}
	if sess == nil {
		return nil, nil
	}
	if sess.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, token)
		return nil, nil
	}
	p := sess.Profile
	return &p, nil
}

// Logout destroys the session. Unknown or empty tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return domain.System(msgSessionSystem, err)
	}
	return nil
}

// PurgeExpired deletes sessions past their expiry and reports how many went.
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}

func (s *AuthService) startSession(ctx context.Context, priorToken string, user *domain.User) (*domain.Session, error) {
	if priorToken != "" {
		if err := s.sessions.Delete(ctx, priorToken); err != nil {
			return nil, err
		}
	}

	token, err := generateToken(32)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess := domain.Session{
		Token:     token,
		Profile:   user.Profile(),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func generateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
