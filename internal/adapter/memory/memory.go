// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"eventsx/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu            sync.Mutex
	users         []*domain.User
	sessions      map[string]*domain.Session
	events        []domain.Event
	registrations []domain.Registration

	userIDCounter         int64
	eventIDCounter        int64
	registrationIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.EventRepository = (*DB)(nil)
var _ domain.RegistrationRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- UserRepository ---

// GetByLogin retrieves a user whose username or email equals login.
func (db *DB) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == login || u.Email == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByEmail retrieves a user by email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// Count returns the number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// ExistsByUsernameOrEmail reports whether either value is already taken.
func (db *DB) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, in domain.User) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == in.Username || u.Email == in.Email {
			return nil, domain.ErrDuplicate
		}
	}

	db.userIDCounter++
	u := in
	u.ID = db.userIDCounter
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	db.users = append(db.users, &u)

	cp := u
	return &cp, nil
}

// SetRole changes a user's role. There is no HTTP surface for this; it exists
// so development setups and tests can create admins.
func (db *DB) SetRole(id int64, role domain.Role) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			u.Role = role
			return true
		}
	}
	return false
}

// --- EventRepository ---

// ListEvents returns all events ordered by ID descending.
func (db *DB) ListEvents(ctx context.Context) ([]domain.Event, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Event, len(db.events))
	copy(result, db.events)
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// AddEvent stores an event and returns its ID.
func (db *DB) AddEvent(ctx context.Context, e domain.Event) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.eventIDCounter++
	e.ID = db.eventIDCounter
	db.events = append(db.events, e)
	return e.ID, nil
}

// --- RegistrationRepository ---

// CreateIfAbsent inserts r unless the user already has a registration that
// matches on event key or event name.
func (db *DB) CreateIfAbsent(ctx context.Context, r domain.Registration) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.registrations {
		if existing.UserID != r.UserID {
			continue
		}
		if existing.EventKey == r.EventKey || existing.EventName == r.EventName {
			return false, nil
		}
	}

	db.registrationIDCounter++
	r.ID = db.registrationIDCounter
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	db.registrations = append(db.registrations, r)
	return true, nil
}

// ListByUser lists a user's registrations newest first, up to limit.
func (db *DB) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Registration, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Registration, 0)
	for _, r := range db.registrations {
		if r.UserID == userID {
			result = append(result, r)
		}
	}

	// Ties on created_at fall back to insertion order.
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, s domain.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	cp := s
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	r.db.sessions[s.Token] = &cp
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all sessions expired at now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for k, v := range r.db.sessions {
		if v.Expired(now) {
			delete(r.db.sessions, k)
			n++
		}
	}
	return n, nil
}
