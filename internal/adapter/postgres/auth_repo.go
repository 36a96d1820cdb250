// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventsx/internal/domain"
)

var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

const userColumns = "id, username, name, email, phone, password_hash, role, created_at"

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

// GetByLogin retrieves the user whose username or email equals login.
func (d *DB) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1 OR email = $1 ORDER BY id LIMIT 1",
		login,
	))
}

// GetByEmail retrieves a user by email.
func (d *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1",
		email,
	))
}

// Count returns the total number of users.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(1) FROM users;").Scan(&n)
	return n, err
}

// ExistsByUsernameOrEmail reports whether either value is already taken.
func (d *DB) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := d.sql.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)",
		username, email,
	).Scan(&exists)
	return exists, err
}

// Create creates a new user. A taken username or email yields domain.ErrDuplicate.
func (d *DB) Create(ctx context.Context, in domain.User) (*domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	u, err := scanUser(d.sql.QueryRowContext(ctx,
		"INSERT INTO users (username, name, email, phone, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING "+userColumns,
		in.Username, in.Name, in.Email, in.Phone, in.PasswordHash, string(in.Role), in.CreatedAt,
	))
	if isUniqueViolation(err) {
		return nil, domain.ErrDuplicate
	}
	return u, err
}

// SessionRepo implements session repository operations on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session carrying a copy of the user's profile.
func (r *SessionRepo) Create(ctx context.Context, s domain.Session) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, username, name, email, role, expires_at, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		s.Token, s.Profile.ID, s.Profile.Username, s.Profile.Name, s.Profile.Email, string(s.Profile.Role), s.ExpiresAt, s.CreatedAt,
	)
	return err
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var s domain.Session
	var role string
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT token, user_id, username, name, email, role, expires_at, created_at FROM sessions WHERE token = $1",
		token,
	).Scan(&s.Token, &s.Profile.ID, &s.Profile.Username, &s.Profile.Name, &s.Profile.Email, &role, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Profile.Role = domain.Role(role)
	return &s, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE token = $1", token)
	return err
}

// DeleteExpired deletes all sessions expired at now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= $1", now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
