package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventsx/internal/domain"
)

var _ domain.RegistrationRepository = (*DB)(nil)

var errAlreadyRegistered = errors.New("already registered")

// CreateIfAbsent inserts r unless the user already has a registration whose
// event_key or event_name matches. Locking the user's row serializes
// concurrent registrations by the same user, so the check and the insert
// cannot interleave; the unique (user_id, event_key) index backs this up.
func (d *DB) CreateIfAbsent(ctx context.Context, r domain.Registration) (bool, error) {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var locked int64
		err := tx.QueryRowContext(ctx, "SELECT id FROM users WHERE id = $1 FOR UPDATE;", r.UserID).Scan(&locked)
		if err != nil {
			return err
		}

		var exists bool
		err = tx.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM registrations WHERE user_id = $1 AND (event_key = $2 OR event_name = $3));",
			r.UserID, r.EventKey, r.EventName,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return errAlreadyRegistered
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO registrations(user_id, event_key, event_name, created_at) VALUES($1, $2, $3, $4);",
			r.UserID, r.EventKey, r.EventName, r.CreatedAt.UTC(),
		)
		if isUniqueViolation(err) {
			return errAlreadyRegistered
		}
		return err
	})
	if errors.Is(err, errAlreadyRegistered) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByUser returns the user's registrations newest first, up to limit.
func (d *DB) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Registration, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, event_key, event_name, created_at FROM registrations WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2;",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Registration, 0, limit)
	for rows.Next() {
		var r domain.Registration
		if err := rows.Scan(&r.ID, &r.EventKey, &r.EventName, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.UserID = userID
		out = append(out, r)
	}
	return out, rows.Err()
}
