package postgres

import (
	"context"

	"eventsx/internal/domain"
)

var _ domain.EventRepository = (*DB)(nil)

// ListEvents returns all events ordered by ID descending.
func (d *DB) ListEvents(ctx context.Context) ([]domain.Event, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, name, category, date, location, cost, image FROM events ORDER BY id DESC;")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Event, 0)
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Date, &e.Location, &e.Cost, &e.Image); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AddEvent inserts a new event and returns its ID.
func (d *DB) AddEvent(ctx context.Context, e domain.Event) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO events(name, category, date, location, cost, image) VALUES($1, $2, $3, $4, $5, $6) RETURNING id;",
		e.Name, e.Category, e.Date, e.Location, e.Cost, e.Image,
	).Scan(&id)
	return id, err
}
