package domain

import (
	"context"
	"time"
)

// Registration records that a user intends to attend an event. EventKey and
// EventName are free-form references and are not foreign keys into events.
type Registration struct {
	ID        int64     `json:"-"`
	UserID    int64     `json:"-"`
	EventKey  string    `json:"event_key"`
	EventName string    `json:"event_name"`
	CreatedAt time.Time `json:"created_at"`
}

// RegistrationRepository is the port for registration persistence.
type RegistrationRepository interface {
	// CreateIfAbsent inserts r unless the user already has a registration whose
	// event_key equals r.EventKey or whose event_name equals r.EventName. The
	// check and insert are atomic. It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, r Registration) (bool, error)
	// ListByUser returns the user's registrations, newest first.
	ListByUser(ctx context.Context, userID int64, limit int) ([]Registration, error)
}
