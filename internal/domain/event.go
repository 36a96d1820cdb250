package domain

import "context"

// Event is a catalog entry. Date is a display string and is not parsed.
type Event struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Location string  `json:"location"`
	Cost     float64 `json:"cost"`
	Image    string  `json:"image"`
}

// EventRepository is the port for catalog persistence.
type EventRepository interface {
	// ListEvents returns every event ordered by ID descending.
	ListEvents(ctx context.Context) ([]Event, error)
	AddEvent(ctx context.Context, e Event) (int64, error)
}
