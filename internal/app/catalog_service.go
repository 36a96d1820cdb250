package app

import (
	"context"
	"math"
	"strings"

	"eventsx/internal/domain"
)

// CatalogService encapsulates read access to the events catalog and the
// admin-only add operation.
type CatalogService struct {
	repo   domain.EventRepository
	images ImageOverrides
}

// NewCatalogService creates a CatalogService backed by the given repository.
// images may be nil.
func NewCatalogService(repo domain.EventRepository, images ImageOverrides) *CatalogService {
	return &CatalogService{repo: repo, images: images}
}

// ListEvents returns all events, newest (highest ID) first, with image
// overrides applied.
func (s *CatalogService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, domain.System("Failed to load events", err)
	}
	if events == nil {
		events = []domain.Event{}
	}
	for i := range events {
		events[i].Image = s.images.Apply(events[i].ID, events[i].Image)
	}
	return events, nil
}

// AddEvent stores a new catalog entry. Only admins may call it.
func (s *CatalogService) AddEvent(ctx context.Context, caller *domain.Profile, e domain.Event) (domain.Event, error) {
	if caller == nil {
		return domain.Event{}, domain.AuthenticationRequired("Login required")
	}
	if !caller.IsAdmin() {
		return domain.Event{}, domain.Forbidden("Admin only")
	}

	e.Name = strings.TrimSpace(e.Name)
	e.Category = strings.TrimSpace(e.Category)
	e.Date = strings.TrimSpace(e.Date)
	e.Location = strings.TrimSpace(e.Location)
	e.Image = strings.TrimSpace(e.Image)
	if e.Name == "" {
		return domain.Event{}, domain.Validation("Event name is required")
	}
	if e.Cost < 0 || math.IsNaN(e.Cost) || math.IsInf(e.Cost, 0) {
		return domain.Event{}, domain.Validation("Cost must be a non-negative number")
	}

	id, err := s.repo.AddEvent(ctx, e)
	if err != nil {
		return domain.Event{}, domain.System("Failed to add event", err)
	}
	e.ID = id
	return e, nil
}
