package app

import (
	"context"
	"strings"
	"time"

	"eventsx/internal/domain"
)

// MaxListedRegistrations caps ListMine.
const MaxListedRegistrations = 20

const (
	MsgRegistered        = "Registered successfully"
	MsgAlreadyRegistered = "Already registered"
)

// RegisterResult describes the outcome of a successful Register call.
type RegisterResult struct {
	Created bool
	Message string
}

// RegistrationService encapsulates event registration use cases.
type RegistrationService struct {
	repo domain.RegistrationRepository
	now  func() time.Time
}

// NewRegistrationService creates a RegistrationService backed by the given repository.
func NewRegistrationService(repo domain.RegistrationRepository) *RegistrationService {
	return &RegistrationService{repo: repo, now: time.Now}
}

// Register records that caller intends to attend an event. eventKey and
// eventName stand in for each other when one is blank. Registering twice for
// the same event succeeds without creating a second row.
//
// A registration already exists when either the stored key equals eventKey or
// the stored name equals eventName. Two different events whose key and name
// strings happen to cross-match are therefore treated as one.
func (s *RegistrationService) Register(ctx context.Context, caller *domain.Profile, eventKey, eventName string) (RegisterResult, error) {
	if caller == nil {
		return RegisterResult{}, domain.AuthenticationRequired("Please login first")
	}

	key := strings.TrimSpace(eventKey)
	name := strings.TrimSpace(eventName)
	if key == "" {
		key = name
	}
	if name == "" {
		name = key
	}
	if key == "" {
		return RegisterResult{}, domain.Validation("Missing event name")
	}

	created, err := s.repo.CreateIfAbsent(ctx, domain.Registration{
		UserID:    caller.ID,
		EventKey:  key,
		EventName: name,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return RegisterResult{}, domain.System("Database error", err)
	}
	if !created {
		return RegisterResult{Created: false, Message: MsgAlreadyRegistered}, nil
	}
	return RegisterResult{Created: true, Message: MsgRegistered}, nil
}

// ListMine returns the caller's most recent registrations, newest first.
func (s *RegistrationService) ListMine(ctx context.Context, caller *domain.Profile) ([]domain.Registration, error) {
	if caller == nil {
		return nil, domain.AuthenticationRequired("Login required")
	}
	items, err := s.repo.ListByUser(ctx, caller.ID, MaxListedRegistrations)
	if err != nil {
		return nil, domain.System("Database error", err)
	}
	if items == nil {
		items = []domain.Registration{}
	}
	if len(items) > MaxListedRegistrations {
		items = items[:MaxListedRegistrations]
	}
	return items, nil
}
