package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"musfit/identity"
	"musfit/sentinel"
	"musfit/set"
	"musfit/validate"
)

type Store interface {
	// CreateEvent claims the derived id with a create-if-absent write.
	// Returns sentinel.ErrAlreadyExists when the id is taken.
	CreateEvent(ctx context.Context, e *SingularEvent) error
	GetEvent(ctx context.Context, id string) (*SingularEvent, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEventsByTag(ctx context.Context, tag string) ([]SingularEvent, error)
}

type Service interface {
	// CreateSingularEvent validates the input, derives the event id from
	// sport, gender and start time, normalizes the tag set and persists a
	// new Events document.
	CreateSingularEvent(ctx context.Context, name, gender, sport, start string, duration, capacity int, tags []string) (*SingularEvent, error)
	GetEvent(ctx context.Context, id string) (*SingularEvent, error)
	DeleteEvent(ctx context.Context, id string) error
	ListByTag(ctx context.Context, tag string) ([]SingularEvent, error)
}

type service struct {
	store Store
}

var _ Service = (*service)(nil)

func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) CreateSingularEvent(ctx context.Context, name, gender, sport, start string, duration, capacity int, tags []string) (*SingularEvent, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: event name required", sentinel.ErrInvalidInput)
	}
	g, err := validate.Gender(gender)
	if err != nil {
		return nil, err
	}
	startTime, err := validate.StartTime(start)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", sentinel.ErrInvalidInput)
	}
	if capacity < 0 {
		return nil, fmt.Errorf("%w: capacity must be >= 0", sentinel.ErrInvalidInput)
	}
	id, err := identity.HashEventInstance(sport, g, startTime)
	if err != nil {
		return nil, err
	}

	e := &SingularEvent{
		ID:        id,
		Name:      name,
		Gender:    g,
		Sport:     strings.ToLower(sport),
		StartTime: startTime,
		Duration:  duration,
		Capacity:  capacity,
		Enrolled:  []string{},
		Pending:   []string{},
		Waitlist:  []string{},
		Tags:      normalizeTags(tags, strings.ToLower(sport), g),
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create event %s: %w", id, err)
	}
	log.Info().Str("eventId", id).Str("sport", e.Sport).Msg("created singular event")
	return e, nil
}

// normalizeTags guarantees sport, gender and the non-recurring marker are
// present exactly once, keeping whatever else the caller supplied.
func normalizeTags(tags []string, sport, gender string) []string {
	normalized := set.FromSlice(tags)
	normalized.Add(sport)
	normalized.Add(gender)
	normalized.Add(TagNonRecurring)
	return normalized.ToSlice()
}

func (s *service) GetEvent(ctx context.Context, id string) (*SingularEvent, error) {
	return s.store.GetEvent(ctx, id)
}

func (s *service) DeleteEvent(ctx context.Context, id string) error {
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return err
	}
	log.Info().Str("eventId", id).Msg("deleted event")
	return nil
}

func (s *service) ListByTag(ctx context.Context, tag string) ([]SingularEvent, error) {
	if tag == "" {
		return nil, fmt.Errorf("%w: tag required", sentinel.ErrInvalidInput)
	}
	return s.store.ListEventsByTag(ctx, tag)
}
