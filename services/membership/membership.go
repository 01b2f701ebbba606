package membership

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"musfit/sentinel"
)

type Store interface {
	// UpsertMembership writes the document keyed by name, replacing any
	// existing one. Membership creation has no duplicate check.
	UpsertMembership(ctx context.Context, m *Membership) error
	GetMembership(ctx context.Context, name string) (*Membership, error)
	ListMemberships(ctx context.Context) ([]Membership, error)
}

type Service interface {
	CreateMembershipType(ctx context.Context, name string, tokenProfile map[string]int, period string, price float64) (*Membership, error)
	GetMembership(ctx context.Context, name string) (*Membership, error)
	ListMemberships(ctx context.Context) ([]Membership, error)
}

type service struct {
	store Store
}

var _ Service = (*service)(nil)

func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) CreateMembershipType(ctx context.Context, name string, tokenProfile map[string]int, period string, price float64) (*Membership, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: membership name required", sentinel.ErrInvalidInput)
	}
	p, err := ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", sentinel.ErrInvalidInput)
	}
	if tokenProfile == nil {
		tokenProfile = map[string]int{}
	}
	for sport, tokens := range tokenProfile {
		if tokens < 0 {
			return nil, fmt.Errorf("%w: token allowance for %s must be >= 0", sentinel.ErrInvalidInput, sport)
		}
	}

	m := &Membership{
		Name:         name,
		TokenProfile: tokenProfile,
		Period:       p,
		Price:        price,
	}
	if err := s.store.UpsertMembership(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to upsert membership %s: %w", name, err)
	}
	log.Info().Str("membership", name).Str("period", p).Msg("upserted membership type")
	return m, nil
}

func (s *service) GetMembership(ctx context.Context, name string) (*Membership, error) {
	return s.store.GetMembership(ctx, name)
}

func (s *service) ListMemberships(ctx context.Context) ([]Membership, error) {
	return s.store.ListMemberships(ctx)
}
