package user

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"musfit/identity"
	"musfit/sentinel"
	"musfit/validate"
)

// Store is the persistence surface the service needs. Implemented by
// store.Firestore for real deployments and store.Memory in tests.
type Store interface {
	// CreateUser claims the derived id with a create-if-absent write.
	// Returns sentinel.ErrAlreadyExists when the id is taken.
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	DeleteUser(ctx context.Context, id string) error
	UpdateUserField(ctx context.Context, id string, field string, value any) error
}

type Service interface {
	// CreateProfile validates the input, derives the user id from the name
	// and persists a new Users document. membership optionally names a
	// membership type the user signed up with.
	CreateProfile(ctx context.Context, first, last, email, birth, gender, membership string) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	DeleteUser(ctx context.Context, id string) error
	// EditUser updates a single document field. Only fields on the
	// allow-list may be edited; anything else fails with
	// sentinel.ErrFieldNotEditable.
	EditUser(ctx context.Context, id string, field string, value any) error
}

type service struct {
	store Store
}

var _ Service = (*service)(nil)

func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) CreateProfile(ctx context.Context, first, last, email, birth, gender, membership string) (*User, error) {
	// Everything is validated before the first store call.
	if !validate.Email(email) {
		return nil, fmt.Errorf("%w: invalid email %q", sentinel.ErrInvalidInput, email)
	}
	birthdate, err := validate.Birthdate(birth)
	if err != nil {
		return nil, err
	}
	g, err := validate.Gender(gender)
	if err != nil {
		return nil, err
	}
	id, err := identity.HashName(first, last)
	if err != nil {
		return nil, err
	}

	memberships := []string{}
	if membership != "" {
		memberships = append(memberships, membership)
	}
	u := &User{
		ID:           id,
		FirstName:    first,
		LastName:     last,
		Email:        email,
		Birthdate:    birthdate,
		Gender:       g,
		TokenProfile: map[string][]time.Time{},
		History:      []string{},
		Scheduled:    []string{},
		Memberships:  memberships,
		Settings:     map[string]any{},
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", id, err)
	}
	log.Info().Str("userId", id).Msg("created user profile")
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *service) DeleteUser(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	log.Info().Str("userId", id).Msg("deleted user profile")
	return nil
}

// editable is the allow-list of document fields EditUser will touch.
// Name, birthdate and gender feed the derived id and are immutable.
var editable = map[string]struct{}{
	"email":          {},
	"free_pass_used": {},
	"token_profile":  {},
	"history":        {},
	"scheduled":      {},
	"memberships":    {},
	"settings":       {},
}

func (s *service) EditUser(ctx context.Context, id string, field string, value any) error {
	if _, ok := editable[field]; !ok {
		return fmt.Errorf("%w: %q", sentinel.ErrFieldNotEditable, field)
	}
	coerced, err := coerceEditValue(field, value)
	if err != nil {
		return err
	}
	return s.store.UpdateUserField(ctx, id, field, coerced)
}

// coerceEditValue checks an edit value against the document schema. Values
// arrive JSON-decoded, so slices come in as []any and times as strings.
func coerceEditValue(field string, value any) (any, error) {
	switch field {
	case "email":
		s, ok := value.(string)
		if !ok || !validate.Email(s) {
			return nil, fmt.Errorf("%w: invalid email %v", sentinel.ErrInvalidInput, value)
		}
		return s, nil
	case "free_pass_used":
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: free_pass_used must be a bool", sentinel.ErrInvalidInput)
		}
		return b, nil
	case "history", "scheduled", "memberships":
		out, err := toStringSlice(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a list of strings", sentinel.ErrInvalidInput, field)
		}
		return out, nil
	case "token_profile":
		return toTokenProfile(value)
	case "settings":
		m, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: settings must be an object", sentinel.ErrInvalidInput)
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q", sentinel.ErrFieldNotEditable, field)
}

func toStringSlice(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected element %v", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected type %T", value)
	}
}

func toTokenProfile(value any) (map[string][]time.Time, error) {
	switch v := value.(type) {
	case map[string][]time.Time:
		return v, nil
	case map[string]any:
		out := make(map[string][]time.Time, len(v))
		for sport, raw := range v {
			items, ok := raw.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: token_profile values must be lists of timestamps", sentinel.ErrInvalidInput)
			}
			usages := make([]time.Time, 0, len(items))
			for _, item := range items {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%w: token_profile timestamps must be strings", sentinel.ErrInvalidInput)
				}
				t, err := time.Parse(time.RFC3339, s)
				if err != nil {
					return nil, fmt.Errorf("%w: bad token_profile timestamp %q", sentinel.ErrInvalidInput, s)
				}
				usages = append(usages, t)
			}
			out[sport] = usages
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: token_profile must be an object", sentinel.ErrInvalidInput)
	}
}
