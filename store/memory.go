package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"musfit/sentinel"
	"musfit/services/enrollment"
	"musfit/services/event"
	"musfit/services/membership"
	"musfit/services/user"
)

// Memory is an in-memory stand-in for the Firestore store, with the same
// error contract. Service tests run against it; a transaction is a critical
// section under the single mutex.
type Memory struct {
	mu          sync.Mutex
	users       map[string]*user.User
	events      map[string]*event.SingularEvent
	memberships map[string]*membership.Membership
}

var (
	_ user.Store       = (*Memory)(nil)
	_ event.Store      = (*Memory)(nil)
	_ membership.Store = (*Memory)(nil)
	_ enrollment.Store = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		users:       make(map[string]*user.User),
		events:      make(map[string]*event.SingularEvent),
		memberships: make(map[string]*membership.Membership),
	}
}

func (s *Memory) CreateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; ok {
		return fmt.Errorf("%w: user %s", sentinel.ErrAlreadyExists, u.ID)
	}
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *Memory) GetUser(_ context.Context, id string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", sentinel.ErrNotFound, id)
	}
	return cloneUser(u), nil
}

func (s *Memory) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("%w: user %s", sentinel.ErrNotFound, id)
	}
	delete(s.users, id)
	return nil
}

func (s *Memory) UpdateUserField(_ context.Context, id string, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("%w: user %s", sentinel.ErrNotFound, id)
	}
	// Check the type before assigning so a bad value leaves the stored
	// document untouched.
	switch field {
	case "email":
		v, ok := value.(string)
		if !ok {
			return badFieldType(field, value)
		}
		u.Email = v
	case "free_pass_used":
		v, ok := value.(bool)
		if !ok {
			return badFieldType(field, value)
		}
		u.FreePassUsed = v
	case "token_profile":
		v, ok := value.(map[string][]time.Time)
		if !ok {
			return badFieldType(field, value)
		}
		u.TokenProfile = v
	case "history":
		v, ok := value.([]string)
		if !ok {
			return badFieldType(field, value)
		}
		u.History = v
	case "scheduled":
		v, ok := value.([]string)
		if !ok {
			return badFieldType(field, value)
		}
		u.Scheduled = v
	case "memberships":
		v, ok := value.([]string)
		if !ok {
			return badFieldType(field, value)
		}
		u.Memberships = v
	case "settings":
		v, ok := value.(map[string]any)
		if !ok {
			return badFieldType(field, value)
		}
		u.Settings = v
	default:
		return fmt.Errorf("%w: %q", sentinel.ErrFieldNotEditable, field)
	}
	return nil
}

func badFieldType(field string, value any) error {
	return fmt.Errorf("%w: wrong type %T for field %q", sentinel.ErrInvalidInput, value, field)
}

func (s *Memory) CreateEvent(_ context.Context, e *event.SingularEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; ok {
		return fmt.Errorf("%w: event %s", sentinel.ErrAlreadyExists, e.ID)
	}
	s.events[e.ID] = cloneEvent(e)
	return nil
}

func (s *Memory) GetEvent(_ context.Context, id string) (*event.SingularEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("%w: event %s", sentinel.ErrNotFound, id)
	}
	return cloneEvent(e), nil
}

func (s *Memory) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("%w: event %s", sentinel.ErrNotFound, id)
	}
	delete(s.events, id)
	return nil
}

func (s *Memory) ListEventsByTag(_ context.Context, tag string) ([]event.SingularEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]event.SingularEvent, 0)
	for _, e := range s.events {
		for _, t := range e.Tags {
			if t == tag {
				events = append(events, *cloneEvent(e))
				break
			}
		}
	}
	return events, nil
}

func (s *Memory) UpsertMembership(_ context.Context, m *membership.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships[m.Name] = cloneMembership(m)
	return nil
}

func (s *Memory) GetMembership(_ context.Context, name string) (*membership.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.memberships[name]
	if !ok {
		return nil, fmt.Errorf("%w: membership %s", sentinel.ErrNotFound, name)
	}
	return cloneMembership(m), nil
}

func (s *Memory) ListMemberships(_ context.Context) ([]membership.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	memberships := make([]membership.Membership, 0, len(s.memberships))
	for _, m := range s.memberships {
		memberships = append(memberships, *cloneMembership(m))
	}
	return memberships, nil
}

func (s *Memory) RunEnrollment(_ context.Context, eventID, userID string, decide func(tx enrollment.Tx, snap *enrollment.Snapshot) (*enrollment.Mutation, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mtx := &memoryTx{store: s}
	u, err := mtx.User(userID)
	if err != nil {
		return err
	}
	stored, ok := s.events[eventID]
	if !ok {
		return fmt.Errorf("%w: event %s", sentinel.ErrNotFound, eventID)
	}
	ev := cloneEvent(stored)

	mutation, err := decide(mtx, &enrollment.Snapshot{User: u, Event: ev})
	if err != nil {
		return err
	}
	if mutation == nil {
		return nil
	}
	if mutation.Event != nil {
		s.events[mutation.Event.ID] = cloneEvent(mutation.Event)
	}
	for _, mu := range mutation.Users {
		s.users[mu.ID] = cloneUser(mu)
	}
	return nil
}

// memoryTx reads from the locked store. The lock is already held by
// RunEnrollment.
type memoryTx struct {
	store *Memory
}

var _ enrollment.Tx = (*memoryTx)(nil)

func (t *memoryTx) User(userID string) (*user.User, error) {
	u, ok := t.store.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", sentinel.ErrNotFound, userID)
	}
	return cloneUser(u), nil
}

func (t *memoryTx) Memberships(names []string) ([]membership.Membership, []string, error) {
	found := make([]membership.Membership, 0, len(names))
	missing := make([]string, 0)
	for _, name := range names {
		m, ok := t.store.memberships[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		found = append(found, *cloneMembership(m))
	}
	return found, missing, nil
}

func cloneUser(u *user.User) *user.User {
	out := *u
	out.TokenProfile = make(map[string][]time.Time, len(u.TokenProfile))
	for sport, usages := range u.TokenProfile {
		out.TokenProfile[sport] = append([]time.Time(nil), usages...)
	}
	out.History = append([]string(nil), u.History...)
	out.Scheduled = append([]string(nil), u.Scheduled...)
	out.Memberships = append([]string(nil), u.Memberships...)
	out.Settings = make(map[string]any, len(u.Settings))
	for k, v := range u.Settings {
		out.Settings[k] = v
	}
	return &out
}

func cloneEvent(e *event.SingularEvent) *event.SingularEvent {
	out := *e
	out.Enrolled = append([]string(nil), e.Enrolled...)
	out.Pending = append([]string(nil), e.Pending...)
	out.Waitlist = append([]string(nil), e.Waitlist...)
	out.Tags = append([]string(nil), e.Tags...)
	return &out
}

func cloneMembership(m *membership.Membership) *membership.Membership {
	out := *m
	out.TokenProfile = make(map[string]int, len(m.TokenProfile))
	for sport, tokens := range m.TokenProfile {
		out.TokenProfile[sport] = tokens
	}
	return &out
}
