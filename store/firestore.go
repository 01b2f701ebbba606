package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"musfit/metrics"
	"musfit/sentinel"
	"musfit/services/enrollment"
	"musfit/services/event"
	"musfit/services/membership"
	"musfit/services/user"
)

// Collection names.
const (
	usersCollection       = "Users"
	eventsCollection      = "Events"
	membershipsCollection = "Memberships"
)

// Firestore backs every store interface with a single injected client.
// Derived ids are the document keys; uniqueness is enforced with
// create-if-absent writes instead of scan-then-compare.
type Firestore struct {
	client   *firestore.Client
	recorder metrics.Recorder
}

var (
	_ user.Store       = (*Firestore)(nil)
	_ event.Store      = (*Firestore)(nil)
	_ membership.Store = (*Firestore)(nil)
	_ enrollment.Store = (*Firestore)(nil)
)

func NewFirestore(client *firestore.Client, recorder metrics.Recorder) *Firestore {
	return &Firestore{
		client:   client,
		recorder: recorder,
	}
}

var sentinels = []error{
	sentinel.ErrInvalidInput,
	sentinel.ErrAlreadyExists,
	sentinel.ErrNotFound,
	sentinel.ErrFieldNotEditable,
	sentinel.ErrReferentialGap,
	sentinel.ErrUnavailable,
}

// translate maps gRPC status codes onto the sentinel errors callers branch
// on. Errors that already carry a sentinel pass through untouched.
func (s *Firestore) translate(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range sentinels {
		if errors.Is(err, known) {
			return err
		}
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", sentinel.ErrNotFound, err)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %v", sentinel.ErrAlreadyExists, err)
	case codes.Unavailable, codes.DeadlineExceeded:
		s.recorder.RecordStoreError(op)
		return fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	default:
		s.recorder.RecordStoreError(op)
		return err
	}
}

func (s *Firestore) CreateUser(ctx context.Context, u *user.User) error {
	_, err := s.client.Collection(usersCollection).Doc(u.ID).Create(ctx, u)
	return s.translate("CreateUser", err)
}

func (s *Firestore) GetUser(ctx context.Context, id string) (*user.User, error) {
	doc, err := s.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, s.translate("GetUser", err)
	}
	u := &user.User{}
	if err := doc.DataTo(u); err != nil {
		return nil, err
	}
	u.ID = doc.Ref.ID
	return u, nil
}

func (s *Firestore) DeleteUser(ctx context.Context, id string) error {
	// The Exists precondition turns delete-of-nothing into a NotFound
	// instead of a silent success.
	_, err := s.client.Collection(usersCollection).Doc(id).Delete(ctx, firestore.Exists)
	return s.translate("DeleteUser", err)
}

func (s *Firestore) UpdateUserField(ctx context.Context, id string, field string, value any) error {
	_, err := s.client.Collection(usersCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: field, Value: value},
	})
	return s.translate("UpdateUserField", err)
}

func (s *Firestore) CreateEvent(ctx context.Context, e *event.SingularEvent) error {
	_, err := s.client.Collection(eventsCollection).Doc(e.ID).Create(ctx, e)
	return s.translate("CreateEvent", err)
}

func (s *Firestore) GetEvent(ctx context.Context, id string) (*event.SingularEvent, error) {
	doc, err := s.client.Collection(eventsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, s.translate("GetEvent", err)
	}
	e := &event.SingularEvent{}
	if err := doc.DataTo(e); err != nil {
		return nil, err
	}
	e.ID = doc.Ref.ID
	return e, nil
}

func (s *Firestore) DeleteEvent(ctx context.Context, id string) error {
	_, err := s.client.Collection(eventsCollection).Doc(id).Delete(ctx, firestore.Exists)
	return s.translate("DeleteEvent", err)
}

func (s *Firestore) ListEventsByTag(ctx context.Context, tag string) ([]event.SingularEvent, error) {
	iter := s.client.Collection(eventsCollection).
		Where("tags", "array-contains", tag).
		Documents(ctx)

	events := make([]event.SingularEvent, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, s.translate("ListEventsByTag", err)
		}
		var e event.SingularEvent
		if err := doc.DataTo(&e); err != nil {
			return nil, err
		}
		e.ID = doc.Ref.ID
		events = append(events, e)
	}
	return events, nil
}

func (s *Firestore) UpsertMembership(ctx context.Context, m *membership.Membership) error {
	_, err := s.client.Collection(membershipsCollection).Doc(m.Name).Set(ctx, m)
	return s.translate("UpsertMembership", err)
}

func (s *Firestore) GetMembership(ctx context.Context, name string) (*membership.Membership, error) {
	doc, err := s.client.Collection(membershipsCollection).Doc(name).Get(ctx)
	if err != nil {
		return nil, s.translate("GetMembership", err)
	}
	m := &membership.Membership{}
	if err := doc.DataTo(m); err != nil {
		return nil, err
	}
	m.Name = doc.Ref.ID
	return m, nil
}

func (s *Firestore) ListMemberships(ctx context.Context) ([]membership.Membership, error) {
	iter := s.client.Collection(membershipsCollection).Documents(ctx)

	memberships := make([]membership.Membership, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, s.translate("ListMemberships", err)
		}
		var m membership.Membership
		if err := doc.DataTo(&m); err != nil {
			return nil, err
		}
		m.Name = doc.Ref.ID
		memberships = append(memberships, m)
	}
	return memberships, nil
}

// RunEnrollment reads the subject documents, lets decide pick the outcome
// and commits the mutation, all inside one Firestore transaction. Two
// racing enrollments for the last slot serialize here; the loser re-runs
// decide against the winner's committed state.
func (s *Firestore) RunEnrollment(ctx context.Context, eventID, userID string, decide func(tx enrollment.Tx, snap *enrollment.Snapshot) (*enrollment.Mutation, error)) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		ftx := &firestoreTx{client: s.client, tx: t}
		u, err := ftx.User(userID)
		if err != nil {
			return err
		}
		ev, err := ftx.event(eventID)
		if err != nil {
			return err
		}
		mutation, err := decide(ftx, &enrollment.Snapshot{User: u, Event: ev})
		if err != nil {
			return err
		}
		if mutation == nil {
			return nil
		}
		if mutation.Event != nil {
			if err := t.Set(s.client.Collection(eventsCollection).Doc(mutation.Event.ID), mutation.Event); err != nil {
				return err
			}
		}
		for _, mu := range mutation.Users {
			if err := t.Set(s.client.Collection(usersCollection).Doc(mu.ID), mu); err != nil {
				return err
			}
		}
		return nil
	})
	return s.translate("RunEnrollment", err)
}

// firestoreTx adapts a Firestore transaction to enrollment.Tx. Only reads
// happen through it; RunEnrollment performs the writes after decide
// returns, which keeps all reads ahead of all writes as Firestore requires.
type firestoreTx struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

var _ enrollment.Tx = (*firestoreTx)(nil)

func (t *firestoreTx) User(userID string) (*user.User, error) {
	doc, err := t.tx.Get(t.client.Collection(usersCollection).Doc(userID))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: user %s", sentinel.ErrNotFound, userID)
		}
		return nil, err
	}
	u := &user.User{}
	if err := doc.DataTo(u); err != nil {
		return nil, err
	}
	u.ID = doc.Ref.ID
	return u, nil
}

func (t *firestoreTx) event(eventID string) (*event.SingularEvent, error) {
	doc, err := t.tx.Get(t.client.Collection(eventsCollection).Doc(eventID))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: event %s", sentinel.ErrNotFound, eventID)
		}
		return nil, err
	}
	e := &event.SingularEvent{}
	if err := doc.DataTo(e); err != nil {
		return nil, err
	}
	e.ID = doc.Ref.ID
	return e, nil
}

func (t *firestoreTx) Memberships(names []string) ([]membership.Membership, []string, error) {
	found := make([]membership.Membership, 0, len(names))
	missing := make([]string, 0)
	for _, name := range names {
		doc, err := t.tx.Get(t.client.Collection(membershipsCollection).Doc(name))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				missing = append(missing, name)
				continue
			}
			return nil, nil, err
		}
		var m membership.Membership
		if err := doc.DataTo(&m); err != nil {
			return nil, nil, err
		}
		m.Name = doc.Ref.ID
		found = append(found, m)
	}
	return found, missing, nil
}
