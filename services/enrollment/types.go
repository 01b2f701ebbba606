package enrollment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"musfit/sentinel"
	"musfit/services/event"
	"musfit/services/membership"
	"musfit/services/user"
)

// Placement is where an enrollment attempt landed.
type Placement string

const (
	// PlacementEnrolled: a capacity slot and a token were both available.
	PlacementEnrolled Placement = "enrolled"
	// PlacementPending: a slot is held but no token was available; the
	// enrollment is awaiting payment and is later confirmed or expired.
	PlacementPending Placement = "pending"
	// PlacementWaitlisted: a token is available but no capacity slot is.
	PlacementWaitlisted Placement = "waitlist"
	// PlacementRejected: neither a slot nor a token was available and the
	// overflow policy is set to reject.
	PlacementRejected Placement = "rejected"
)

// OverflowPolicy decides the no-space, no-tokens branch.
type OverflowPolicy string

const (
	OverflowReject   OverflowPolicy = "reject"
	OverflowWaitlist OverflowPolicy = "waitlist"
)

func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch OverflowPolicy(strings.ToLower(s)) {
	case OverflowReject:
		return OverflowReject, nil
	case OverflowWaitlist:
		return OverflowWaitlist, nil
	default:
		return "", fmt.Errorf("%w: unknown overflow policy %q", sentinel.ErrInvalidInput, s)
	}
}

// Ticket is the outcome of an enrollment operation.
type Ticket struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Placement Placement `json:"placement"`
	PlacedAt  time.Time `json:"placed_at"`
}

// Snapshot is the consistent view of the subject documents a decision is
// made over.
type Snapshot struct {
	User  *user.User
	Event *event.SingularEvent
}

// Tx exposes further reads against the same snapshot. Implementations
// defer all writes until the decide callback has returned, so reads stay
// legal for stores that require reads before writes in a transaction.
type Tx interface {
	User(userID string) (*user.User, error)
	// Memberships resolves membership names to documents. Names with no
	// document come back in missing rather than failing the read.
	Memberships(names []string) (found []membership.Membership, missing []string, err error)
}

// Mutation is the set of document updates to commit atomically with the
// reads the decision was based on.
type Mutation struct {
	Event *event.SingularEvent
	Users []*user.User
}

// Store runs an enrollment decision as a single transaction: read the user
// and event, call decide, commit the returned mutation. A nil mutation
// commits nothing.
type Store interface {
	RunEnrollment(ctx context.Context, eventID, userID string, decide func(tx Tx, snap *Snapshot) (*Mutation, error)) error
}

// Charge is a payment authorization request for a pending enrollment.
type Charge struct {
	IdempotencyKey string `json:"idempotency_key"`
	UserID         string `json:"user_id"`
	EventID        string `json:"event_id"`
	Sport          string `json:"sport"`
}

// Authorization is the payment provider's reply to a Charge.
type Authorization struct {
	Reference string `json:"reference"`
	Approved  bool   `json:"approved"`
}

// PaymentAuthorizer is the extension point for the unresolved payment
// policy. The allocation rule is complete without it; implementations only
// get involved after a pending placement is committed.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, charge Charge) (*Authorization, error)
}

// Entry is a single history record for a user.
type Entry struct {
	UserID  string    `json:"user_id" structs:"user_id"`
	EventID string    `json:"event_id" structs:"event_id"`
	Action  string    `json:"action" structs:"action"`
	At      time.Time `json:"at" structs:"at"`
}

// HistoryRecorder is the extension point for history logging. Recording
// failures never fail the enrollment they describe.
type HistoryRecorder interface {
	Record(ctx context.Context, entry Entry) error
}
