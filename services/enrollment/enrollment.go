package enrollment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"musfit/metrics"
	"musfit/sentinel"
	"musfit/services/event"
	"musfit/services/user"
)

type Service interface {
	// Enroll routes userID onto one of the event's participant lists based
	// on free capacity and token availability. The capacity check, list
	// append, scheduled-list update and token deduction commit as one
	// transaction. Re-enrolling an already placed user is a no-op that
	// returns the existing placement.
	Enroll(ctx context.Context, eventID, userID string) (*Ticket, error)
	// ConfirmPending moves a paid-up pending user to enrolled, re-checking
	// capacity. If the slot is gone by confirmation time the user moves to
	// the waitlist instead.
	ConfirmPending(ctx context.Context, eventID, userID string) (*Ticket, error)
	// ExpirePending drops a pending enrollment that was never paid.
	ExpirePending(ctx context.Context, eventID, userID string) error
	// Cancel removes the user from whichever list holds them. Freeing an
	// enrolled slot promotes the waitlist head, first come first served.
	Cancel(ctx context.Context, eventID, userID string) error
}

type service struct {
	store    Store
	payments PaymentAuthorizer
	history  HistoryRecorder
	recorder metrics.Recorder
	overflow OverflowPolicy
}

var _ Service = (*service)(nil)

func NewService(store Store, payments PaymentAuthorizer, history HistoryRecorder, recorder metrics.Recorder, overflow OverflowPolicy) Service {
	return &service{
		store:    store,
		payments: payments,
		history:  history,
		recorder: recorder,
		overflow: overflow,
	}
}

func (s *service) Enroll(ctx context.Context, eventID, userID string) (*Ticket, error) {
	var ticket *Ticket
	var repeat bool
	err := s.store.RunEnrollment(ctx, eventID, userID, func(tx Tx, snap *Snapshot) (*Mutation, error) {
		repeat = false
		u, ev := snap.User, snap.Event

		// Each user appears at most once across the three lists.
		if p := ev.Placement(userID); p != "" {
			repeat = true
			ticket = newTicket(ev.ID, userID, Placement(p))
			return nil, nil
		}

		memberships, missing, err := tx.Memberships(u.Memberships)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: memberships %v referenced by user %s do not exist", sentinel.ErrReferentialGap, missing, userID)
		}

		membershipTokens := 0
		for _, m := range memberships {
			membershipTokens += m.TokensFor(ev.Sport)
		}
		available := membershipTokens
		if !u.FreePassUsed {
			available++
		}
		tokenCapable := u.TokensUsed(ev.Sport) < available

		switch {
		case ev.HasSpace() && tokenCapable:
			ev.Enrolled = append(ev.Enrolled, userID)
			u.Scheduled = append(u.Scheduled, ev.ID)
			consumeToken(u, ev.Sport, membershipTokens)
			ticket = newTicket(ev.ID, userID, PlacementEnrolled)
			return &Mutation{Event: ev, Users: []*user.User{u}}, nil
		case ev.HasSpace():
			ev.Pending = append(ev.Pending, userID)
			ticket = newTicket(ev.ID, userID, PlacementPending)
			return &Mutation{Event: ev}, nil
		case tokenCapable:
			ev.Waitlist = append(ev.Waitlist, userID)
			ticket = newTicket(ev.ID, userID, PlacementWaitlisted)
			return &Mutation{Event: ev}, nil
		default:
			if s.overflow == OverflowWaitlist {
				ev.Waitlist = append(ev.Waitlist, userID)
				ticket = newTicket(ev.ID, userID, PlacementWaitlisted)
				return &Mutation{Event: ev}, nil
			}
			ticket = newTicket(ev.ID, userID, PlacementRejected)
			return nil, nil
		}
	})
	if err != nil {
		return nil, err
	}
	// A repeat enroll placed nothing; re-running the post-commit effects
	// would request a second payment authorization under a fresh
	// idempotency key and double-count the placement.
	if repeat {
		return ticket, nil
	}

	s.recorder.RecordPlacement(string(ticket.Placement))
	if ticket.Placement == PlacementPending {
		s.authorizePayment(ctx, eventID, userID)
	}
	s.record(ctx, userID, eventID, string(ticket.Placement))
	return ticket, nil
}

// consumeToken deducts the token that covered an enrollment: a usage
// timestamp when a membership allowance covered it, the free pass flag when
// only the free pass did.
func consumeToken(u *user.User, sport string, membershipTokens int) {
	if u.TokensUsed(sport) < membershipTokens {
		if u.TokenProfile == nil {
			u.TokenProfile = map[string][]time.Time{}
		}
		u.TokenProfile[sport] = append(u.TokenProfile[sport], time.Now())
		return
	}
	u.FreePassUsed = true
}

// authorizePayment kicks off payment authorization for a pending
// enrollment. Authorization failure leaves the placement pending; the
// charge is retried out of band and resolved via ConfirmPending or
// ExpirePending.
func (s *service) authorizePayment(ctx context.Context, eventID, userID string) {
	auth, err := s.payments.Authorize(ctx, Charge{
		IdempotencyKey: uuid.NewString(),
		UserID:         userID,
		EventID:        eventID,
	})
	if err != nil {
		s.recorder.RecordPaymentAuth(false)
		log.Warn().Err(err).Str("eventId", eventID).Str("userId", userID).Msg("payment authorization failed")
		return
	}
	s.recorder.RecordPaymentAuth(auth.Approved)
	log.Info().Str("reference", auth.Reference).Bool("approved", auth.Approved).Msg("payment authorization requested")
}

func (s *service) ConfirmPending(ctx context.Context, eventID, userID string) (*Ticket, error) {
	var ticket *Ticket
	err := s.store.RunEnrollment(ctx, eventID, userID, func(tx Tx, snap *Snapshot) (*Mutation, error) {
		u, ev := snap.User, snap.Event
		if !remove(&ev.Pending, userID) {
			return nil, fmt.Errorf("%w: no pending enrollment for user %s on event %s", sentinel.ErrNotFound, userID, eventID)
		}
		if ev.HasSpace() {
			ev.Enrolled = append(ev.Enrolled, userID)
			u.Scheduled = append(u.Scheduled, ev.ID)
			ticket = newTicket(ev.ID, userID, PlacementEnrolled)
			return &Mutation{Event: ev, Users: []*user.User{u}}, nil
		}
		// The slot was taken while the payment was in flight.
		ev.Waitlist = append(ev.Waitlist, userID)
		ticket = newTicket(ev.ID, userID, PlacementWaitlisted)
		return &Mutation{Event: ev}, nil
	})
	if err != nil {
		return nil, err
	}
	s.recorder.RecordPlacement(string(ticket.Placement))
	s.record(ctx, userID, eventID, "confirmed:"+string(ticket.Placement))
	return ticket, nil
}

func (s *service) ExpirePending(ctx context.Context, eventID, userID string) error {
	err := s.store.RunEnrollment(ctx, eventID, userID, func(tx Tx, snap *Snapshot) (*Mutation, error) {
		ev := snap.Event
		if !remove(&ev.Pending, userID) {
			return nil, fmt.Errorf("%w: no pending enrollment for user %s on event %s", sentinel.ErrNotFound, userID, eventID)
		}
		return &Mutation{Event: ev}, nil
	})
	if err != nil {
		return err
	}
	s.record(ctx, userID, eventID, "expired")
	return nil
}

func (s *service) Cancel(ctx context.Context, eventID, userID string) error {
	var promoted []promotion
	err := s.store.RunEnrollment(ctx, eventID, userID, func(tx Tx, snap *Snapshot) (*Mutation, error) {
		promoted = promoted[:0]
		u, ev := snap.User, snap.Event
		placement := ev.Placement(userID)
		if placement == "" {
			return nil, fmt.Errorf("%w: user %s is not on event %s", sentinel.ErrNotFound, userID, eventID)
		}

		mutation := &Mutation{Event: ev}
		switch Placement(placement) {
		case PlacementPending:
			remove(&ev.Pending, userID)
		case PlacementWaitlisted:
			remove(&ev.Waitlist, userID)
		case PlacementEnrolled:
			remove(&ev.Enrolled, userID)
			remove(&u.Scheduled, ev.ID)
			mutation.Users = append(mutation.Users, u)
			promotedUsers, err := s.promote(tx, ev)
			if err != nil {
				return nil, err
			}
			for _, p := range promotedUsers {
				promoted = append(promoted, p)
				if p.user != nil {
					mutation.Users = append(mutation.Users, p.user)
				}
			}
		}
		return mutation, nil
	})
	if err != nil {
		return err
	}

	s.record(ctx, userID, eventID, "cancelled")
	for _, p := range promoted {
		s.recorder.RecordPromotion()
		if p.placement == PlacementPending {
			s.authorizePayment(ctx, eventID, p.userID)
		}
		s.record(ctx, p.userID, eventID, "promoted:"+string(p.placement))
	}
	return nil
}

type promotion struct {
	userID    string
	placement Placement
	user      *user.User
}

// promote fills a freed slot from the waitlist head. Stale waitlist entries
// whose user document is gone are dropped and the next entry tried. A
// promotee whose memberships can no longer be resolved, or whose tokens ran
// out while they waited, moves to pending instead of enrolled.
func (s *service) promote(tx Tx, ev *event.SingularEvent) ([]promotion, error) {
	var out []promotion
	for ev.HasSpace() && len(ev.Waitlist) > 0 {
		candidateID := ev.Waitlist[0]
		ev.Waitlist = ev.Waitlist[1:]

		candidate, err := tx.User(candidateID)
		if err != nil {
			log.Warn().Err(err).Str("userId", candidateID).Msg("dropping stale waitlist entry")
			continue
		}
		memberships, missing, err := tx.Memberships(candidate.Memberships)
		if err != nil {
			return nil, err
		}

		membershipTokens := 0
		for _, m := range memberships {
			membershipTokens += m.TokensFor(ev.Sport)
		}
		available := membershipTokens
		if !candidate.FreePassUsed {
			available++
		}
		tokenCapable := len(missing) == 0 && candidate.TokensUsed(ev.Sport) < available

		if tokenCapable {
			ev.Enrolled = append(ev.Enrolled, candidateID)
			candidate.Scheduled = append(candidate.Scheduled, ev.ID)
			consumeToken(candidate, ev.Sport, membershipTokens)
			out = append(out, promotion{userID: candidateID, placement: PlacementEnrolled, user: candidate})
			continue
		}
		ev.Pending = append(ev.Pending, candidateID)
		out = append(out, promotion{userID: candidateID, placement: PlacementPending})
	}
	return out, nil
}

func (s *service) record(ctx context.Context, userID, eventID, action string) {
	err := s.history.Record(ctx, Entry{
		UserID:  userID,
		EventID: eventID,
		Action:  action,
		At:      time.Now(),
	})
	if err != nil {
		log.Warn().Err(err).Str("userId", userID).Str("action", action).Msg("failed to record history entry")
	}
}

func newTicket(eventID, userID string, p Placement) *Ticket {
	return &Ticket{
		EventID:   eventID,
		UserID:    userID,
		Placement: p,
		PlacedAt:  time.Now(),
	}
}

// remove deletes the first occurrence of v, reporting whether it was there.
func remove(list *[]string, v string) bool {
	for i, item := range *list {
		if item == v {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}
