package event

import "time"

// TagNonRecurring marks one-off events in the tag set so recurring and
// singular events can share the Events collection later.
const TagNonRecurring = "non-recurring"

// SingularEvent is the in-memory form of an Events document. The document
// key is the derived id from identity.HashEventInstance. The three
// participant lists are disjoint; a user id appears on at most one of them.
type SingularEvent struct {
	ID        string    `json:"event_id" firestore:"-"`
	Name      string    `json:"event_name" firestore:"event_name"`
	Gender    string    `json:"gender" firestore:"gender"`
	Sport     string    `json:"sport" firestore:"sport"`
	StartTime time.Time `json:"start_time" firestore:"start_time"`
	Duration  int       `json:"duration" firestore:"duration"`
	Capacity  int       `json:"capacity" firestore:"capacity"`
	Enrolled  []string  `json:"enrolled" firestore:"enrolled"`
	Pending   []string  `json:"pending" firestore:"pending"`
	Waitlist  []string  `json:"waitlist" firestore:"waitlist"`
	Tags      []string  `json:"tags" firestore:"tags"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
}

// HasSpace reports whether a capacity slot is free.
func (e *SingularEvent) HasSpace() bool {
	return len(e.Enrolled) < e.Capacity
}

// Placement of a user on one of the participant lists, or none.
func (e *SingularEvent) Placement(userID string) string {
	for _, id := range e.Enrolled {
		if id == userID {
			return "enrolled"
		}
	}
	for _, id := range e.Pending {
		if id == userID {
			return "pending"
		}
	}
	for _, id := range e.Waitlist {
		if id == userID {
			return "waitlist"
		}
	}
	return ""
}
