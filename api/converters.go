package api

import (
	"time"

	"musfit/services/enrollment"
	"musfit/services/event"
	"musfit/services/membership"
	"musfit/services/user"
)

const birthdateLayout = "02-01-2006"

func TransformUser(u *user.User) UserResponse {
	profile := make(map[string][]string, len(u.TokenProfile))
	for sport, usages := range u.TokenProfile {
		stamps := make([]string, 0, len(usages))
		for _, usage := range usages {
			stamps = append(stamps, usage.Format(time.RFC3339))
		}
		profile[sport] = stamps
	}
	return UserResponse{
		UserID:       u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Birthdate:    u.Birthdate.Format(birthdateLayout),
		Gender:       u.Gender,
		FreePassUsed: u.FreePassUsed,
		TokenProfile: profile,
		History:      u.History,
		Scheduled:    u.Scheduled,
		Memberships:  u.Memberships,
		Settings:     u.Settings,
	}
}

func TransformEvent(e *event.SingularEvent) EventResponse {
	return EventResponse{
		EventID:   e.ID,
		EventName: e.Name,
		Gender:    e.Gender,
		Sport:     e.Sport,
		StartTime: e.StartTime,
		Duration:  e.Duration,
		Capacity:  e.Capacity,
		Enrolled:  e.Enrolled,
		Pending:   e.Pending,
		Waitlist:  e.Waitlist,
		Tags:      e.Tags,
	}
}

func TransformMembership(m *membership.Membership) MembershipResponse {
	return MembershipResponse{
		Name:         m.Name,
		TokenProfile: m.TokenProfile,
		Period:       m.Period,
		Price:        m.Price,
	}
}

func TransformTicket(t *enrollment.Ticket) TicketResponse {
	return TicketResponse{
		EventID:   t.EventID,
		UserID:    t.UserID,
		Placement: string(t.Placement),
		PlacedAt:  t.PlacedAt,
	}
}
