package api

import "time"

type Pong struct {
	Ping string `json:"ping"`
}

type Error struct {
	Error string `json:"error"`
}

type CreateUserRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	// Birthdate is DD-MM-YYYY.
	Birthdate string `json:"birthdate" binding:"required"`
	Gender    string `json:"gender" binding:"required"`
	// Membership optionally names the membership type the user signed up with.
	Membership string `json:"membership"`
}

type EditUserRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

type CreateEventRequest struct {
	EventName string `json:"event_name" binding:"required"`
	Gender    string `json:"gender" binding:"required"`
	Sport     string `json:"sport" binding:"required"`
	// StartTime is YYYY-MM-DD-HH-MM.
	StartTime string   `json:"start_time" binding:"required"`
	Duration  int      `json:"duration" binding:"required"`
	Capacity  int      `json:"capacity"`
	Tags      []string `json:"tags"`
}

type CreateMembershipRequest struct {
	Name         string         `json:"name" binding:"required"`
	TokenProfile map[string]int `json:"token_profile"`
	Period       string         `json:"period" binding:"required"`
	Price        float64        `json:"price"`
}

type EnrollRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type UserResponse struct {
	UserID       string              `json:"user_id"`
	FirstName    string              `json:"first_name"`
	LastName     string              `json:"last_name"`
	Email        string              `json:"email"`
	Birthdate    string              `json:"birthdate"`
	Gender       string              `json:"gender"`
	FreePassUsed bool                `json:"free_pass_used"`
	TokenProfile map[string][]string `json:"token_profile"`
	History      []string            `json:"history"`
	Scheduled    []string            `json:"scheduled"`
	Memberships  []string            `json:"memberships"`
	Settings     map[string]any      `json:"settings"`
}

type EventResponse struct {
	EventID   string    `json:"event_id"`
	EventName string    `json:"event_name"`
	Gender    string    `json:"gender"`
	Sport     string    `json:"sport"`
	StartTime time.Time `json:"start_time"`
	Duration  int       `json:"duration"`
	Capacity  int       `json:"capacity"`
	Enrolled  []string  `json:"enrolled"`
	Pending   []string  `json:"pending"`
	Waitlist  []string  `json:"waitlist"`
	Tags      []string  `json:"tags"`
}

type MembershipResponse struct {
	Name         string         `json:"name"`
	TokenProfile map[string]int `json:"token_profile"`
	Period       string         `json:"period"`
	Price        float64        `json:"price"`
}

type TicketResponse struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Placement string    `json:"placement"`
	PlacedAt  time.Time `json:"placed_at"`
}
