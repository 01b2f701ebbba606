package user

import "time"

// User is the in-memory form of a Users document. The document key is the
// derived id from identity.HashName, so the id itself is not stored as a
// field; stores fill it in from the document ref on fetch.
type User struct {
	ID           string                 `json:"user_id" firestore:"-"`
	FirstName    string                 `json:"first_name" firestore:"first_name"`
	LastName     string                 `json:"last_name" firestore:"last_name"`
	Email        string                 `json:"email" firestore:"email"`
	Birthdate    time.Time              `json:"birthdate" firestore:"birthdate"`
	Gender       string                 `json:"gender" firestore:"gender"`
	FreePassUsed bool                   `json:"free_pass_used" firestore:"free_pass_used"`
	TokenProfile map[string][]time.Time `json:"token_profile" firestore:"token_profile"`
	History      []string               `json:"history" firestore:"history"`
	Scheduled    []string               `json:"scheduled" firestore:"scheduled"`
	Memberships  []string               `json:"memberships" firestore:"memberships"`
	Settings     map[string]any         `json:"settings" firestore:"settings"`
	CreatedAt    time.Time              `json:"created_at" firestore:"created_at"`
}

// TokensUsed counts recorded token usages for a sport.
func (u *User) TokensUsed(sport string) int {
	if u.TokenProfile == nil {
		return 0
	}
	return len(u.TokenProfile[sport])
}
