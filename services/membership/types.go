package membership

import (
	"fmt"

	"musfit/sentinel"
)

// Billing periods a membership can be sold under.
const (
	PeriodWeekly    = "Weekly"
	PeriodMonthly   = "Monthly"
	PeriodQuarterly = "Quarterly"
	PeriodYearly    = "Yearly"
)

// ParsePeriod normalizes a billing period string.
func ParsePeriod(s string) (string, error) {
	switch s {
	case PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown billing period %q", sentinel.ErrInvalidInput, s)
	}
}

// Membership is the in-memory form of a Memberships document, keyed by its
// display name. Immutable once created; there is no edit path.
type Membership struct {
	Name         string         `json:"name" firestore:"-"`
	TokenProfile map[string]int `json:"token_profile" firestore:"token_profile"`
	Period       string         `json:"period" firestore:"period"`
	Price        float64        `json:"price" firestore:"price"`
}

// TokensFor returns the per-period token allowance for a sport.
func (m *Membership) TokensFor(sport string) int {
	if m.TokenProfile == nil {
		return 0
	}
	return m.TokenProfile[sport]
}
