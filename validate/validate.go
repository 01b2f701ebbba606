package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"musfit/sentinel"
)

var emailPattern = regexp.MustCompile(`^([A-Za-z0-9]+[._\-])*[A-Za-z0-9]+@[A-Za-z0-9\-]+(\.[A-Za-z]{2,})+$`)

// Email reports whether the address is syntactically plausible. Purely a
// format check, nothing about existence or deliverability.
func Email(email string) bool {
	return emailPattern.MatchString(email)
}

// Genders the system accepts. Inputs are matched case-insensitively and
// normalized to these values.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Gender normalizes a gender string to GenderMale or GenderFemale.
func Gender(s string) (string, error) {
	switch strings.ToLower(s) {
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("%w: gender must be Male or Female, got %q", sentinel.ErrInvalidInput, s)
	}
}

const birthdateLayout = "02-01-2006"

// Birthdate parses a DD-MM-YYYY birth date. Malformed input is rejected
// rather than misparsed.
func Birthdate(s string) (time.Time, error) {
	t, err := time.Parse(birthdateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: birthdate must be DD-MM-YYYY, got %q", sentinel.ErrInvalidInput, s)
	}
	return t, nil
}

const startTimeLayout = "2006-01-02-15-04"

// StartTime parses an event start time. The accepted format is a dash
// separated tuple read positionally as year, month, day, hour, minute:
// YYYY-MM-DD-HH-MM. Anything else is rejected.
func StartTime(s string) (time.Time, error) {
	t, err := time.Parse(startTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: start time must be YYYY-MM-DD-HH-MM, got %q", sentinel.ErrInvalidInput, s)
	}
	return t, nil
}
