package identity

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"musfit/sentinel"
)

// HashName derives the document id for a user from their name: the first
// three runes of each name followed by its rune length, e.g.
// HashName("Abdelrahman", "Alkhawas") -> "Abd11Alk8".
//
// This is deterministic but NOT collision resistant: any two first names
// of equal length sharing their first three runes collide ("Omar"/"Omal"
// produce the same fragment). Known weakness carried over deliberately;
// creation guards against it with a create-if-absent write.
func HashName(first, last string) (string, error) {
	if first == "" || last == "" {
		return "", fmt.Errorf("%w: first and last name required", sentinel.ErrInvalidInput)
	}
	return namePart(first) + namePart(last), nil
}

func namePart(name string) string {
	runes := []rune(name)
	head := runes
	if len(runes) > 3 {
		head = runes[:3]
	}
	return fmt.Sprintf("%s%d", string(head), len(runes))
}

// HashEventInstance derives the document id for a one-off event from its
// sport, gender restriction and start time: the gender initial, a truncated
// hash fragment of the start time, and the first three letters of the sport,
// e.g. ("football", "Male", 2024-04-05 21:00) -> "m1a2b3cfoo".
//
// The time fragment is truncated to 24 bits, so distinct start times can
// collide. Same caveat as HashName.
func HashEventInstance(sport, gender string, start time.Time) (string, error) {
	if sport == "" {
		return "", fmt.Errorf("%w: sport required", sentinel.ErrInvalidInput)
	}
	var initial string
	switch strings.ToLower(gender) {
	case "male":
		initial = "m"
	case "female":
		initial = "f"
	default:
		return "", fmt.Errorf("%w: gender must be male or female, got %q", sentinel.ErrInvalidInput, gender)
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(start.UTC().Format(time.RFC3339)))
	frag := h.Sum32() & 0xffffff

	s := strings.ToLower(sport)
	runes := []rune(s)
	if len(runes) > 3 {
		s = string(runes[:3])
	}
	return fmt.Sprintf("%s%06x%s", initial, frag, s), nil
}
