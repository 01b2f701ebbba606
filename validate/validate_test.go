package validate

import (
	"errors"
	"testing"
	"time"

	"musfit/sentinel"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.co", true},
		{"a.b-c@sub.domain.org", true},
		{"abderlahman_khawas@hotmail.com", true},
		{"not-an-email", false},
		{"@missing.local", false},
		{"user@", false},
		{"user@domain", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := Email(tt.email); got != tt.want {
				t.Errorf("Email(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestGender(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Male", GenderMale, false},
		{"female", GenderFemale, false},
		{"FEMALE", GenderFemale, false},
		{"other", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Gender(tt.in)
			if tt.wantErr {
				if !errors.Is(err, sentinel.ErrInvalidInput) {
					t.Errorf("Gender(%q) error = %v, want ErrInvalidInput", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Gender(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Gender(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBirthdate(t *testing.T) {
	t.Run("parses DD-MM-YYYY", func(t *testing.T) {
		got, err := Birthdate("04-10-2001")
		if err != nil {
			t.Fatalf("Birthdate() error = %v", err)
		}
		want := time.Date(2001, 10, 4, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("Birthdate() = %v, want %v", got, want)
		}
	})

	for _, bad := range []string{"2001-10-04", "04/10/2001", "31-02-2001", "not-a-date", ""} {
		t.Run("rejects "+bad, func(t *testing.T) {
			if _, err := Birthdate(bad); !errors.Is(err, sentinel.ErrInvalidInput) {
				t.Errorf("Birthdate(%q) error = %v, want ErrInvalidInput", bad, err)
			}
		})
	}
}

func TestStartTime(t *testing.T) {
	t.Run("parses YYYY-MM-DD-HH-MM", func(t *testing.T) {
		got, err := StartTime("2024-04-05-21-00")
		if err != nil {
			t.Fatalf("StartTime() error = %v", err)
		}
		want := time.Date(2024, 4, 5, 21, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("StartTime() = %v, want %v", got, want)
		}
	})

	// The two formats the drafts disagreed on must not silently misparse.
	for _, bad := range []string{"05-04-2024;04:21", "2024-04-05 21:00", "2024-13-05-21-00", ""} {
		t.Run("rejects "+bad, func(t *testing.T) {
			if _, err := StartTime(bad); !errors.Is(err, sentinel.ErrInvalidInput) {
				t.Errorf("StartTime(%q) error = %v, want ErrInvalidInput", bad, err)
			}
		})
	}
}
