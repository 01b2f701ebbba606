package envvars

import (
	"os"
	"reflect"
	"testing"
)

func TestGetEnv(t *testing.T) {
	// Backup and defer restore of environment variables
	backup := os.Environ()
	defer func() {
		os.Clearenv()
		for _, env := range backup {
			pair := splitEnv(env)
			os.Setenv(pair[0], pair[1])
		}
	}()

	t.Run("all env vars set", func(t *testing.T) {
		os.Clearenv()
		os.Setenv(ProjectID, "musfit-test")
		os.Setenv(Environment, "production")
		os.Setenv(Port, "9090")
		os.Setenv(OverflowPolicy, "waitlist")
		os.Setenv(CatalogBucket, "catalog-bucket")
		os.Setenv(CatalogObject, "catalog.json")
		os.Setenv(PaymentBaseURL, "https://payments.example.com")
		os.Setenv(PaymentAPIKey, "pay-key")
		os.Setenv(AdminJWTSecret, "admin-secret")

		expected := Env{
			ProjectID:      "musfit-test",
			Environment:    ProductionEnv,
			Port:           "9090",
			OverflowPolicy: "waitlist",
			CatalogBucket:  "catalog-bucket",
			CatalogObject:  "catalog.json",
			PaymentBaseURL: "https://payments.example.com",
			PaymentAPIKey:  "pay-key",
			AdminJWTSecret: "admin-secret",
		}

		if got := GetEnv(); !reflect.DeepEqual(got, expected) {
			t.Errorf("GetEnv() = %v, want %v", got, expected)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		os.Clearenv()
		os.Setenv(ProjectID, "musfit-test")

		got := GetEnv()
		if got.Environment != DevEnv {
			t.Errorf("Expected environment to default to dev, got %s", got.Environment)
		}
		if got.Port != "8080" {
			t.Errorf("Expected port to default to 8080, got %s", got.Port)
		}
		if got.OverflowPolicy != "reject" {
			t.Errorf("Expected overflow policy to default to reject, got %s", got.OverflowPolicy)
		}
		if got.CatalogObject != "memberships.json" {
			t.Errorf("Expected catalog object default, got %s", got.CatalogObject)
		}
	})
}

func TestIsProd(t *testing.T) {
	tests := []struct {
		name string
		env  Env
		want bool
	}{
		{"production env", Env{Environment: ProductionEnv}, true},
		{"dev env", Env{Environment: DevEnv}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsProd(tt.env); got != tt.want {
				t.Errorf("IsProd() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDev(t *testing.T) {
	tests := []struct {
		name string
		env  Env
		want bool
	}{
		{"production env", Env{Environment: ProductionEnv}, false},
		{"dev env", Env{Environment: DevEnv}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDev(tt.env); got != tt.want {
				t.Errorf("IsDev() = %v, want %v", got, tt.want)
			}
		})
	}
}

func splitEnv(env string) []string {
	var s []string
	for i := 0; i < len(env); i++ {
		if env[i] == '=' {
			s = append(s, env[:i])
			s = append(s, env[i+1:])
			return s
		}
	}
	// Return slice with empty strings if no '=' is found
	return []string{"", ""}
}
