package envvars

import (
	"log"
	"os"
)

// Environment variable names.
const (
	ProjectID      = "MUSFIT_PROJECT_ID"
	Environment    = "ENVIRONMENT"
	Port           = "PORT"
	OverflowPolicy = "ENROLLMENT_OVERFLOW_POLICY"
	CatalogBucket  = "MEMBERSHIP_CATALOG_BUCKET"
	CatalogObject  = "MEMBERSHIP_CATALOG_OBJECT"
	PaymentBaseURL = "PAYMENT_BASE_URL"
	PaymentAPIKey  = "PAYMENT_API_KEY"
	AdminJWTSecret = "ADMIN_JWT_SECRET"
)

const (
	ProductionEnv = "production"
	DevEnv        = "dev"
)

type Env struct {
	ProjectID      string
	Environment    string
	Port           string
	OverflowPolicy string
	CatalogBucket  string
	CatalogObject  string
	PaymentBaseURL string
	PaymentAPIKey  string
	AdminJWTSecret string
}

func GetEnv() Env {
	projectID, ok := os.LookupEnv(ProjectID)
	if !ok {
		log.Fatalf("%s required", ProjectID)
	}
	environment, ok := os.LookupEnv(Environment)
	if !ok {
		environment = DevEnv
	}
	port, ok := os.LookupEnv(Port)
	if !ok {
		port = "8080"
	}
	overflow, ok := os.LookupEnv(OverflowPolicy)
	if !ok {
		overflow = "reject"
	}
	bucket, ok := os.LookupEnv(CatalogBucket)
	if !ok {
		bucket = "musfit"
	}
	object, ok := os.LookupEnv(CatalogObject)
	if !ok {
		object = "memberships.json"
	}
	return Env{
		ProjectID:      projectID,
		Environment:    environment,
		Port:           port,
		OverflowPolicy: overflow,
		CatalogBucket:  bucket,
		CatalogObject:  object,
		PaymentBaseURL: os.Getenv(PaymentBaseURL),
		PaymentAPIKey:  os.Getenv(PaymentAPIKey),
		AdminJWTSecret: os.Getenv(AdminJWTSecret),
	}
}

func IsProd(env Env) bool {
	return env.Environment == ProductionEnv
}

func IsDev(env Env) bool {
	return env.Environment == DevEnv
}
