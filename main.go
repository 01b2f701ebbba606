package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	ginmiddleware "github.com/oapi-codegen/gin-middleware"

	"musfit/api"
	"musfit/clients/gcp"
	"musfit/envvars"
	"musfit/metrics"
	"musfit/services/enrollment"
	"musfit/services/event"
	"musfit/services/history"
	"musfit/services/membership"
	"musfit/services/payment"
	"musfit/services/user"
	"musfit/store"
	"musfit/validator"
)

func main() {
	env := envvars.GetEnv()
	ctx := context.Background()

	firestoreClient := gcp.CreateFirestore(ctx, env.ProjectID)
	defer firestoreClient.Close()

	collector := metrics.NewCollector()
	db := store.NewFirestore(firestoreClient, collector)

	userService := user.NewService(db)
	eventService := event.NewService(db)
	membershipService := membership.NewService(db)

	overflow, err := enrollment.ParseOverflowPolicy(env.OverflowPolicy)
	if err != nil {
		log.Fatalf("bad overflow policy: %v", err)
	}
	var payments enrollment.PaymentAuthorizer = payment.Noop{}
	if env.PaymentBaseURL != "" {
		payments = payment.NewAuthorizer(resty.New().SetBaseURL(env.PaymentBaseURL), env.PaymentAPIKey)
	} else if envvars.IsProd(env) {
		log.Fatalf("%s required in production", envvars.PaymentBaseURL)
	}
	enrollmentService := enrollment.NewService(db, payments, history.NewRecorder(firestoreClient), collector, overflow)

	server := api.NewServer(userService, eventService, membershipService, enrollmentService)

	go func() {
		if err := seedMembershipCatalog(ctx, env, membershipService); err != nil {
			slog.With("error", err.Error()).Error("failed to seed membership catalog")
		}
	}()

	// Load OpenAPI spec file
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromFile("./api/openapi.yaml")
	if err != nil {
		slog.Error("failed to load openapi spec file")
		return
	}
	// Clear out the servers array in the swagger spec, that skips validating
	// that server names match. We don't know how this thing will be run.
	swagger.Servers = nil

	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/openapi", func(c *gin.Context) {
		c.Header("Content-Type", "application/x-yaml")
		c.File("./api/openapi.yaml")
	})
	r.GET("/metrics", gin.WrapH(collector.Handler()))

	r.Use(ginmiddleware.OapiRequestValidatorWithOptions(swagger, &ginmiddleware.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: validator.NewAuthenticator([]byte(env.AdminJWTSecret)),
		},
	}))
	api.RegisterRoutes(r, server)

	s := &http.Server{
		Handler: r,
		Addr:    "0.0.0.0:" + env.Port,
	}

	slog.Info("Starting HTTP server", "port", env.Port)
	log.Fatal(s.ListenAndServe())
}

type catalogEntry struct {
	Name         string         `json:"name"`
	TokenProfile map[string]int `json:"token_profile"`
	Period       string         `json:"period"`
	Price        float64        `json:"price"`
}

// seedMembershipCatalog pulls the membership catalog object from GCS and
// upserts every entry, so a fresh deployment starts with the standard
// membership types.
func seedMembershipCatalog(ctx context.Context, env envvars.Env, service membership.Service) error {
	var buf bytes.Buffer
	if err := gcp.DownloadObject(&buf, env.CatalogBucket, env.CatalogObject); err != nil {
		return fmt.Errorf("failed to download membership catalog: %w", err)
	}

	var catalog []catalogEntry
	if err := json.NewDecoder(&buf).Decode(&catalog); err != nil {
		return fmt.Errorf("failed to parse membership catalog: %w", err)
	}

	for _, entry := range catalog {
		if _, err := service.CreateMembershipType(ctx, entry.Name, entry.TokenProfile, entry.Period, entry.Price); err != nil {
			slog.With("error", err.Error()).Error("failed to upsert membership type", "name", entry.Name)
		}
	}
	slog.Info("membership catalog seeded", "count", len(catalog))
	return nil
}
