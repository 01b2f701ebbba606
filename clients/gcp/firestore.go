package gcp

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
)

// CreateFirestore builds the one Firestore client the process uses.
// Credentials come from the standard GOOGLE_APPLICATION_CREDENTIALS chain.
// Callers own closing it.
func CreateFirestore(ctx context.Context, projectID string) *firestore.Client {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	return client
}
