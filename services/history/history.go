package history

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/fatih/structs"

	"musfit/services/enrollment"
)

const (
	userCollection       = "Users"
	historySubCollection = "History"
)

// Recorder writes history entries under the user document they concern,
// Users/{id}/History. It implements enrollment.HistoryRecorder.
type Recorder struct {
	db *firestore.Client
}

var _ enrollment.HistoryRecorder = (*Recorder)(nil)

func NewRecorder(db *firestore.Client) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) Record(ctx context.Context, entry enrollment.Entry) error {
	ref := r.db.Collection(userCollection).Doc(entry.UserID).Collection(historySubCollection).NewDoc()
	_, err := ref.Set(ctx, structs.Map(entry))
	if err != nil {
		return fmt.Errorf("failed to record history for user %s: %w", entry.UserID, err)
	}
	return nil
}

// Noop drops entries. Used in tests and when no Firestore client is wired.
type Noop struct{}

var _ enrollment.HistoryRecorder = Noop{}

func (Noop) Record(context.Context, enrollment.Entry) error { return nil }
