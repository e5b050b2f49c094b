package decks

import (
	"context"
	"time"
)

// Repo defines persistence operations for pitch decks.
type Repo interface {
	Create(ctx context.Context, deck PitchDeck) error
	GetByID(ctx context.Context, deckID string) (PitchDeck, error)
	GetLatestForStartup(ctx context.Context, userID, startupID string) (PitchDeck, error)
	GetOrCreateForStartup(ctx context.Context, deck PitchDeck, allowRetry bool, allowCreate func() error) (PitchDeck, bool, error)
	UpdateStatusResultAndError(ctx context.Context, deckID, status string, result map[string]any, errorCode *string, errorMessage *string, errorRetryable *bool, startedAt *time.Time, completedAt *time.Time) error
	UpdateDeckResult(ctx context.Context, deckID string, result map[string]any, completedAt *time.Time) error
	UpdateSnapshotKey(ctx context.Context, deckID, snapshotKey string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]PitchDeck, error)
}
