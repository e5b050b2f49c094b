package decks

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores pitch decks in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]PitchDeck
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]PitchDeck)}
}

// Create stores the deck.
func (r *MemoryRepo) Create(ctx context.Context, deck PitchDeck) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[deck.ID] = deck
	return nil
}

// GetByID returns a deck by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, deckID string) (PitchDeck, error) {
	if err := ctx.Err(); err != nil {
		return PitchDeck{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	deck, ok := r.byID[deckID]
	if !ok {
		return PitchDeck{}, ErrNotFound
	}
	return deck, nil
}

// GetLatestForStartup returns the newest deck for a startup.
func (r *MemoryRepo) GetLatestForStartup(ctx context.Context, userID, startupID string) (PitchDeck, error) {
	if err := ctx.Err(); err != nil {
		return PitchDeck{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latestForStartupLocked(userID, startupID)
}

func (r *MemoryRepo) latestForStartupLocked(userID, startupID string) (PitchDeck, error) {
	var latest PitchDeck
	found := false
	for _, deck := range r.byID {
		if deck.UserID != userID || deck.StartupID != startupID {
			continue
		}
		if !found || deck.CreatedAt.After(latest.CreatedAt) {
			latest = deck
			found = true
		}
	}
	if !found {
		return PitchDeck{}, ErrNotFound
	}
	return latest, nil
}

// GetOrCreateForStartup returns the latest deck for a startup or creates a new one.
func (r *MemoryRepo) GetOrCreateForStartup(ctx context.Context, deck PitchDeck, allowRetry bool, allowCreate func() error) (PitchDeck, bool, error) {
	if err := ctx.Err(); err != nil {
		return PitchDeck{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	latest, err := r.latestForStartupLocked(deck.UserID, deck.StartupID)
	if err == nil {
		switch latest.Status {
		case StatusQueued, StatusProcessing, StatusCompleted:
			return latest, false, nil
		case StatusFailed:
			if !allowRetry {
				return latest, false, ErrRetryRequired
			}
		}
	}

	if allowCreate != nil {
		if err := allowCreate(); err != nil {
			return PitchDeck{}, false, err
		}
	}

	r.byID[deck.ID] = deck
	return deck, true, nil
}

// UpdateStatusResultAndError updates status/result/error fields and timestamps.
func (r *MemoryRepo) UpdateStatusResultAndError(ctx context.Context, deckID, status string, result map[string]any, errorCode *string, errorMessage *string, errorRetryable *bool, startedAt *time.Time, completedAt *time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	deck, ok := r.byID[deckID]
	if !ok {
		return ErrNotFound
	}
	deck.Status = status
	if result != nil {
		deck.Result = result
	}
	if errorCode != nil {
		deck.ErrorCode = *errorCode
	}
	if errorMessage != nil {
		deck.ErrorMessage = errorMessage
	}
	if errorRetryable != nil {
		deck.ErrorRetryable = *errorRetryable
	}
	if startedAt != nil {
		deck.StartedAt = startedAt
	} else if status == StatusProcessing && deck.StartedAt == nil {
		now := time.Now().UTC()
		deck.StartedAt = &now
	}
	if completedAt != nil {
		deck.CompletedAt = completedAt
	} else if (status == StatusCompleted || status == StatusFailed) && deck.CompletedAt == nil {
		now := time.Now().UTC()
		deck.CompletedAt = &now
	}
	deck.UpdatedAt = time.Now().UTC()
	r.byID[deckID] = deck
	return nil
}

// UpdateDeckResult stores the assembled deck result and marks the job completed.
func (r *MemoryRepo) UpdateDeckResult(ctx context.Context, deckID string, result map[string]any, completedAt *time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	deck, ok := r.byID[deckID]
	if !ok {
		return ErrNotFound
	}
	deck.Result = result
	deck.Status = StatusCompleted
	if completedAt != nil {
		deck.CompletedAt = completedAt
	} else if deck.CompletedAt == nil {
		now := time.Now().UTC()
		deck.CompletedAt = &now
	}
	deck.UpdatedAt = time.Now().UTC()
	r.byID[deckID] = deck
	return nil
}

// UpdateSnapshotKey records the object-store key of the exported deck JSON.
func (r *MemoryRepo) UpdateSnapshotKey(ctx context.Context, deckID, snapshotKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	deck, ok := r.byID[deckID]
	if !ok {
		return ErrNotFound
	}
	deck.SnapshotKey = snapshotKey
	deck.UpdatedAt = time.Now().UTC()
	r.byID[deckID] = deck
	return nil
}

// ListByUser returns decks for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]PitchDeck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	var decks []PitchDeck
	for _, deck := range r.byID {
		if deck.UserID == userID {
			decks = append(decks, deck)
		}
	}
	r.mu.RUnlock()

	if len(decks) == 0 || offset >= len(decks) {
		return []PitchDeck{}, nil
	}

	sort.Slice(decks, func(i, j int) bool {
		return decks[i].CreatedAt.After(decks[j].CreatedAt)
	})

	end := len(decks)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return decks[offset:end], nil
}

// ClaimGuest reassigns decks from a guest user to an authenticated user.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	claimed := 0
	for id, deck := range r.byID {
		if deck.UserID != guestUserID {
			continue
		}
		deck.UserID = userID
		deck.UpdatedAt = time.Now().UTC()
		r.byID[id] = deck
		claimed++
	}
	return claimed, nil
}

var _ Repo = (*MemoryRepo)(nil)
