package decks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const deckColumns = `id, startup_id, user_id, template_id, slide_types, status, result, snapshot_key,
       error_code, error_message, error_retryable, started_at, completed_at, created_at, updated_at`

// Create inserts a new pitch deck.
func (r *PGRepo) Create(ctx context.Context, deck PitchDeck) error {
	const query = `
INSERT INTO pitch_decks (
	id, startup_id, user_id, template_id, slide_types, status, result, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	payload, err := marshalJSONB(deck.Result)
	if err != nil {
		return err
	}
	slideTypesPayload, err := marshalSlideTypes(deck.SlideTypes)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		deck.ID,
		deck.StartupID,
		deck.UserID,
		deck.TemplateID,
		slideTypesPayload,
		deck.Status,
		payload,
		deck.CreatedAt,
	)
	return err
}

// GetByID returns a deck by ID.
func (r *PGRepo) GetByID(ctx context.Context, deckID string) (PitchDeck, error) {
	const query = `
SELECT ` + deckColumns + `
FROM pitch_decks
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`
	return scanDeck(r.DB.QueryRowContext(ctx, query, deckID))
}

// GetLatestForStartup returns the newest deck for a startup.
func (r *PGRepo) GetLatestForStartup(ctx context.Context, userID, startupID string) (PitchDeck, error) {
	return getLatestForStartup(ctx, r.DB, userID, startupID)
}

// GetOrCreateForStartup returns the latest deck for a startup or creates a new one.
func (r *PGRepo) GetOrCreateForStartup(ctx context.Context, deck PitchDeck, allowRetry bool, allowCreate func() error) (PitchDeck, bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return PitchDeck{}, false, err
	}
	defer tx.Rollback()

	// Serialize per-startup to avoid duplicate deck creation.
	if _, err := tx.ExecContext(ctx, `SELECT id FROM startups WHERE id = $1 AND user_id = $2 FOR UPDATE`, deck.StartupID, deck.UserID); err != nil {
		return PitchDeck{}, false, err
	}

	latest, err := getLatestForStartup(ctx, tx, deck.UserID, deck.StartupID)
	if err == nil {
		switch latest.Status {
		case StatusQueued, StatusProcessing, StatusCompleted:
			if err := tx.Commit(); err != nil {
				return PitchDeck{}, false, err
			}
			return latest, false, nil
		case StatusFailed:
			if !allowRetry {
				if err := tx.Commit(); err != nil {
					return PitchDeck{}, false, err
				}
				return latest, false, ErrRetryRequired
			}
		}
	} else if !errors.Is(err, sql.ErrNoRows) && !errors.Is(err, ErrNotFound) {
		return PitchDeck{}, false, err
	}

	if allowCreate != nil {
		if err := allowCreate(); err != nil {
			return PitchDeck{}, false, err
		}
	}

	if err := createWithTx(ctx, tx, deck); err != nil {
		return PitchDeck{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return PitchDeck{}, false, err
	}
	return deck, true, nil
}

// UpdateStatusResultAndError updates status/result/error fields and timestamps.
func (r *PGRepo) UpdateStatusResultAndError(ctx context.Context, deckID, status string, result map[string]any, errorCode *string, errorMessage *string, errorRetryable *bool, startedAt *time.Time, completedAt *time.Time) error {
	const query = `
UPDATE pitch_decks
SET status = $1,
    result = COALESCE($2::jsonb, result),
    error_code = COALESCE($3::text, error_code),
    error_message = COALESCE($4::text, error_message),
    error_retryable = CASE
        WHEN $5::boolean IS NOT NULL THEN $5::boolean
        ELSE error_retryable
    END,
    started_at = CASE
        WHEN $6::timestamptz IS NOT NULL THEN $6::timestamptz
        WHEN $1 = 'processing' AND started_at IS NULL THEN now()
        ELSE started_at
    END,
    completed_at = CASE
        WHEN $7::timestamptz IS NOT NULL THEN $7::timestamptz
        WHEN ($1 = 'completed' OR $1 = 'failed') AND completed_at IS NULL THEN now()
        ELSE completed_at
    END,
    updated_at = now()
WHERE id = $8::uuid`

	var payload any
	var err error
	if result != nil {
		payload, err = json.Marshal(result)
		if err != nil {
			return err
		}
	}

	res, err := r.DB.ExecContext(ctx, query, status, payload, errorCode, errorMessage, errorRetryable, startedAt, completedAt, deckID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateDeckResult stores the assembled deck result and marks the job completed.
func (r *PGRepo) UpdateDeckResult(ctx context.Context, deckID string, result map[string]any, completedAt *time.Time) error {
	const query = `
UPDATE pitch_decks
SET result = $1::jsonb,
    status = 'completed',
    completed_at = COALESCE($2::timestamptz, completed_at, now()),
    updated_at = now()
WHERE id = $3::uuid`

	payload, err := marshalJSONB(result)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, payload, completedAt, deckID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSnapshotKey records the object-store key of the exported deck JSON.
func (r *PGRepo) UpdateSnapshotKey(ctx context.Context, deckID, snapshotKey string) error {
	const query = `
UPDATE pitch_decks
SET snapshot_key = $1,
    updated_at = now()
WHERE id = $2::uuid`

	res, err := r.DB.ExecContext(ctx, query, snapshotKey, deckID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser lists decks for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]PitchDeck, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
SELECT ` + deckColumns + `
FROM pitch_decks
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PitchDeck
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, deck)
	}
	return out, rows.Err()
}

// ClaimGuest reassigns decks from a guest user to an authenticated user.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error) {
	const query = `
UPDATE pitch_decks
SET user_id = $1,
    updated_at = now()
WHERE user_id = $2 AND deleted_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query, userID, guestUserID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

var _ Repo = (*PGRepo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeck(row rowScanner) (PitchDeck, error) {
	var d PitchDeck
	var templateID sql.NullString
	var slideTypes sql.NullString
	var result sql.NullString
	var snapshotKey sql.NullString
	var errorCode sql.NullString
	var errorMessage sql.NullString
	var errorRetryable sql.NullBool
	var startedAt sql.NullTime
	var completedAt sql.NullTime
	err := row.Scan(
		&d.ID,
		&d.StartupID,
		&d.UserID,
		&templateID,
		&slideTypes,
		&d.Status,
		&result,
		&snapshotKey,
		&errorCode,
		&errorMessage,
		&errorRetryable,
		&startedAt,
		&completedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PitchDeck{}, ErrNotFound
		}
		return PitchDeck{}, err
	}
	if templateID.Valid {
		d.TemplateID = templateID.String
	}
	if slideTypes.Valid {
		if err := json.Unmarshal([]byte(slideTypes.String), &d.SlideTypes); err != nil {
			d.SlideTypes = nil
		}
	}
	if result.Valid {
		d.Result = map[string]any{}
		if err := json.Unmarshal([]byte(result.String), &d.Result); err != nil {
			d.Result = nil
		}
	}
	if snapshotKey.Valid {
		d.SnapshotKey = snapshotKey.String
	}
	if errorCode.Valid {
		d.ErrorCode = errorCode.String
	}
	if errorMessage.Valid {
		d.ErrorMessage = &errorMessage.String
	}
	if errorRetryable.Valid {
		d.ErrorRetryable = errorRetryable.Bool
	}
	if startedAt.Valid {
		d.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		d.CompletedAt = &completedAt.Time
	}
	return d, nil
}

func marshalJSONB(value map[string]any) ([]byte, error) {
	if value == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(value)
}

func marshalSlideTypes(slideTypes []string) ([]byte, error) {
	if slideTypes == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(slideTypes)
}

func createWithTx(ctx context.Context, tx *sql.Tx, deck PitchDeck) error {
	const query = `
INSERT INTO pitch_decks (
	id, startup_id, user_id, template_id, slide_types, status, result, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	payload, err := marshalJSONB(deck.Result)
	if err != nil {
		return err
	}
	slideTypesPayload, err := marshalSlideTypes(deck.SlideTypes)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query,
		deck.ID,
		deck.StartupID,
		deck.UserID,
		deck.TemplateID,
		slideTypesPayload,
		deck.Status,
		payload,
		deck.CreatedAt,
	)
	return err
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getLatestForStartup(ctx context.Context, q queryer, userID, startupID string) (PitchDeck, error) {
	const query = `
SELECT ` + deckColumns + `
FROM pitch_decks
WHERE startup_id = $1 AND user_id = $2 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT 1`
	return scanDeck(q.QueryRowContext(ctx, query, startupID, userID))
}
