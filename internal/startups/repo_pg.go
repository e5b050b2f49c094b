package startups

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres. Identity and lookup fields live in
// columns; the remaining profile fields are stored as a JSONB document.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new startup profile.
func (r *PGRepo) Create(ctx context.Context, profile Profile) error {
	const query = `
INSERT INTO startups (id, user_id, name, industry, funding_stage, revenue_model, profile, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	payload, err := marshalProfile(profile)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Name,
		profile.Industry,
		profile.FundingStage,
		profile.RevenueModel,
		payload,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}

// GetByID returns a profile owned by the user.
func (r *PGRepo) GetByID(ctx context.Context, userID, startupID string) (Profile, error) {
	const query = `
SELECT id, user_id, name, industry, funding_stage, revenue_model, profile, created_at, updated_at
FROM startups
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	row := r.DB.QueryRowContext(ctx, query, startupID, userID)
	return scanProfile(row)
}

// Update replaces the mutable fields of an existing profile.
func (r *PGRepo) Update(ctx context.Context, profile Profile) error {
	const query = `
UPDATE startups
SET name = $3, industry = $4, funding_stage = $5, revenue_model = $6, profile = $7, updated_at = $8
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	payload, err := marshalProfile(profile)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Name,
		profile.Industry,
		profile.FundingStage,
		profile.RevenueModel,
		payload,
		profile.UpdatedAt,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns a user's profiles ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Profile, error) {
	const query = `
SELECT id, user_id, name, industry, funding_stage, revenue_model, profile, created_at, updated_at
FROM startups
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, profile)
	}
	return out, rows.Err()
}

// ClaimGuest reassigns a guest's profiles to an authenticated user.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE startups SET user_id = $1 WHERE user_id = $2 AND deleted_at IS NULL`,
		authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (Profile, error) {
	var (
		profile   Profile
		payload   []byte
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Name,
		&profile.Industry,
		&profile.FundingStage,
		&profile.RevenueModel,
		&payload,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	if len(payload) > 0 {
		// Column values win over stale JSONB copies of the same fields.
		id, userID, name := profile.ID, profile.UserID, profile.Name
		industry, stage, model := profile.Industry, profile.FundingStage, profile.RevenueModel
		if err := json.Unmarshal(payload, &profile); err != nil {
			return Profile{}, err
		}
		profile.ID, profile.UserID, profile.Name = id, userID, name
		profile.Industry, profile.FundingStage, profile.RevenueModel = industry, stage, model
	}
	profile.CreatedAt = createdAt
	profile.UpdatedAt = updatedAt
	return profile, nil
}

func marshalProfile(profile Profile) ([]byte, error) {
	return json.Marshal(profile)
}

var _ Repo = (*PGRepo)(nil)
