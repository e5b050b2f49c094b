package account

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/hridaygupta/ai-pitchdeck-generator/internal/decks"
	"github.com/hridaygupta/ai-pitchdeck-generator/internal/startups"
)

type Service struct {
	StartupRepo startups.Repo
	DeckRepo    decks.Repo
}

type ClaimResult struct {
	MigratedStartups int `json:"migratedStartups"`
	MigratedDecks    int `json:"migratedDecks"`
}

func NewService(startupRepo startups.Repo, deckRepo decks.Repo) *Service {
	return &Service{StartupRepo: startupRepo, DeckRepo: deckRepo}
}

func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}

	if startupPG, ok := s.StartupRepo.(*startups.PGRepo); ok && startupPG != nil && startupPG.DB != nil {
		if deckPG, ok := s.DeckRepo.(*decks.PGRepo); ok && deckPG != nil && deckPG.DB != nil {
			return claimWithTx(ctx, startupPG.DB, guestUserID, authedUserID)
		}
	}

	startupCount, err := claimStartups(ctx, s.StartupRepo, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	deckCount, err := claimDecks(ctx, s.DeckRepo, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedStartups: startupCount, MigratedDecks: deckCount}, nil
}

func claimWithTx(ctx context.Context, db *sql.DB, guestUserID, authedUserID string) (ClaimResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResult{}, err
	}
	defer tx.Rollback()

	startupRes, err := tx.ExecContext(ctx, `UPDATE startups SET user_id = $1 WHERE user_id = $2 AND deleted_at IS NULL`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	startupCount, _ := startupRes.RowsAffected()

	deckRes, err := tx.ExecContext(ctx, `UPDATE pitch_decks SET user_id = $1 WHERE user_id = $2 AND deleted_at IS NULL`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	deckCount, _ := deckRes.RowsAffected()

	if err := tx.Commit(); err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedStartups: int(startupCount), MigratedDecks: int(deckCount)}, nil
}

type guestClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}

func claimStartups(ctx context.Context, repo startups.Repo, guestUserID, authedUserID string) (int, error) {
	if claimer, ok := repo.(guestClaimer); ok {
		return claimer.ClaimGuest(ctx, guestUserID, authedUserID)
	}
	return 0, errors.New("startups repo does not support claim")
}

func claimDecks(ctx context.Context, repo decks.Repo, guestUserID, authedUserID string) (int, error) {
	if claimer, ok := repo.(guestClaimer); ok {
		return claimer.ClaimGuest(ctx, guestUserID, authedUserID)
	}
	return 0, errors.New("decks repo does not support claim")
}
