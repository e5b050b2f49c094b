package startups

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for startup profiles.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Create validates and stores a new profile.
func (s *Service) Create(ctx context.Context, profile Profile) (Profile, error) {
	if err := validate(profile); err != nil {
		return Profile{}, err
	}
	now := time.Now().UTC()
	profile.ID = uuid.NewString()
	profile.Industry = normalizeIndustry(profile.Industry)
	profile.FundingStage = normalizeStage(profile.FundingStage)
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := s.Repo.Create(ctx, profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// Get returns a profile owned by the user.
func (s *Service) Get(ctx context.Context, userID, startupID string) (Profile, error) {
	if userID == "" || startupID == "" {
		return Profile{}, fmt.Errorf("%w: user id and startup id are required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, startupID)
}

// Update validates and replaces an existing profile.
func (s *Service) Update(ctx context.Context, profile Profile) (Profile, error) {
	if profile.ID == "" {
		return Profile{}, fmt.Errorf("%w: startup id is required", ErrInvalidInput)
	}
	if err := validate(profile); err != nil {
		return Profile{}, err
	}
	existing, err := s.Repo.GetByID(ctx, profile.UserID, profile.ID)
	if err != nil {
		return Profile{}, err
	}
	profile.Industry = normalizeIndustry(profile.Industry)
	profile.FundingStage = normalizeStage(profile.FundingStage)
	profile.CreatedAt = existing.CreatedAt
	profile.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// List returns profiles for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func validate(profile Profile) error {
	if strings.TrimSpace(profile.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(profile.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if profile.CurrentRevenue < 0 || profile.FundingAsk < 0 || profile.BurnRate < 0 {
		return fmt.Errorf("%w: numeric fields must be non-negative", ErrInvalidInput)
	}
	if profile.TeamSize < 0 || profile.CustomerCount < 0 || profile.UserCount < 0 {
		return fmt.Errorf("%w: counts must be non-negative", ErrInvalidInput)
	}
	return nil
}

func normalizeIndustry(raw string) string {
	industry := strings.ToLower(strings.TrimSpace(raw))
	switch industry {
	case IndustrySaaS, IndustryFintech, IndustryHealthcare, IndustryEcommerce, IndustryAIML, IndustryBiotech:
		return industry
	case "":
		return IndustrySaaS
	default:
		return industry
	}
}

func normalizeStage(raw string) string {
	stage := strings.ToLower(strings.TrimSpace(raw))
	if stage == "" {
		return StageSeed
	}
	return stage
}
