package startups

import "context"

// Repo defines persistence operations for startup profiles.
type Repo interface {
	Create(ctx context.Context, profile Profile) error
	GetByID(ctx context.Context, userID, startupID string) (Profile, error)
	Update(ctx context.Context, profile Profile) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Profile, error)
}
