package startups

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores profiles in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Profile
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Profile)}
}

// Create stores the profile.
func (r *MemoryRepo) Create(ctx context.Context, profile Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[profile.ID] = profile
	return nil
}

// GetByID returns a profile owned by the user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, startupID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.byID[startupID]
	if !ok || profile.UserID != userID {
		return Profile{}, ErrNotFound
	}
	return profile, nil
}

// Update replaces an existing profile.
func (r *MemoryRepo) Update(ctx context.Context, profile Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[profile.ID]
	if !ok || existing.UserID != profile.UserID {
		return ErrNotFound
	}
	r.byID[profile.ID] = profile
	return nil
}

// ListByUser returns a user's profiles ordered newest-first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Profile
	for _, p := range r.byID {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ClaimGuest reassigns a guest's profiles to an authenticated user.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for id, p := range r.byID {
		if p.UserID == guestUserID {
			p.UserID = authedUserID
			r.byID[id] = p
			count++
		}
	}
	return count, nil
}

var _ Repo = (*MemoryRepo)(nil)
