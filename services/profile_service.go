package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"samaj_server/models"
)

// ProfileService owns matrimony profiles. Consumed by the match workflow and
// the chat list (names, avatars).
type ProfileService struct {
	Store Store
}

// UpsertProfile creates or replaces the profile keyed by phone.
func (s *ProfileService) UpsertProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	if profile.Phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrEmptyMessage)
	}
	if profile.CreatedAt == "" {
		if existing, err := s.Store.GetProfile(ctx, profile.Phone); err == nil {
			profile.CreatedAt = existing.CreatedAt
		} else {
			profile.CreatedAt = time.Now().UTC().Format(time.RFC3339)
		}
	}
	if err := s.Store.PutProfile(ctx, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfile retrieves a profile by phone.
func (s *ProfileService) GetProfile(ctx context.Context, phone string) (*models.UserProfile, error) {
	return s.Store.GetProfile(ctx, phone)
}

// ListProfiles returns every profile. The browsing screen filters on
// completeness client-side, so incomplete profiles are included.
func (s *ProfileService) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	return s.Store.ListProfiles(ctx)
}

// IsComplete reports the completeness predicate for the given phone. Unknown
// profiles are incomplete.
func (s *ProfileService) IsComplete(ctx context.Context, phone string) (bool, error) {
	profile, err := s.Store.GetProfile(ctx, phone)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.IsComplete(), nil
}
