package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

type profileService struct {
	profileRepo    domain.ProfileRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

func NewProfileService(profileRepo domain.ProfileRepository, userRepo domain.UserRepository, timeout time.Duration) domain.ProfileService {
	return &profileService{
		profileRepo:    profileRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

// GetOrCreate returns the user's profile, creating it on first access. The
// initial display name is the local part of the account email.
func (s *profileService) GetOrCreate(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	displayName := user.Email
	if at := strings.Index(displayName, "@"); at > 0 {
		displayName = displayName[:at]
	}

	now := time.Now()
	profile = domain.NewProfile(userID, displayName, user.Email, now, now)
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

// Save applies a partial profile update; nil fields are unchanged.
func (s *profileService) Save(ctx context.Context, userID string, displayName, teeShirtSize *string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if displayName != nil {
		profile.DisplayName = *displayName
	}
	if teeShirtSize != nil {
		if !domain.ValidTeeShirtSize(*teeShirtSize) {
			return nil, fmt.Errorf("%w: invalid tee shirt size %q", domain.ErrInvalidInput, *teeShirtSize)
		}
		profile.TeeShirtSize = *teeShirtSize
	}

	profile.UpdatedAt = time.Now()
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}
