package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"conferencecentral/internal/domain"
)

type attendeeService struct {
	registrationRepo  domain.RegistrationRepository
	conferenceRepo    domain.ConferenceRepository
	sessionRepo       domain.SessionRepository
	profileRepo       domain.ProfileRepository
	profileService    domain.ProfileService
	conferenceService domain.ConferenceService
	logger            *slog.Logger
	contextTimeout    time.Duration
}

func NewAttendeeService(registrationRepo domain.RegistrationRepository,
	conferenceRepo domain.ConferenceRepository,
	sessionRepo domain.SessionRepository,
	profileRepo domain.ProfileRepository,
	profileService domain.ProfileService,
	conferenceService domain.ConferenceService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AttendeeService {
	return &attendeeService{
		registrationRepo:  registrationRepo,
		conferenceRepo:    conferenceRepo,
		sessionRepo:       sessionRepo,
		profileRepo:       profileRepo,
		profileService:    profileService,
		conferenceService: conferenceService,
		logger:            logger,
		contextTimeout:    timeout,
	}
}

func (s *attendeeService) Register(ctx context.Context, callerID, conferenceID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// The registration transaction locks the profile row, so it must exist.
	if _, err := s.profileService.GetOrCreate(ctx, callerID); err != nil {
		return err
	}

	if err := s.registrationRepo.Register(ctx, callerID, conferenceID); err != nil {
		return err
	}

	s.refreshAnnouncement(ctx)
	return nil
}

func (s *attendeeService) Unregister(ctx context.Context, callerID, conferenceID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.profileService.GetOrCreate(ctx, callerID); err != nil {
		return false, err
	}

	removed, err := s.registrationRepo.Unregister(ctx, callerID, conferenceID)
	if err != nil {
		return false, err
	}
	if removed {
		s.refreshAnnouncement(ctx)
	}
	return removed, nil
}

// refreshAnnouncement keeps the sold-out announcement in step with seat
// counts. It is best effort; registration outcomes never depend on it.
func (s *attendeeService) refreshAnnouncement(ctx context.Context) {
	if _, err := s.conferenceService.RefreshAnnouncement(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to refresh announcement", "err", err)
	}
}

// ListAttending resolves the caller's attendance list. Keys whose conference
// has since been deleted are skipped rather than failing the whole list.
func (s *attendeeService) ListAttending(ctx context.Context, callerID string) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := s.profileService.GetOrCreate(ctx, callerID)
	if err != nil {
		return nil, err
	}

	conferences, err := s.conferenceRepo.GetByIDs(ctx, profile.ConferenceKeysToAttend)
	if err != nil {
		return nil, fmt.Errorf("load attended conferences: %w", err)
	}

	ordered := make([]*domain.Conference, 0, len(profile.ConferenceKeysToAttend))
	organizerIDs := make([]string, 0, len(ordered))
	seen := make(map[string]struct{})
	for _, key := range profile.ConferenceKeysToAttend {
		c, ok := conferences[key]
		if !ok {
			continue
		}
		ordered = append(ordered, c)
		if _, dup := seen[c.OrganizerUserID]; !dup {
			seen[c.OrganizerUserID] = struct{}{}
			organizerIDs = append(organizerIDs, c.OrganizerUserID)
		}
	}

	organizers, err := s.profileRepo.GetByUserIDs(ctx, organizerIDs)
	if err != nil {
		return nil, fmt.Errorf("load organizer profiles: %w", err)
	}

	result := make([]*domain.ConferenceWithOrganizer, 0, len(ordered))
	for _, c := range ordered {
		name := ""
		if p, ok := organizers[c.OrganizerUserID]; ok {
			name = p.DisplayName
		}
		result = append(result, &domain.ConferenceWithOrganizer{
			Conference:           c,
			OrganizerDisplayName: name,
		})
	}
	return result, nil
}

func (s *attendeeService) AddSessionToWishlist(ctx context.Context, callerID, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.profileService.GetOrCreate(ctx, callerID); err != nil {
		return err
	}
	return s.registrationRepo.AddSessionToWishlist(ctx, callerID, sessionID)
}

// ListWishlistForConference returns the caller's wishlisted sessions that
// belong to the conference, in chronological order. Wishlist keys pointing at
// deleted sessions or other conferences are silently dropped.
func (s *attendeeService) ListWishlistForConference(ctx context.Context, callerID, conferenceID string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.conferenceRepo.GetByID(ctx, conferenceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}

	profile, err := s.profileService.GetOrCreate(ctx, callerID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.GetByIDs(ctx, profile.SessionKeysToAttend)
	if err != nil {
		return nil, fmt.Errorf("load wishlisted sessions: %w", err)
	}

	result := make([]*domain.Session, 0, len(sessions))
	for _, key := range profile.SessionKeysToAttend {
		sess, ok := sessions[key]
		if !ok || sess.ConferenceID != conferenceID {
			continue
		}
		result = append(result, sess)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}
