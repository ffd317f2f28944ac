package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

type sessionService struct {
	sessionRepo    domain.SessionRepository
	conferenceRepo domain.ConferenceRepository
	cache          domain.FeatureCache
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewSessionService(sessionRepo domain.SessionRepository,
	conferenceRepo domain.ConferenceRepository,
	cache domain.FeatureCache,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SessionService {
	return &sessionService{
		sessionRepo:    sessionRepo,
		conferenceRepo: conferenceRepo,
		cache:          cache,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *sessionService) getOwnedConference(ctx context.Context, callerID, conferenceID string) (*domain.Conference, error) {
	conference, err := s.conferenceRepo.GetByID(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	if conference.OrganizerUserID != callerID {
		return nil, fmt.Errorf("%w: only the organizer can manage sessions", domain.ErrForbidden)
	}
	return conference, nil
}

func (s *sessionService) Create(ctx context.Context, callerID, conferenceID string, session *domain.Session) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conference, err := s.getOwnedConference(ctx, callerID, conferenceID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(session.Name) == "" {
		return nil, fmt.Errorf("%w: session 'name' field required", domain.ErrInvalidInput)
	}
	if session.Date.IsZero() || session.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: session 'date' and 'start_time' fields required", domain.ErrInvalidInput)
	}
	if conference.StartDate != nil && conference.EndDate != nil {
		if session.Date.Before(*conference.StartDate) || session.Date.After(*conference.EndDate) {
			return nil, fmt.Errorf("%w: session date must fall within the conference dates", domain.ErrInvalidInput)
		}
	}

	now := time.Now()
	created := domain.NewSession(
		conferenceID, session.Name, session.Highlights, session.TypeOfSession,
		session.Speakers, session.Duration, session.Date, session.StartTime,
		now, now,
	)
	if err := s.sessionRepo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.updateFeaturedSpeaker(ctx, conferenceID, created.Speakers)

	return created, nil
}

// updateFeaturedSpeaker promotes each listed speaker that now has enough
// sessions in the conference. Speakers are checked in list order, so with
// several qualifying speakers the last one ends up cached. Cache trouble is
// logged, never surfaced.
func (s *sessionService) updateFeaturedSpeaker(ctx context.Context, conferenceID string, speakers []string) {
	for _, speaker := range speakers {
		count, err := s.sessionRepo.CountByConferenceAndSpeaker(ctx, conferenceID, speaker)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to count speaker sessions", "conference_id", conferenceID, "speaker", speaker, "err", err)
			continue
		}
		if count < domain.FeaturedSpeakerThreshold {
			continue
		}
		if err := s.cache.SetFeaturedSpeaker(ctx, conferenceID, speaker); err != nil {
			s.logger.ErrorContext(ctx, "failed to cache featured speaker", "conference_id", conferenceID, "speaker", speaker, "err", err)
		}
	}
}

func (s *sessionService) Update(ctx context.Context, callerID, sessionID string, update domain.SessionUpdate) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no session found with key %s", domain.ErrNotFound, sessionID)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if _, err := s.getOwnedConference(ctx, callerID, session.ConferenceID); err != nil {
		return nil, err
	}

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, fmt.Errorf("%w: session 'name' field required", domain.ErrInvalidInput)
		}
		session.Name = *update.Name
	}
	if update.Highlights != nil {
		session.Highlights = *update.Highlights
	}
	if update.Speakers != nil {
		session.Speakers = update.Speakers
	}
	if update.Duration != nil {
		session.Duration = *update.Duration
	}
	if update.TypeOfSession != nil {
		session.TypeOfSession = *update.TypeOfSession
	}
	if update.Date != nil {
		session.Date = *update.Date
	}
	if update.StartTime != nil {
		session.StartTime = *update.StartTime
	}

	session.UpdatedAt = time.Now()
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	if update.Speakers != nil {
		s.updateFeaturedSpeaker(ctx, session.ConferenceID, session.Speakers)
	}

	return session, nil
}

func (s *sessionService) Delete(ctx context.Context, callerID, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: no session found with key %s", domain.ErrNotFound, sessionID)
		}
		return fmt.Errorf("get session: %w", err)
	}
	if _, err := s.getOwnedConference(ctx, callerID, session.ConferenceID); err != nil {
		return err
	}

	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *sessionService) ListByConference(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.conferenceRepo.GetByID(ctx, conferenceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return s.sessionRepo.ListByConference(ctx, conferenceID)
}

func (s *sessionService) ListByConferenceAndType(ctx context.Context, conferenceID, typeOfSession string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.conferenceRepo.GetByID(ctx, conferenceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return s.sessionRepo.ListByConferenceAndType(ctx, conferenceID, typeOfSession)
}

func (s *sessionService) ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speaker string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.conferenceRepo.GetByID(ctx, conferenceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return s.sessionRepo.ListByConferenceAndSpeaker(ctx, conferenceID, speaker)
}

func (s *sessionService) ListBySpeaker(ctx context.Context, speaker string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.sessionRepo.ListBySpeaker(ctx, speaker)
}

func (s *sessionService) GetFeaturedSpeaker(ctx context.Context, conferenceID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.cache.GetFeaturedSpeaker(ctx, conferenceID)
}
