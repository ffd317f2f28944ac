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

// nearlySoldOutThreshold is the seat count at or below which a conference is
// included in the sold-out announcement.
const nearlySoldOutThreshold = 5

const announcementFormat = "Last chance to attend! The following conferences are nearly sold out: %s"

type conferenceService struct {
	conferenceRepo domain.ConferenceRepository
	profileRepo    domain.ProfileRepository
	cache          domain.FeatureCache
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewConferenceService(conferenceRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
	cache domain.FeatureCache,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ConferenceService {
	return &conferenceService{
		conferenceRepo: conferenceRepo,
		profileRepo:    profileRepo,
		cache:          cache,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *conferenceService) Create(ctx context.Context, callerID string, conference *domain.Conference) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(conference.Name) == "" {
		return nil, fmt.Errorf("%w: conference 'name' field required", domain.ErrInvalidInput)
	}

	now := time.Now()
	created := domain.NewConference(
		conference.Name, callerID, conference.City, conference.Topics,
		conference.StartDate, conference.EndDate, conference.MaxAttendees,
		now, now,
	)
	if err := s.conferenceRepo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("create conference: %w", err)
	}

	// Confirmation email is best effort; a mailer outage must not fail the create.
	if profile, err := s.profileRepo.GetByUserID(ctx, callerID); err == nil && profile.MainEmail != "" {
		data := &domain.ConferenceCreatedEmailData{
			Email:          profile.MainEmail,
			OrganizerName:  profile.DisplayName,
			ConferenceName: created.Name,
			City:           created.City,
		}
		if err := s.emailService.SendConferenceCreated(ctx, data); err != nil {
			s.logger.ErrorContext(ctx, "failed to send conference creation email", "conference_id", created.ID, "err", err)
		}
	}

	return created, nil
}

func (s *conferenceService) Update(ctx context.Context, callerID, conferenceID string, update domain.ConferenceUpdate) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conference, err := s.conferenceRepo.GetByID(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	if conference.OrganizerUserID != callerID {
		return nil, fmt.Errorf("%w: only the owner can update the conference", domain.ErrForbidden)
	}

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, fmt.Errorf("%w: conference 'name' field required", domain.ErrInvalidInput)
		}
		conference.Name = *update.Name
	}
	if update.City != nil {
		conference.City = *update.City
	}
	if update.Topics != nil {
		conference.Topics = update.Topics
	}
	if update.StartDate != nil {
		conference.StartDate = update.StartDate
		conference.Month = int(update.StartDate.Month())
	}
	if update.EndDate != nil {
		conference.EndDate = update.EndDate
	}
	if update.MaxAttendees != nil {
		// Keep already-taken seats; resize availability by the new capacity.
		taken := conference.MaxAttendees - conference.SeatsAvailable
		conference.MaxAttendees = *update.MaxAttendees
		seats := *update.MaxAttendees - taken
		if seats < 0 {
			seats = 0
		}
		conference.SeatsAvailable = seats
	}

	conference.UpdatedAt = time.Now()
	if err := s.conferenceRepo.Update(ctx, conference); err != nil {
		return nil, fmt.Errorf("update conference: %w", err)
	}
	return conference, nil
}

func (s *conferenceService) Get(ctx context.Context, conferenceID string) (*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conference, err := s.conferenceRepo.GetByID(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}

	joined, err := s.joinOrganizers(ctx, []*domain.Conference{conference})
	if err != nil {
		return nil, err
	}
	return joined[0], nil
}

func (s *conferenceService) ListCreated(ctx context.Context, callerID string) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conferences, err := s.conferenceRepo.ListByOrganizer(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list created conferences: %w", err)
	}
	return s.joinOrganizers(ctx, conferences)
}

func (s *conferenceService) Query(ctx context.Context, filters []domain.Filter, params domain.PaginationParams) ([]*domain.ConferenceWithOrganizer, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	plan, err := domain.CompileConferenceFilters(filters)
	if err != nil {
		return nil, 0, err
	}

	conferences, total, err := s.conferenceRepo.Query(ctx, plan, params)
	if err != nil {
		return nil, 0, fmt.Errorf("query conferences: %w", err)
	}

	joined, err := s.joinOrganizers(ctx, conferences)
	if err != nil {
		return nil, 0, err
	}
	return joined, total, nil
}

// joinOrganizers resolves organizer display names in one batched profile
// lookup. A missing organizer profile yields an empty display name rather
// than an error.
func (s *conferenceService) joinOrganizers(ctx context.Context, conferences []*domain.Conference) ([]*domain.ConferenceWithOrganizer, error) {
	ids := make([]string, 0, len(conferences))
	seen := make(map[string]struct{})
	for _, c := range conferences {
		if _, ok := seen[c.OrganizerUserID]; ok {
			continue
		}
		seen[c.OrganizerUserID] = struct{}{}
		ids = append(ids, c.OrganizerUserID)
	}

	profiles, err := s.profileRepo.GetByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load organizer profiles: %w", err)
	}

	result := make([]*domain.ConferenceWithOrganizer, 0, len(conferences))
	for _, c := range conferences {
		name := ""
		if p, ok := profiles[c.OrganizerUserID]; ok {
			name = p.DisplayName
		}
		result = append(result, &domain.ConferenceWithOrganizer{
			Conference:           c,
			OrganizerDisplayName: name,
		})
	}
	return result, nil
}

func (s *conferenceService) GetAnnouncement(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.cache.GetAnnouncement(ctx)
}

// RefreshAnnouncement recomputes the nearly-sold-out announcement from
// current seat counts and stores it. With no qualifying conferences the
// cache entry is removed and "" returned.
func (s *conferenceService) RefreshAnnouncement(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conferences, err := s.conferenceRepo.ListNearlySoldOut(ctx, nearlySoldOutThreshold)
	if err != nil {
		return "", fmt.Errorf("list nearly sold out conferences: %w", err)
	}

	if len(conferences) == 0 {
		if err := s.cache.DeleteAnnouncement(ctx); err != nil {
			return "", err
		}
		return "", nil
	}

	names := make([]string, 0, len(conferences))
	for _, c := range conferences {
		names = append(names, c.Name)
	}
	announcement := fmt.Sprintf(announcementFormat, strings.Join(names, ", "))
	if err := s.cache.SetAnnouncement(ctx, announcement); err != nil {
		return "", err
	}
	return announcement, nil
}
