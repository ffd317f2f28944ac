package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"conferencecentral/internal/domain"
)

// In-memory fakes shared by the service tests.

type fakeUserRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

type fakeProfileRepo struct {
	byUserID map[string]*domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byUserID: make(map[string]*domain.Profile)}
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	f.byUserID[p.UserID] = p
	return nil
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	if p, ok := f.byUserID[userID]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProfileRepo) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*domain.Profile, error) {
	out := make(map[string]*domain.Profile)
	for _, id := range userIDs {
		if p, ok := f.byUserID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	if _, ok := f.byUserID[p.UserID]; !ok {
		return domain.ErrNotFound
	}
	f.byUserID[p.UserID] = p
	return nil
}

type fakeConferenceRepo struct {
	byID   map[string]*domain.Conference
	nextID int
}

func newFakeConferenceRepo() *fakeConferenceRepo {
	return &fakeConferenceRepo{byID: make(map[string]*domain.Conference), nextID: 1}
}

func (f *fakeConferenceRepo) Create(ctx context.Context, c *domain.Conference) error {
	c.ID = fmt.Sprintf("conf-%d", f.nextID)
	f.nextID++
	f.byID[c.ID] = c
	return nil
}

func (f *fakeConferenceRepo) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeConferenceRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Conference, error) {
	out := make(map[string]*domain.Conference)
	for _, id := range ids {
		if c, ok := f.byID[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (f *fakeConferenceRepo) ListByOrganizer(ctx context.Context, organizerUserID string) ([]*domain.Conference, error) {
	out := []*domain.Conference{}
	for _, c := range f.byID {
		if c.OrganizerUserID == organizerUserID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeConferenceRepo) Update(ctx context.Context, c *domain.Conference) error {
	if _, ok := f.byID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[c.ID] = c
	return nil
}

func (f *fakeConferenceRepo) Query(ctx context.Context, plan *domain.ConferenceQueryPlan, params domain.PaginationParams) ([]*domain.Conference, int, error) {
	out := []*domain.Conference{}
	for _, c := range f.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (f *fakeConferenceRepo) ListNearlySoldOut(ctx context.Context, threshold int) ([]*domain.Conference, error) {
	out := []*domain.Conference{}
	for _, c := range f.byID {
		if c.SeatsAvailable > 0 && c.SeatsAvailable <= threshold {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeSessionRepo struct {
	byID   map[string]*domain.Session
	nextID int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byID: make(map[string]*domain.Session), nextID: 1}
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	s.ID = fmt.Sprintf("sess-%d", f.nextID)
	f.nextID++
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSessionRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Session, error) {
	out := make(map[string]*domain.Session)
	for _, id := range ids {
		if s, ok := f.byID[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) Update(ctx context.Context, s *domain.Session) error {
	if _, ok := f.byID[s.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeSessionRepo) list(match func(*domain.Session) bool) []*domain.Session {
	out := []*domain.Session{}
	for _, s := range f.byID {
		if match(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func (f *fakeSessionRepo) ListByConference(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	return f.list(func(s *domain.Session) bool { return s.ConferenceID == conferenceID }), nil
}

func (f *fakeSessionRepo) ListByConferenceAndType(ctx context.Context, conferenceID, typeOfSession string) ([]*domain.Session, error) {
	return f.list(func(s *domain.Session) bool {
		return s.ConferenceID == conferenceID && s.TypeOfSession == typeOfSession
	}), nil
}

func hasSpeaker(s *domain.Session, speaker string) bool {
	for _, sp := range s.Speakers {
		if sp == speaker {
			return true
		}
	}
	return false
}

func (f *fakeSessionRepo) ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speaker string) ([]*domain.Session, error) {
	return f.list(func(s *domain.Session) bool {
		return s.ConferenceID == conferenceID && hasSpeaker(s, speaker)
	}), nil
}

func (f *fakeSessionRepo) ListBySpeaker(ctx context.Context, speaker string) ([]*domain.Session, error) {
	return f.list(func(s *domain.Session) bool { return hasSpeaker(s, speaker) }), nil
}

func (f *fakeSessionRepo) CountByConferenceAndSpeaker(ctx context.Context, conferenceID, speaker string) (int, error) {
	return len(f.list(func(s *domain.Session) bool {
		return s.ConferenceID == conferenceID && hasSpeaker(s, speaker)
	})), nil
}

// fakeRegistrationRepo mirrors the transactional repository semantics on top
// of the in-memory profile, conference, and session fakes.
type fakeRegistrationRepo struct {
	profiles    *fakeProfileRepo
	conferences *fakeConferenceRepo
	sessions    *fakeSessionRepo
}

func (f *fakeRegistrationRepo) Register(ctx context.Context, userID, conferenceID string) error {
	p, ok := f.profiles.byUserID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	c, ok := f.conferences.byID[conferenceID]
	if !ok {
		return fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
	}
	for _, key := range p.ConferenceKeysToAttend {
		if key == conferenceID {
			return fmt.Errorf("%w: you have already registered for this conference", domain.ErrConflict)
		}
	}
	if c.SeatsAvailable <= 0 {
		return fmt.Errorf("%w: there are no seats available", domain.ErrConflict)
	}
	p.ConferenceKeysToAttend = append(p.ConferenceKeysToAttend, conferenceID)
	c.SeatsAvailable--
	return nil
}

func (f *fakeRegistrationRepo) Unregister(ctx context.Context, userID, conferenceID string) (bool, error) {
	p, ok := f.profiles.byUserID[userID]
	if !ok {
		return false, domain.ErrNotFound
	}
	idx := -1
	for i, key := range p.ConferenceKeysToAttend {
		if key == conferenceID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}
	p.ConferenceKeysToAttend = append(p.ConferenceKeysToAttend[:idx], p.ConferenceKeysToAttend[idx+1:]...)
	if c, ok := f.conferences.byID[conferenceID]; ok {
		c.SeatsAvailable++
	}
	return true, nil
}

func (f *fakeRegistrationRepo) AddSessionToWishlist(ctx context.Context, userID, sessionID string) error {
	p, ok := f.profiles.byUserID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := f.sessions.byID[sessionID]; !ok {
		return fmt.Errorf("%w: no session found with key %s", domain.ErrNotFound, sessionID)
	}
	for _, key := range p.SessionKeysToAttend {
		if key == sessionID {
			return fmt.Errorf("%w: you have already added this session to your wishlist", domain.ErrConflict)
		}
	}
	p.SessionKeysToAttend = append(p.SessionKeysToAttend, sessionID)
	return nil
}

type fakeCache struct {
	featured      map[string]string
	announcement  string
	hasAnnounce   bool
	announceCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{featured: make(map[string]string)}
}

func (f *fakeCache) GetFeaturedSpeaker(ctx context.Context, conferenceID string) (string, error) {
	return f.featured[conferenceID], nil
}

func (f *fakeCache) SetFeaturedSpeaker(ctx context.Context, conferenceID, speaker string) error {
	f.featured[conferenceID] = speaker
	return nil
}

func (f *fakeCache) GetAnnouncement(ctx context.Context) (string, error) {
	return f.announcement, nil
}

func (f *fakeCache) SetAnnouncement(ctx context.Context, announcement string) error {
	f.announcement = announcement
	f.hasAnnounce = true
	f.announceCalls++
	return nil
}

func (f *fakeCache) DeleteAnnouncement(ctx context.Context) error {
	f.announcement = ""
	f.hasAnnounce = false
	return nil
}

type fakeEmailService struct {
	sent []*domain.ConferenceCreatedEmailData
	err  error
}

func (f *fakeEmailService) SendConferenceCreated(ctx context.Context, data *domain.ConferenceCreatedEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

func datePtr(t time.Time) *time.Time { return &t }

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
