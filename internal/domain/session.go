package domain

import (
	"context"
	"time"
)

// FeaturedSpeakerThreshold is the session count at which a speaker becomes
// the conference's featured speaker.
const FeaturedSpeakerThreshold = 2

// Session is a talk within a conference. ConferenceID is the explicit parent
// reference; sessions are created, updated, and deleted only by the owning
// conference's organizer.
// swagger:model Session
type Session struct {
	ID            string    `json:"id"`
	ConferenceID  string    `json:"conference_id"`
	Name          string    `json:"name"`
	Highlights    string    `json:"highlights"`
	Speakers      []string  `json:"speakers"`
	Duration      int       `json:"duration"`
	TypeOfSession string    `json:"type_of_session"`
	Date          time.Time `json:"date"`
	StartTime     time.Time `json:"start_time"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewSession returns a new Session. ID is set by the repository on create.
func NewSession(conferenceID, name, highlights, typeOfSession string, speakers []string, duration int, date, startTime time.Time, createdAt, updatedAt time.Time) *Session {
	if speakers == nil {
		speakers = []string{}
	}
	return &Session{
		ConferenceID:  conferenceID,
		Name:          name,
		Highlights:    highlights,
		Speakers:      speakers,
		Duration:      duration,
		TypeOfSession: typeOfSession,
		Date:          date,
		StartTime:     startTime,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

// SessionUpdate carries the optional fields of a partial session update;
// nil means unchanged.
type SessionUpdate struct {
	Name          *string
	Highlights    *string
	Speakers      []string
	Duration      *int
	TypeOfSession *string
	Date          *time.Time
	StartTime     *time.Time
}

// SessionRepository defines the interface for session storage. List results
// are in chronological (date, start_time) order.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
	ListByConference(ctx context.Context, conferenceID string) ([]*Session, error)
	ListByConferenceAndType(ctx context.Context, conferenceID, typeOfSession string) ([]*Session, error)
	ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speaker string) ([]*Session, error)
	ListBySpeaker(ctx context.Context, speaker string) ([]*Session, error)
	CountByConferenceAndSpeaker(ctx context.Context, conferenceID, speaker string) (int, error)
}

// SessionService defines session business logic, including the
// featured-speaker side effect of session creation.
type SessionService interface {
	Create(ctx context.Context, callerID, conferenceID string, session *Session) (*Session, error)
	Update(ctx context.Context, callerID, sessionID string, update SessionUpdate) (*Session, error)
	Delete(ctx context.Context, callerID, sessionID string) error
	ListByConference(ctx context.Context, conferenceID string) ([]*Session, error)
	ListByConferenceAndType(ctx context.Context, conferenceID, typeOfSession string) ([]*Session, error)
	ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speaker string) ([]*Session, error)
	ListBySpeaker(ctx context.Context, speaker string) ([]*Session, error)
	// GetFeaturedSpeaker returns the cached featured speaker for the
	// conference, or "" when absent. It never validates the conference id;
	// this is a best-effort display value.
	GetFeaturedSpeaker(ctx context.Context, conferenceID string) (string, error)
}
