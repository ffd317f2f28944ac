package domain

import (
	"context"
	"time"
)

// Defaults applied at conference creation when the corresponding field is
// absent from the request.
const (
	DefaultCity         = "Default City"
	DefaultMaxAttendees = 0
)

// DefaultTopics returns the topics applied when none are submitted.
func DefaultTopics() []string {
	return []string{"Default", "Topic"}
}

// Conference is the aggregate owned by its organizer. SeatsAvailable is the
// only field mutated outside the organizer's control: registration decrements
// it, unregistration increments it, and it never drops below zero.
// swagger:model Conference
type Conference struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	OrganizerUserID string     `json:"organizer_user_id"`
	City            string     `json:"city"`
	Topics          []string   `json:"topics"`
	Month           int        `json:"month"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	MaxAttendees    int        `json:"max_attendees"`
	SeatsAvailable  int        `json:"seats_available"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewConference builds a Conference with creation defaults applied: city and
// topics fall back to the defaults, month is derived from startDate, and
// seatsAvailable starts equal to maxAttendees when maxAttendees > 0.
// ID is set by the repository on create.
func NewConference(name, organizerUserID, city string, topics []string, startDate, endDate *time.Time, maxAttendees int, createdAt, updatedAt time.Time) *Conference {
	if city == "" {
		city = DefaultCity
	}
	if len(topics) == 0 {
		topics = DefaultTopics()
	}
	if maxAttendees < 0 {
		maxAttendees = DefaultMaxAttendees
	}
	month := 0
	if startDate != nil {
		month = int(startDate.Month())
	}
	seats := 0
	if maxAttendees > 0 {
		seats = maxAttendees
	}
	return &Conference{
		Name:            name,
		OrganizerUserID: organizerUserID,
		City:            city,
		Topics:          topics,
		Month:           month,
		StartDate:       startDate,
		EndDate:         endDate,
		MaxAttendees:    maxAttendees,
		SeatsAvailable:  seats,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

// ConferenceWithOrganizer bundles a conference with its organizer's display
// name for query results.
type ConferenceWithOrganizer struct {
	Conference           *Conference `json:"conference"`
	OrganizerDisplayName string      `json:"organizer_display_name"`
}

// ConferenceUpdate carries the optional fields of a partial conference
// update; nil means unchanged.
type ConferenceUpdate struct {
	Name         *string
	City         *string
	Topics       []string
	StartDate    *time.Time
	EndDate      *time.Time
	MaxAttendees *int
}

// ConferenceRepository defines the interface for conference storage.
type ConferenceRepository interface {
	Create(ctx context.Context, conference *Conference) error
	GetByID(ctx context.Context, id string) (*Conference, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*Conference, error)
	ListByOrganizer(ctx context.Context, organizerUserID string) ([]*Conference, error)
	Update(ctx context.Context, conference *Conference) error
	// Query executes a compiled filter plan, returning one page of matches in
	// plan order plus the total match count.
	Query(ctx context.Context, plan *ConferenceQueryPlan, params PaginationParams) ([]*Conference, int, error)
	// ListNearlySoldOut returns conferences with 0 < seats_available <= threshold.
	ListNearlySoldOut(ctx context.Context, threshold int) ([]*Conference, error)
}

// ConferenceService defines conference business logic.
type ConferenceService interface {
	Create(ctx context.Context, callerID string, conference *Conference) (*Conference, error)
	Update(ctx context.Context, callerID, conferenceID string, update ConferenceUpdate) (*Conference, error)
	Get(ctx context.Context, conferenceID string) (*ConferenceWithOrganizer, error)
	ListCreated(ctx context.Context, callerID string) ([]*ConferenceWithOrganizer, error)
	Query(ctx context.Context, filters []Filter, params PaginationParams) ([]*ConferenceWithOrganizer, int, error)
	GetAnnouncement(ctx context.Context) (string, error)
	RefreshAnnouncement(ctx context.Context) (string, error)
}
