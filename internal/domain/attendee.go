package domain

import "context"

// RegistrationRepository defines the transactional mutations that span the
// Profile and Conference aggregates. Each method runs in a single storage
// transaction: both aggregates commit together or neither does.
type RegistrationRepository interface {
	// Register appends conferenceID to the profile's attendance list and
	// decrements the conference's seat counter. It returns ErrNotFound when
	// the conference does not exist and ErrConflict on a duplicate
	// registration or when no seats are available.
	Register(ctx context.Context, userID, conferenceID string) error
	// Unregister removes conferenceID from the attendance list and increments
	// the seat counter. It returns false, not an error, when the user was not
	// registered.
	Unregister(ctx context.Context, userID, conferenceID string) (bool, error)
	// AddSessionToWishlist appends sessionID to the profile's wishlist. It
	// returns ErrNotFound when the session does not exist and ErrConflict when
	// the session is already wishlisted. The wishlist has no seat counter.
	AddSessionToWishlist(ctx context.Context, userID, sessionID string) error
}

// AttendeeService defines attendee-facing registration and wishlist
// operations.
type AttendeeService interface {
	Register(ctx context.Context, callerID, conferenceID string) error
	Unregister(ctx context.Context, callerID, conferenceID string) (bool, error)
	ListAttending(ctx context.Context, callerID string) ([]*ConferenceWithOrganizer, error)
	AddSessionToWishlist(ctx context.Context, callerID, sessionID string) error
	// ListWishlistForConference returns the caller's wishlisted sessions
	// belonging to the conference, sorted by (date, startTime). Deleted
	// sessions and keys from other conferences are silently dropped.
	ListWishlistForConference(ctx context.Context, callerID, conferenceID string) ([]*Session, error)
}
