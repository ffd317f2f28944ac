package domain

import (
	"context"
	"time"
)

// Tee-shirt sizes selectable on a profile.
const (
	TeeShirtNotSpecified = "NOT_SPECIFIED"
	TeeShirtXS           = "XS"
	TeeShirtS            = "S"
	TeeShirtM            = "M"
	TeeShirtL            = "L"
	TeeShirtXL           = "XL"
	TeeShirtXXL          = "XXL"
	TeeShirtXXXL         = "XXXL"
)

var teeShirtSizes = map[string]struct{}{
	TeeShirtNotSpecified: {},
	TeeShirtXS:           {},
	TeeShirtS:            {},
	TeeShirtM:            {},
	TeeShirtL:            {},
	TeeShirtXL:           {},
	TeeShirtXXL:          {},
	TeeShirtXXXL:         {},
}

// ValidTeeShirtSize reports whether s is one of the enumerated sizes.
func ValidTeeShirtSize(s string) bool {
	_, ok := teeShirtSizes[s]
	return ok
}

// Profile is the per-user aggregate. It is keyed by the stable user id from
// the identity layer and owns the ordered registration and wishlist lists.
// Membership in both lists is unique; that is enforced by the mutation
// transactions, not by storage.
// swagger:model Profile
type Profile struct {
	UserID                 string    `json:"user_id"`
	DisplayName            string    `json:"display_name"`
	MainEmail              string    `json:"main_email"`
	TeeShirtSize           string    `json:"tee_shirt_size"`
	ConferenceKeysToAttend []string  `json:"conference_keys_to_attend"`
	SessionKeysToAttend    []string  `json:"session_keys_to_attend"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// NewProfile returns a new Profile for the given user with empty attendance lists.
func NewProfile(userID, displayName, mainEmail string, createdAt, updatedAt time.Time) *Profile {
	return &Profile{
		UserID:                 userID,
		DisplayName:            displayName,
		MainEmail:              mainEmail,
		TeeShirtSize:           TeeShirtNotSpecified,
		ConferenceKeysToAttend: []string{},
		SessionKeysToAttend:    []string{},
		CreatedAt:              createdAt,
		UpdatedAt:              updatedAt,
	}
}

// ProfileRepository defines the interface for profile storage.
type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	// GetByUserIDs loads several profiles in one round trip. Missing ids are
	// simply absent from the result.
	GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}

// ProfileService defines profile business logic. GetOrCreate lazily creates
// the profile on first authenticated access.
type ProfileService interface {
	GetOrCreate(ctx context.Context, userID string) (*Profile, error)
	Save(ctx context.Context, userID string, displayName, teeShirtSize *string) (*Profile, error)
}
