package domain

import "context"

// FeatureCache stores small derived display values (featured speaker per
// conference, the sold-out announcement). It is weakly consistent: writes are
// last-one-wins, reads never block writes, and entries may be stale. A Get
// for an absent key returns "" with no error.
type FeatureCache interface {
	GetFeaturedSpeaker(ctx context.Context, conferenceID string) (string, error)
	SetFeaturedSpeaker(ctx context.Context, conferenceID, speaker string) error
	GetAnnouncement(ctx context.Context) (string, error)
	SetAnnouncement(ctx context.Context, announcement string) error
	DeleteAnnouncement(ctx context.Context) error
}
