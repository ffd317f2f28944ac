package cache

import (
	"context"
	"sync"

	"conferencecentral/internal/domain"
)

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryCache returns an in-process FeatureCache. It is used when no Redis
// address is configured, and in tests.
func NewMemoryCache() domain.FeatureCache {
	return &memoryCache{entries: make(map[string]string)}
}

func (c *memoryCache) GetFeaturedSpeaker(_ context.Context, conferenceID string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[featuredSpeakerKeyPrefix+conferenceID], nil
}

func (c *memoryCache) SetFeaturedSpeaker(_ context.Context, conferenceID, speaker string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[featuredSpeakerKeyPrefix+conferenceID] = speaker
	return nil
}

func (c *memoryCache) GetAnnouncement(_ context.Context) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[announcementKey], nil
}

func (c *memoryCache) SetAnnouncement(_ context.Context, announcement string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[announcementKey] = announcement
	return nil
}

func (c *memoryCache) DeleteAnnouncement(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, announcementKey)
	return nil
}
