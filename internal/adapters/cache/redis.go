package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"conferencecentral/internal/domain"
)

const (
	featuredSpeakerKeyPrefix = "featured_speaker:"
	announcementKey          = "announcement"
)

type redisCache struct {
	client *redis.Client
}

// NewRedisCache returns a FeatureCache backed by Redis. Entries have no TTL;
// they are overwritten or deleted as the underlying data changes.
func NewRedisCache(client *redis.Client) domain.FeatureCache {
	return &redisCache{client: client}
}

func (c *redisCache) get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("cache get %s: %w", key, err)
	}
	return val, nil
}

func (c *redisCache) GetFeaturedSpeaker(ctx context.Context, conferenceID string) (string, error) {
	return c.get(ctx, featuredSpeakerKeyPrefix+conferenceID)
}

func (c *redisCache) SetFeaturedSpeaker(ctx context.Context, conferenceID, speaker string) error {
	if err := c.client.Set(ctx, featuredSpeakerKeyPrefix+conferenceID, speaker, 0).Err(); err != nil {
		return fmt.Errorf("cache set featured speaker: %w", err)
	}
	return nil
}

func (c *redisCache) GetAnnouncement(ctx context.Context) (string, error) {
	return c.get(ctx, announcementKey)
}

func (c *redisCache) SetAnnouncement(ctx context.Context, announcement string) error {
	if err := c.client.Set(ctx, announcementKey, announcement, 0).Err(); err != nil {
		return fmt.Errorf("cache set announcement: %w", err)
	}
	return nil
}

func (c *redisCache) DeleteAnnouncement(ctx context.Context) error {
	if err := c.client.Del(ctx, announcementKey).Err(); err != nil {
		return fmt.Errorf("cache delete announcement: %w", err)
	}
	return nil
}
