package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs. Channel metadata moves slowly; the profile channel list changes
// on every link/unlink and is invalidated explicitly.
const (
	ChannelCacheTTL        = 15 * time.Minute
	ProfileChannelCacheTTL = 5 * time.Minute
)

// CacheService provides a Redis cache-aside layer for channel and
// profile-channel lookups.
type CacheService struct {
	rdb    *redis.Client
	onHit  func()
	onMiss func()
}

// SetObservers installs hit/miss callbacks. Used to feed metrics without
// the service layer importing the handler package.
func (c *CacheService) SetObservers(onHit, onMiss func()) {
	c.onHit = onHit
	c.onMiss = onMiss
}

func (c *CacheService) hit() {
	if c.onHit != nil {
		c.onHit()
	}
}

func (c *CacheService) miss() {
	if c.onMiss != nil {
		c.onMiss()
	}
}

// NewCacheService creates a new CacheService. If redisURL is empty or connection
// fails, it returns a CacheService with a nil client (cache operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetChannel retrieves a cached channel response. Returns nil if not cached
// or cache is disabled.
func (c *CacheService) GetChannel(ctx context.Context, channelID string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, channelKey(channelID)).Bytes()
	if err == redis.Nil {
		c.miss()
		return nil, nil
	}
	if err == nil {
		c.hit()
	}
	return data, err
}

// SetChannel stores a channel response in cache.
func (c *CacheService) SetChannel(ctx context.Context, channelID string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, channelKey(channelID), b, ChannelCacheTTL).Err()
}

// InvalidateChannel removes a channel from cache (called after refresh).
func (c *CacheService) InvalidateChannel(ctx context.Context, channelID string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, channelKey(channelID)).Err()
}

// GetProfileChannels retrieves a cached profile channel list. Returns nil if
// not cached.
func (c *CacheService) GetProfileChannels(ctx context.Context, profileID string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, profileChannelsKey(profileID)).Bytes()
	if err == redis.Nil {
		c.miss()
		return nil, nil
	}
	if err == nil {
		c.hit()
	}
	return data, err
}

// SetProfileChannels stores a profile channel list in cache.
func (c *CacheService) SetProfileChannels(ctx context.Context, profileID string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, profileChannelsKey(profileID), b, ProfileChannelCacheTTL).Err()
}

// InvalidateProfileChannels removes a profile channel list from cache
// (called after link/unlink).
func (c *CacheService) InvalidateProfileChannels(ctx context.Context, profileID string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, profileChannelsKey(profileID)).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func channelKey(channelID string) string {
	return fmt.Sprintf("channel:%s", channelID)
}

func profileChannelsKey(profileID string) string {
	return fmt.Sprintf("profile:%s:channels", profileID)
}
