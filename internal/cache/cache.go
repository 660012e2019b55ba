package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rahulpandeyofficial/media-service/internal/storage"
	"github.com/rahulpandeyofficial/media-service/internal/types"
)

// CacheService wraps storage with Redis caching for the video listing. The
// upload path itself is never cached; a successful create only invalidates
// the list key.
type CacheService struct {
	storage storage.Storage
	redis   *redis.Client
}

// NewCacheService creates a new cache service
func NewCacheService(storage storage.Storage, redisClient *redis.Client) *CacheService {
	return &CacheService{
		storage: storage,
		redis:   redisClient,
	}
}

const (
	VideoListKey = "videos:recent"

	VideoListCacheDuration = 30 * time.Second
)

// CreateVideo passes through to storage and invalidates the cached listing
// once the record exists.
func (c *CacheService) CreateVideo(ctx context.Context, video types.Video) (types.Video, error) {
	created, err := c.storage.CreateVideo(ctx, video)
	if err != nil {
		return types.Video{}, err
	}

	c.redis.Del(ctx, VideoListKey)

	return created, nil
}

// ListVideos returns the cached listing or fetches from the database
func (c *CacheService) ListVideos(ctx context.Context) ([]types.Video, error) {
	// Try cache first
	cached, err := c.redis.Get(ctx, VideoListKey).Result()
	if err == nil {
		var videos []types.Video
		if err := json.Unmarshal([]byte(cached), &videos); err == nil {
			return videos, nil
		}
	}

	// Cache miss - fetch from database
	videos, err := c.storage.ListVideos(ctx)
	if err != nil {
		return nil, err
	}

	// Cache the result
	data, _ := json.Marshal(videos)
	c.redis.Set(ctx, VideoListKey, data, VideoListCacheDuration)

	return videos, nil
}
