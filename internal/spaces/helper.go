package spaces

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"venueflow/internal/shared/constants"
	"venueflow/pkg/cache"
)

// GetCache retrieves and unmarshals a cached value
func GetCache(ctx context.Context, client *redis.Client, key string, dest interface{}) error {
	if client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return cache.NewService(client).Get(ctx, key, dest)
}

// SetCache marshals and stores a value with TTL
func SetCache(ctx context.Context, client *redis.Client, key string, value interface{}, ttl time.Duration) error {
	if client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return cache.NewService(client).Set(ctx, key, value, ttl)
}

// InvalidateSpaceCache drops the cached config and every cached availability
// day for a space
func InvalidateSpaceCache(ctx context.Context, client *redis.Client, spaceID string) error {
	if client == nil {
		return nil
	}

	svc := cache.NewService(client)
	if err := svc.Delete(ctx, constants.BuildSpaceConfigKey(spaceID)); err != nil {
		return fmt.Errorf("failed to invalidate space config cache: %w", err)
	}
	return svc.DeletePattern(ctx, constants.BuildAvailabilityPattern(spaceID))
}

// InvalidateAvailabilityCache drops one cached availability day, used after a
// booking lands on that date
func InvalidateAvailabilityCache(ctx context.Context, client *redis.Client, spaceID string, date time.Time) error {
	if client == nil {
		return nil
	}
	return cache.NewService(client).Delete(ctx, constants.BuildAvailabilityKey(spaceID, date))
}
