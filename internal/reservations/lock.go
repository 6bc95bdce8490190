package reservations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"venueflow/internal/shared/constants"
)

// releaseLockScript deletes the lock only if this holder still owns it
const releaseLockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0`

// SpaceLock serializes same-space booking writers before they reach
// Postgres. The database transaction remains the correctness guarantee;
// the lock just keeps contending writers from piling onto the same row.
type SpaceLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSpaceLock(client *redis.Client, ttl time.Duration) *SpaceLock {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &SpaceLock{client: client, ttl: ttl}
}

// Acquire takes the per-space lock. Returns a release function, or
// ok=false when another booking on the space is in flight.
func (l *SpaceLock) Acquire(ctx context.Context, spaceID uuid.UUID) (release func(), ok bool, err error) {
	if l.client == nil {
		// No Redis: fall through to the database-level guard alone
		return func() {}, true, nil
	}

	key := constants.BuildSpaceBookingLockKey(spaceID.String())
	token := uuid.New().String()

	acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire space lock: %w", err)
	}
	if !acquired {
		return nil, false, nil
	}

	release = func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		l.client.Eval(releaseCtx, releaseLockScript, []string{key}, token)
	}
	return release, true, nil
}
