package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs, centralized.
// Pattern: venueflow:{module}:{operation}:{identifier}:{params?}

const CACHE_PREFIX = "venueflow"

// Cache TTLs
const (
	TTL_SPACE_CONFIG = 10 * time.Minute // pricing configuration changes rarely
	TTL_AVAILABILITY = 30 * time.Second // availability is write-sensitive
	TTL_RESERVATION  = 5 * time.Minute
)

// Cache keys
const (
	CACHE_KEY_SPACE_CONFIG = CACHE_PREFIX + ":spaces:config:uuid:"  // + space-id
	CACHE_KEY_AVAILABILITY = CACHE_PREFIX + ":availability:space:"  // + space-id:date:YYYY-MM-DD
	CACHE_KEY_RESERVATION  = CACHE_PREFIX + ":reservations:detail:" // + reservation-id
)

// Lock keys
const (
	LOCK_KEY_SPACE_BOOKING = CACHE_PREFIX + ":lock:booking:space:" // + space-id
)

// Invalidation patterns
const (
	PATTERN_INVALIDATE_SPACE_ALL    = CACHE_PREFIX + ":spaces:*"
	PATTERN_INVALIDATE_AVAILABILITY = CACHE_PREFIX + ":availability:space:" // + space-id + :*
)

func BuildSpaceConfigKey(spaceID string) string {
	return CACHE_KEY_SPACE_CONFIG + spaceID
}

func BuildAvailabilityKey(spaceID string, date time.Time) string {
	return fmt.Sprintf("%s%s:date:%s", CACHE_KEY_AVAILABILITY, spaceID, date.Format("2006-01-02"))
}

func BuildAvailabilityPattern(spaceID string) string {
	return PATTERN_INVALIDATE_AVAILABILITY + spaceID + ":*"
}

func BuildSpaceBookingLockKey(spaceID string) string {
	return LOCK_KEY_SPACE_BOOKING + spaceID
}
