package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The reservation time columns are timestamptz (gorm's mapping for
// time.Time), so the exclusion constraint must build a tstzrange;
// tsrange(timestamptz, timestamptz) does not resolve and the ALTER TABLE
// would fail, leaving the overlap invariant uninstalled.
func TestNoOverlapConstraintUsesTimestamptzRange(t *testing.T) {
	assert.Contains(t, noOverlapConstraintDDL, "tstzrange(start_time, end_time, '[)')")
	assert.NotContains(t, noOverlapConstraintDDL, "tsrange(start_time")
}

func TestNoOverlapConstraintCoversBlockingStatuses(t *testing.T) {
	require.Contains(t, noOverlapConstraintDDL, "EXCLUDE USING gist")
	for _, status := range []string{"pending_approval", "pending_payment", "confirmed", "checked_in"} {
		assert.Contains(t, noOverlapConstraintDDL, "'"+status+"'")
	}
	assert.True(t, strings.Contains(noOverlapConstraintDDL, "space_id WITH ="),
		"overlap must be scoped per space")
}
