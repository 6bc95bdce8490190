package reservations

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)
	return db
}

// The space row lock is what serializes same-space writers inside the
// insert transaction; it must render as a real FOR UPDATE, not a
// silently-dropped session option.
func TestLockSpaceForBookingRendersForUpdate(t *testing.T) {
	db := dryRunDB(t)

	var row struct {
		ID       uuid.UUID
		IsActive bool
	}
	stmt := lockSpaceForBooking(db, uuid.New()).Find(&row).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "FOR UPDATE")
	assert.Contains(t, sql, "spaces")
}
