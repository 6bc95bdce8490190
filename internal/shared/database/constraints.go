package database

import (
	"gorm.io/gorm"
)

// noOverlapConstraintDDL keeps two reservations in a blocking status
// from overlapping on the same space. [start, end) matches the half-open
// interval semantics. tstzrange, not tsrange: gorm maps time.Time columns
// to timestamptz and Postgres will not implicitly cast.
const noOverlapConstraintDDL = `
	DO $$
	BEGIN
		IF NOT EXISTS (
			SELECT 1 FROM pg_constraint WHERE conname = 'reservations_no_overlap'
		) THEN
			ALTER TABLE reservations
			ADD CONSTRAINT reservations_no_overlap
			EXCLUDE USING gist (
				space_id WITH =,
				tstzrange(start_time, end_time, '[)') WITH &&
			)
			WHERE (status IN ('pending_approval', 'pending_payment', 'confirmed', 'checked_in'));
		END IF;
	END $$;
`

// MigrateConstraints installs the storage-level invariants the
// application guard alone cannot enforce under concurrency
func MigrateConstraints(db *gorm.DB) error {
	// btree_gist is required for the range exclusion constraint
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist;`).Error; err != nil {
		return err
	}

	err := db.Exec(noOverlapConstraintDDL).Error
	if err != nil {
		return err
	}

	// Webhook lookups resolve reservations by gateway order id
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_payment_order_id
		ON reservations (payment_order_id)
		WHERE payment_order_id IS NOT NULL;
	`).Error
	if err != nil {
		return err
	}

	// Availability reads scan per space, date and blocking status
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_space_time
		ON reservations (space_id, start_time)
		WHERE status IN ('pending_approval', 'pending_payment', 'confirmed', 'checked_in');
	`).Error
	if err != nil {
		return err
	}

	// The expiry sweeper scans pending_payment by age
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_pending_created
		ON reservations (created_at)
		WHERE status = 'pending_payment';
	`).Error
	if err != nil {
		return err
	}

	return nil
}
