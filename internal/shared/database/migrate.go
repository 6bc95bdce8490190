package database

import (
	"venueflow/internal/reservations"
	"venueflow/internal/spaces"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults need the extension before AutoMigrate
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&spaces.Space{},
		&spaces.SpacePromoCode{},
		&reservations.Reservation{},
	)
}
