package main

import (
	"fmt"
	"log"
	"time"

	"venueflow/internal/availability"
	"venueflow/internal/pricing"
	"venueflow/internal/shared/config"
	"venueflow/internal/shared/database"
	"venueflow/internal/spaces"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting VenueFlow Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedSpaces(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"reservations",
		"space_promo_codes",
		"spaces",
	}

	for _, table := range tables {
		if err := s.db.PostgreSQL.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
		fmt.Printf("   Cleaned table: %s\n", table)
	}
	return nil
}

// SeedSpaces creates one space per pricing model so every quote path is
// exercisable out of the box
func (s *Seeder) SeedSpaces() error {
	now := time.Now().UTC()
	ownerID := uuid.New()

	weekdays := availability.WeekSchedule{
		time.Monday:    {Open: "09:00", Close: "21:00"},
		time.Tuesday:   {Open: "09:00", Close: "21:00"},
		time.Wednesday: {Open: "09:00", Close: "21:00"},
		time.Thursday:  {Open: "09:00", Close: "21:00"},
		time.Friday:    {Open: "09:00", Close: "23:00"},
		time.Saturday:  {Open: "10:00", Close: "23:00"},
		time.Sunday:    {Closed: true},
	}

	allWeek := availability.WeekSchedule{
		time.Monday:    {Open: "00:00", Close: "23:59"},
		time.Tuesday:   {Open: "00:00", Close: "23:59"},
		time.Wednesday: {Open: "00:00", Close: "23:59"},
		time.Thursday:  {Open: "00:00", Close: "23:59"},
		time.Friday:    {Open: "00:00", Close: "23:59"},
		time.Saturday:  {Open: "00:00", Close: "23:59"},
		time.Sunday:    {Open: "00:00", Close: "23:59"},
	}

	monthlyPrice := 45000.0

	seedSpaces := []spaces.Space{
		{
			OwnerID:             ownerID,
			Name:                "Downtown Conference Hall",
			Description:         "200-seat hall with AV setup, hourly bookings with evening peak rates",
			PricingType:         pricing.TypeHourly,
			BasePrice:           500,
			Currency:            "INR",
			MinimumBookingHours: 2,
			PeakMultiplier:      1.5,
			OffPeakMultiplier:   0.8,
			PeakHours: []pricing.PeakHour{
				{DayOfWeek: time.Friday, StartTime: "18:00", EndTime: "23:00", Multiplier: 1.5},
				{DayOfWeek: time.Saturday, StartTime: "18:00", EndTime: "23:00", Multiplier: 1.75},
			},
			OperatingHours: weekdays,
			IsActive:       true,
			PromoCodes: []spaces.SpacePromoCode{
				{
					Code:               "LAUNCH20",
					DiscountPercentage: 20,
					ValidFrom:          now.AddDate(0, 0, -7),
					ValidUntil:         now.AddDate(0, 1, 0),
					MaxUses:            100,
					IsActive:           true,
				},
				{
					Code:               "WEEKDAY10",
					DiscountPercentage: 10,
					ValidFrom:          now,
					ValidUntil:         now.AddDate(0, 3, 0),
					MaxUses:            0, // unlimited
					IsActive:           true,
				},
			},
		},
		{
			OwnerID:        ownerID,
			Name:           "Riverside Recording Studio",
			Description:    "Package pricing: fixed blocks with engineer included",
			PricingType:    pricing.TypePackage,
			BasePrice:      800,
			Currency:       "INR",
			PeakMultiplier: 1,
			TimeBlocks: []pricing.TimeBlock{
				{Hours: 2, Price: 1400, Description: "Demo session"},
				{Hours: 4, Price: 2500, Description: "Half-day session"},
				{Hours: 8, Price: 4500, Description: "Full-day session"},
			},
			OperatingHours: allWeek,
			IsActive:       true,
		},
		{
			OwnerID:             ownerID,
			Name:                "Harborview Banquet",
			Description:         "Daily rentals with festival special pricing",
			PricingType:         pricing.TypeDaily,
			BasePrice:           12000,
			Currency:            "INR",
			PeakMultiplier:      1,
			MinimumBookingHours: 0,
			SpecialEvents: []pricing.SpecialEvent{
				{
					EventName:   "New Year Week",
					StartDate:   time.Date(now.Year(), 12, 26, 0, 0, 0, 0, time.UTC),
					EndDate:     time.Date(now.Year()+1, 1, 2, 0, 0, 0, 0, time.UTC),
					Price:       20000,
					Description: "Holiday surge pricing",
				},
			},
			OperatingHours: allWeek,
			IsActive:       true,
		},
		{
			OwnerID:        ownerID,
			Name:           "Maker Lab Hot Desk",
			Description:    "Monthly memberships, prorated for partial months",
			PricingType:    pricing.TypeMonthly,
			BasePrice:      0,
			Currency:       "INR",
			MonthlyPrice:   &monthlyPrice,
			PeakMultiplier: 1,
			OperatingHours: weekdays,
			IsActive:       true,
		},
		{
			OwnerID:        ownerID,
			Name:           "Community Reading Room",
			Description:    "Free space, owner approval required",
			PricingType:    pricing.TypeFree,
			BasePrice:      0,
			Currency:       "INR",
			PeakMultiplier: 1,
			OperatingHours: weekdays,
			IsActive:       true,
		},
	}

	for i := range seedSpaces {
		if err := s.db.PostgreSQL.Create(&seedSpaces[i]).Error; err != nil {
			return fmt.Errorf("failed to create space %q: %w", seedSpaces[i].Name, err)
		}
		fmt.Printf("   Created space: %s (%s)\n", seedSpaces[i].Name, seedSpaces[i].PricingType)
	}

	fmt.Printf("\n   Owner ID for testing: %s\n", ownerID)
	return nil
}
