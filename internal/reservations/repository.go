package reservations

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"venueflow/internal/availability"
)

// Repository interface for reservation storage
type Repository interface {
	// InsertIfNoOverlap persists the candidate atomically with the
	// overlap check. Two concurrent overlapping candidates cannot both
	// succeed; the loser gets ErrSlotUnavailable.
	InsertIfNoOverlap(ctx context.Context, reservation *Reservation) error

	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetByBookingCode(ctx context.Context, code string) (*Reservation, error)
	GetByPaymentOrderID(ctx context.Context, orderID string) (*Reservation, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*PaginatedReservations, error)
	ListOverlapping(ctx context.Context, spaceID uuid.UUID, start, end time.Time, statuses []Status) ([]Reservation, error)

	// BlockedIntervals is the availability read path (spaces.OverlapReader)
	BlockedIntervals(ctx context.Context, spaceID uuid.UUID, dayStart, dayEnd time.Time) ([]availability.Interval, error)

	// UpdateStatusCAS is the compare-and-swap status write: the update
	// applies only while status still equals expected, otherwise
	// ErrConflict
	UpdateStatusCAS(ctx context.Context, id uuid.UUID, expected Status, updates map[string]interface{}) error

	SetPaymentOrder(ctx context.Context, id uuid.UUID, orderID string) error
	ListStuckPending(ctx context.Context, before time.Time, limit int) ([]Reservation, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new reservation repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// InsertIfNoOverlap serializes same-space writers on the space row, then
// checks for blocking overlaps before inserting. The btree_gist exclusion
// constraint is the storage-level backstop if anything slips through.
func (r *repository) InsertIfNoOverlap(ctx context.Context, reservation *Reservation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var space struct {
			ID       uuid.UUID `gorm:"column:id"`
			IsActive bool      `gorm:"column:is_active"`
		}

		err := lockSpaceForBooking(tx, reservation.SpaceID).First(&space).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("space not found")
			}
			return fmt.Errorf("failed to lock space: %w", err)
		}
		if !space.IsActive {
			return errors.New("space is not available for booking")
		}

		var overlapping int64
		err = tx.Model(&Reservation{}).
			Where("space_id = ?", reservation.SpaceID).
			Where("status IN ?", BlockingStatuses()).
			Where("start_time < ? AND ? < end_time", reservation.EndTime, reservation.StartTime).
			Count(&overlapping).Error
		if err != nil {
			return fmt.Errorf("failed to check overlap: %w", err)
		}
		if overlapping > 0 {
			return ErrSlotUnavailable
		}

		return tx.Create(reservation).Error
	})

	if err != nil && isExclusionViolation(err) {
		return ErrSlotUnavailable
	}
	return err
}

// lockSpaceForBooking takes the space row lock (SELECT ... FOR UPDATE)
// that serializes same-space booking writers inside the insert transaction
func lockSpaceForBooking(tx *gorm.DB, spaceID uuid.UUID) *gorm.DB {
	return tx.Table("spaces").
		Select("id, is_active").
		Where("id = ?", spaceID).
		Clauses(clause.Locking{Strength: "UPDATE"})
}

// isExclusionViolation detects the overlap exclusion constraint firing
// (Postgres SQLSTATE 23P01)
func isExclusionViolation(err error) bool {
	return strings.Contains(err.Error(), "23P01") ||
		strings.Contains(err.Error(), "reservations_no_overlap")
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).First(&reservation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) GetByBookingCode(ctx context.Context, code string) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).First(&reservation, "booking_code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) GetByPaymentOrderID(ctx context.Context, orderID string) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).First(&reservation, "payment_order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*PaginatedReservations, error) {
	var result []Reservation
	var total int64

	query := r.db.WithContext(ctx).Model(&Reservation{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	err := query.Order("start_time DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	return &PaginatedReservations{
		Reservations: result,
		Total:        total,
		Page:         page,
		Limit:        limit,
		TotalPages:   int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (r *repository) ListOverlapping(ctx context.Context, spaceID uuid.UUID, start, end time.Time, statuses []Status) ([]Reservation, error) {
	if len(statuses) == 0 {
		statuses = BlockingStatuses()
	}

	var result []Reservation
	err := r.db.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Where("status IN ?", statuses).
		Where("start_time < ? AND ? < end_time", end, start).
		Order("start_time ASC").
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping reservations: %w", err)
	}
	return result, nil
}

func (r *repository) BlockedIntervals(ctx context.Context, spaceID uuid.UUID, dayStart, dayEnd time.Time) ([]availability.Interval, error) {
	overlapping, err := r.ListOverlapping(ctx, spaceID, dayStart, dayEnd, nil)
	if err != nil {
		return nil, err
	}

	intervals := make([]availability.Interval, 0, len(overlapping))
	for _, res := range overlapping {
		intervals = append(intervals, availability.Interval{Start: res.StartTime, End: res.EndTime})
	}
	return intervals, nil
}

func (r *repository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, expected Status, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Reservation{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update reservation status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either gone or moved under us; disambiguate for the caller
		var count int64
		if err := r.db.WithContext(ctx).Model(&Reservation{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrReservationNotFound
		}
		return ErrConflict
	}
	return nil
}

func (r *repository) SetPaymentOrder(ctx context.Context, id uuid.UUID, orderID string) error {
	result := r.db.WithContext(ctx).Model(&Reservation{}).
		Where("id = ?", id).
		Update("payment_order_id", orderID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// ListStuckPending finds reservations waiting on payment past the TTL,
// for the expiry sweeper
func (r *repository) ListStuckPending(ctx context.Context, before time.Time, limit int) ([]Reservation, error) {
	if limit <= 0 {
		limit = 100
	}

	var result []Reservation
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPendingPayment).
		Where("created_at < ?", before).
		Order("created_at ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stuck pending reservations: %w", err)
	}
	return result, nil
}
