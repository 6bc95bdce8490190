package spaces

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository interface for space operations
type Repository interface {
	Create(ctx context.Context, space *Space) error
	GetByID(ctx context.Context, id uuid.UUID) (*Space, error)
	List(ctx context.Context, filters SpaceFilters) (*PaginatedSpaces, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error

	CreatePromoCode(ctx context.Context, promo *SpacePromoCode) error
	GetPromoCode(ctx context.Context, spaceID uuid.UUID, code string) (*SpacePromoCode, error)

	// RedeemPromo increments the redemption counter only while the code is
	// still redeemable. Returns ErrPromoExhausted when the guard rejects.
	RedeemPromo(ctx context.Context, spaceID uuid.UUID, code string, now time.Time) error
	ReleasePromo(ctx context.Context, spaceID uuid.UUID, code string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new space repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, space *Space) error {
	return r.db.WithContext(ctx).Create(space).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Space, error) {
	var space Space
	err := r.db.WithContext(ctx).Preload("PromoCodes").First(&space, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}
	return &space, nil
}

func (r *repository) List(ctx context.Context, filters SpaceFilters) (*PaginatedSpaces, error) {
	var result []Space
	var total int64

	query := r.db.WithContext(ctx).Model(&Space{})

	if filters.OwnerID != "" {
		ownerID, err := uuid.Parse(filters.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("invalid owner ID: %w", err)
		}
		query = query.Where("owner_id = ?", ownerID)
	}
	if filters.PricingType != "" {
		query = query.Where("pricing_type = ?", filters.PricingType)
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count spaces: %w", err)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list spaces: %w", err)
	}

	return &PaginatedSpaces{
		Spaces:     result,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Space{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSpaceNotFound
	}
	return nil
}

func (r *repository) CreatePromoCode(ctx context.Context, promo *SpacePromoCode) error {
	return r.db.WithContext(ctx).Create(promo).Error
}

func (r *repository) GetPromoCode(ctx context.Context, spaceID uuid.UUID, code string) (*SpacePromoCode, error) {
	var promo SpacePromoCode
	err := r.db.WithContext(ctx).
		First(&promo, "space_id = ? AND code = ?", spaceID, code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoExhausted
		}
		return nil, err
	}
	return &promo, nil
}

// RedeemPromo performs the increment and the redeemability check in one
// guarded UPDATE so concurrent redemptions cannot exceed max_uses
func (r *repository) RedeemPromo(ctx context.Context, spaceID uuid.UUID, code string, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&SpacePromoCode{}).
		Where("space_id = ? AND code = ? AND is_active = ?", spaceID, code, true).
		Where("valid_from <= ? AND valid_until >= ?", now, now).
		Where("max_uses = 0 OR used_count < max_uses").
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to redeem promo code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPromoExhausted
	}
	return nil
}

// ReleasePromo undoes a redemption when the reservation it was attached to
// never came into existence
func (r *repository) ReleasePromo(ctx context.Context, spaceID uuid.UUID, code string) error {
	return r.db.WithContext(ctx).Model(&SpacePromoCode{}).
		Where("space_id = ? AND code = ? AND used_count > 0", spaceID, code).
		UpdateColumn("used_count", gorm.Expr("used_count - 1")).Error
}
