package spaces

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"venueflow/internal/availability"
	"venueflow/internal/pricing"
	"venueflow/internal/shared/constants"
	"venueflow/pkg/cache"
	"venueflow/pkg/logger"
)

// OverlapReader exposes the intervals already blocking time on a space.
// Implemented by the reservations repository; declared here to keep the
// dependency pointing one way.
type OverlapReader interface {
	BlockedIntervals(ctx context.Context, spaceID uuid.UUID, dayStart, dayEnd time.Time) ([]availability.Interval, error)
}

type Service interface {
	CreateSpace(ctx context.Context, ownerID string, req CreateSpaceRequest) (*Space, error)
	GetSpaceByID(ctx context.Context, id string) (*Space, error)
	ListSpaces(ctx context.Context, filters SpaceFilters) (*PaginatedSpaces, error)
	UpdateSpace(ctx context.Context, ownerID, id string, req UpdateSpaceRequest) (*Space, error)
	CreatePromoCode(ctx context.Context, ownerID, spaceID string, req CreatePromoCodeRequest) (*SpacePromoCode, error)

	Quote(ctx context.Context, spaceID string, req QuoteRequest) (*QuoteResponse, error)
	Availability(ctx context.Context, spaceID string, date time.Time) (*AvailabilityResponse, error)
}

type service struct {
	repo        Repository
	overlaps    OverlapReader
	resolver    *availability.Resolver
	redisClient *redis.Client
	logger      *logger.Logger
}

func NewService(repo Repository, overlaps OverlapReader, resolver *availability.Resolver, log *logger.Logger) Service {
	return &service{
		repo:        repo,
		overlaps:    overlaps,
		resolver:    resolver,
		redisClient: cache.Client(),
		logger:      log,
	}
}

func (s *service) CreateSpace(ctx context.Context, ownerID string, req CreateSpaceRequest) (*Space, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID: %w", err)
	}

	pricingType := pricing.PricingType(req.PricingType)
	if !pricingType.IsValid() {
		return nil, fmt.Errorf("invalid pricing type: %s", req.PricingType)
	}
	if pricingType != pricing.TypeFree && req.BasePrice <= 0 && pricingType != pricing.TypePackage {
		return nil, fmt.Errorf("base price is required for %s pricing", pricingType)
	}
	if pricingType == pricing.TypePackage && len(req.TimeBlocks) == 0 {
		return nil, fmt.Errorf("package pricing requires at least one time block")
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}
	peakMult := req.PeakMultiplier
	if peakMult == 0 {
		peakMult = 1
	}
	offPeakMult := req.OffPeakMultiplier
	if offPeakMult == 0 {
		offPeakMult = 1
	}

	space := &Space{
		ID:                  uuid.New(),
		OwnerID:             owner,
		Name:                req.Name,
		Description:         req.Description,
		PricingType:         pricingType,
		BasePrice:           req.BasePrice,
		Currency:            currency,
		MonthlyPrice:        req.MonthlyPrice,
		MinimumBookingHours: req.MinimumBookingHours,
		PeakMultiplier:      peakMult,
		OffPeakMultiplier:   offPeakMult,
		PeakHours:           req.PeakHours,
		TimeBlocks:          req.TimeBlocks,
		SpecialEvents:       req.SpecialEvents,
		OperatingHours:      req.OperatingHours,
		IsActive:            true,
	}

	if err := s.repo.Create(ctx, space); err != nil {
		return nil, fmt.Errorf("failed to create space: %w", err)
	}
	return space, nil
}

func (s *service) GetSpaceByID(ctx context.Context, id string) (*Space, error) {
	spaceID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid space ID: %w", err)
	}

	cacheKey := constants.BuildSpaceConfigKey(id)

	var cached Space
	if err := GetCache(ctx, s.redisClient, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	space, err := s.repo.GetByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}

	if err := SetCache(ctx, s.redisClient, cacheKey, space, constants.TTL_SPACE_CONFIG); err != nil {
		s.logger.Warn("Failed to cache space config", "space_id", id, "error", err)
	}
	return space, nil
}

func (s *service) ListSpaces(ctx context.Context, filters SpaceFilters) (*PaginatedSpaces, error) {
	return s.repo.List(ctx, filters)
}

func (s *service) UpdateSpace(ctx context.Context, ownerID, id string, req UpdateSpaceRequest) (*Space, error) {
	spaceID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid space ID: %w", err)
	}

	space, err := s.repo.GetByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if space.OwnerID.String() != ownerID {
		return nil, fmt.Errorf("space does not belong to this owner")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.BasePrice != nil {
		updates["base_price"] = *req.BasePrice
	}
	if req.MonthlyPrice != nil {
		updates["monthly_price"] = *req.MonthlyPrice
	}
	if req.MinimumBookingHours != nil {
		updates["minimum_booking_hours"] = *req.MinimumBookingHours
	}
	if req.PeakMultiplier != nil {
		updates["peak_multiplier"] = *req.PeakMultiplier
	}
	if req.OffPeakMultiplier != nil {
		updates["off_peak_multiplier"] = *req.OffPeakMultiplier
	}
	if req.PeakHours != nil {
		updates["peak_hours"] = *req.PeakHours
	}
	if req.TimeBlocks != nil {
		updates["time_blocks"] = *req.TimeBlocks
	}
	if req.SpecialEvents != nil {
		updates["special_events"] = *req.SpecialEvents
	}
	if req.OperatingHours != nil {
		updates["operating_hours"] = *req.OperatingHours
	}
	if len(updates) == 0 {
		return space, nil
	}

	if err := s.repo.Update(ctx, spaceID, updates); err != nil {
		return nil, fmt.Errorf("failed to update space: %w", err)
	}

	if err := InvalidateSpaceCache(ctx, s.redisClient, id); err != nil {
		s.logger.Warn("Failed to invalidate space cache after update", "space_id", id, "error", err)
	}

	return s.repo.GetByID(ctx, spaceID)
}

func (s *service) CreatePromoCode(ctx context.Context, ownerID, spaceID string, req CreatePromoCodeRequest) (*SpacePromoCode, error) {
	id, err := uuid.Parse(spaceID)
	if err != nil {
		return nil, fmt.Errorf("invalid space ID: %w", err)
	}

	space, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if space.OwnerID.String() != ownerID {
		return nil, fmt.Errorf("space does not belong to this owner")
	}

	validFrom, err := time.Parse(time.RFC3339, req.ValidFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid valid_from: %w", err)
	}
	validUntil, err := time.Parse(time.RFC3339, req.ValidUntil)
	if err != nil {
		return nil, fmt.Errorf("invalid valid_until: %w", err)
	}
	if !validUntil.After(validFrom) {
		return nil, fmt.Errorf("valid_until must be after valid_from")
	}

	promo := &SpacePromoCode{
		ID:                 uuid.New(),
		SpaceID:            id,
		Code:               req.Code,
		DiscountPercentage: req.DiscountPercentage,
		ValidFrom:          validFrom,
		ValidUntil:         validUntil,
		MaxUses:            req.MaxUses,
		IsActive:           true,
	}
	if err := s.repo.CreatePromoCode(ctx, promo); err != nil {
		return nil, fmt.Errorf("failed to create promo code: %w", err)
	}

	if err := InvalidateSpaceCache(ctx, s.redisClient, spaceID); err != nil {
		s.logger.Warn("Failed to invalidate space cache after promo creation", "space_id", spaceID, "error", err)
	}
	return promo, nil
}

// Quote prices a candidate interval without creating anything
func (s *service) Quote(ctx context.Context, spaceID string, req QuoteRequest) (*QuoteResponse, error) {
	space, err := s.GetSpaceByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if !space.IsActive {
		return nil, ErrSpaceInactive
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start_time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end_time: %w", err)
	}

	quote, err := pricing.Compute(space.PricingConfig(), start, end, req.PromoCode, time.Now())
	if err != nil {
		return nil, err
	}

	return &QuoteResponse{
		SpaceID:       spaceID,
		StartTime:     start,
		EndTime:       end,
		TotalPrice:    quote.TotalPrice,
		OriginalPrice: quote.OriginalPrice,
		DurationHours: quote.DurationHours,
		Currency:      quote.Currency,
		Breakdown:     quote.Breakdown,
	}, nil
}

// Availability resolves the bookable slots of a space for one date, cached
// briefly because it is invalidated on every booking anyway
func (s *service) Availability(ctx context.Context, spaceID string, date time.Time) (*AvailabilityResponse, error) {
	space, err := s.GetSpaceByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if !space.IsActive {
		return nil, ErrSpaceInactive
	}

	cacheKey := constants.BuildAvailabilityKey(spaceID, date)
	var cached AvailabilityResponse
	if err := GetCache(ctx, s.redisClient, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	blocked, err := s.overlaps.BlockedIntervals(ctx, space.ID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocking reservations: %w", err)
	}

	result := s.resolver.Resolve(space.PricingConfig(), space.OperatingHours, dayStart, blocked, time.Now())

	resp := &AvailabilityResponse{
		SpaceID:        spaceID,
		Date:           dayStart.Format("2006-01-02"),
		PricingType:    space.PricingType,
		TimeBlocks:     result.TimeBlocks,
		AvailableSlots: result.AvailableSlots,
	}

	if err := SetCache(ctx, s.redisClient, cacheKey, resp, constants.TTL_AVAILABILITY); err != nil {
		s.logger.Warn("Failed to cache availability", "space_id", spaceID, "error", err)
	}
	return resp, nil
}
