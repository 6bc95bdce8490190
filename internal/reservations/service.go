package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"venueflow/internal/pricing"
	"venueflow/internal/spaces"
	"venueflow/pkg/logger"
)

// SpaceReader is the slice of the spaces package this service needs
type SpaceReader interface {
	GetSpaceByID(ctx context.Context, id string) (*spaces.Space, error)
}

// PromoRedeemer commits and rolls back promo redemptions exactly once
// per reservation
type PromoRedeemer interface {
	RedeemPromo(ctx context.Context, spaceID uuid.UUID, code string, now time.Time) error
	ReleasePromo(ctx context.Context, spaceID uuid.UUID, code string) error
}

// PaymentOrders creates gateway orders carrying the reservation reference
// in order metadata. Implemented by the payments client.
type PaymentOrders interface {
	CreateOrder(ctx context.Context, reservation *Reservation) (orderID string, err error)
}

// Notifier publishes lifecycle events after committed transitions.
// Publish failures never roll back a transition.
type Notifier interface {
	PublishReservationEvent(ctx context.Context, eventType string, reservation *Reservation)
}

// NoopNotifier is used when Kafka is disabled
type NoopNotifier struct{}

func (NoopNotifier) PublishReservationEvent(context.Context, string, *Reservation) {}

// slotLocker serializes booking writers on a space. Best-effort; the
// database exclusion constraint stays the authoritative guard.
type slotLocker interface {
	Acquire(ctx context.Context, spaceID uuid.UUID) (release func(), ok bool, err error)
}

type Service interface {
	Create(ctx context.Context, userID string, req CreateReservationRequest) (*CreateReservationResponse, error)
	GetByID(ctx context.Context, userID, role, id string) (*Reservation, error)
	ListMine(ctx context.Context, userID string, filters ListFilters) (*PaginatedReservations, error)
	Cancel(ctx context.Context, userID, id string) (*Reservation, error)

	Approve(ctx context.Context, ownerID, id string) (*Reservation, error)
	Reject(ctx context.Context, ownerID, id string) (*Reservation, error)

	CheckIn(ctx context.Context, id string) (*Reservation, error)
	CheckOut(ctx context.Context, id string) (*Reservation, error)
	MarkNoShow(ctx context.Context, id string) (*Reservation, error)

	// Webhook-driven transitions, called by the payment reconciler
	ConfirmPayment(ctx context.Context, orderID, paymentID string) error
	FailPayment(ctx context.Context, orderID string) error
	CompleteRefund(ctx context.Context, orderID string) error

	StartExpirySweeper(ctx context.Context)
}

type service struct {
	repo     Repository
	spaces   SpaceReader
	promos   PromoRedeemer
	machine  *Machine
	lock     slotLocker
	payments PaymentOrders
	notifier Notifier
	logger   *logger.Logger

	pendingPaymentTTL time.Duration
	sweepInterval     time.Duration
	redisClient       *redis.Client
}

type ServiceConfig struct {
	CheckInTolerance  time.Duration
	SlotLockTTL       time.Duration
	PendingPaymentTTL time.Duration
	SweepInterval     time.Duration
}

func NewService(
	repo Repository,
	spaceReader SpaceReader,
	promos PromoRedeemer,
	payments PaymentOrders,
	notifier Notifier,
	redisClient *redis.Client,
	cfg ServiceConfig,
	log *logger.Logger,
) Service {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if cfg.PendingPaymentTTL <= 0 {
		cfg.PendingPaymentTTL = 30 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}

	return &service{
		repo:              repo,
		spaces:            spaceReader,
		promos:            promos,
		machine:           NewMachine(cfg.CheckInTolerance),
		lock:              NewSpaceLock(redisClient, cfg.SlotLockTTL),
		payments:          payments,
		notifier:          notifier,
		logger:            log,
		pendingPaymentTTL: cfg.PendingPaymentTTL,
		sweepInterval:     cfg.SweepInterval,
		redisClient:       redisClient,
	}
}

// Create is the booking entry point: re-validates the interval at write
// time, prices it, and persists atomically with the overlap check
func (s *service) Create(ctx context.Context, userID string, req CreateReservationRequest) (*CreateReservationResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID", ErrValidation)
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start_time", ErrValidation)
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end_time", ErrValidation)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end_time must be after start_time", ErrValidation)
	}

	now := time.Now().UTC()
	if start.Before(now) {
		return nil, fmt.Errorf("%w: start_time is in the past", ErrValidation)
	}

	space, err := s.spaces.GetSpaceByID(ctx, req.SpaceID)
	if err != nil {
		return nil, err
	}
	if !space.IsActive {
		return nil, fmt.Errorf("%w: space is not active", ErrValidation)
	}

	if err := s.validateWithinOperatingWindow(space, start, end); err != nil {
		return nil, err
	}

	// Fresh availability read at the moment of the write; the insert
	// below is the authoritative guard
	blocked, err := s.repo.ListOverlapping(ctx, space.ID, start, end, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if len(blocked) > 0 {
		return nil, ErrSlotUnavailable
	}

	quote, err := pricing.Compute(space.PricingConfig(), start, end, req.PromoCode, now)
	if err != nil {
		return nil, err
	}

	code, err := GenerateBookingCode(now)
	if err != nil {
		return nil, err
	}

	reservation := &Reservation{
		ID:               uuid.New(),
		BookingCode:      code,
		SpaceID:          space.ID,
		UserID:           uid,
		StartTime:        start,
		EndTime:          end,
		Status:           InitialStatus(space.IsFree()),
		PaymentStatus:    InitialPaymentStatus(space.IsFree()),
		TotalAmount:      quote.TotalPrice,
		OriginalAmount:   quote.OriginalPrice,
		Currency:         quote.Currency,
		PricingBreakdown: quote.Breakdown,
		PromoCode:        req.PromoCode,
	}

	release, err := s.acquireSlotLock(ctx, space.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.repo.InsertIfNoOverlap(ctx, reservation); err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, space.ID, start, end)
	s.logger.LogReservationCreated(ctx, reservation.ID.String(), space.ID.String(), userID, string(reservation.Status))
	s.notifier.PublishReservationEvent(ctx, "reservation.created", reservation)

	resp := &CreateReservationResponse{Reservation: reservation}

	if reservation.Status == StatusPendingPayment && s.payments != nil {
		orderID, err := s.payments.CreateOrder(ctx, reservation)
		if err != nil {
			// The reservation stays pending; the expiry sweeper cancels
			// it if the client never retries checkout
			s.logger.ErrorWithContext(ctx, "Failed to create payment order", err, map[string]interface{}{
				"reservation_id": reservation.ID.String(),
			})
			return resp, nil
		}
		if err := s.repo.SetPaymentOrder(ctx, reservation.ID, orderID); err != nil {
			s.logger.ErrorWithContext(ctx, "Failed to record payment order", err, map[string]interface{}{
				"reservation_id": reservation.ID.String(),
				"order_id":       orderID,
			})
			return resp, nil
		}
		reservation.PaymentOrderID = &orderID
		resp.PaymentOrderID = orderID
	}

	return resp, nil
}

// Contended space locks are retried briefly before the slot is
// reported busy; the holder is another writer mid-insert, not
// necessarily an overlapping interval
const (
	lockAcquireAttempts = 3
	lockRetryDelay      = 100 * time.Millisecond
)

func (s *service) acquireSlotLock(ctx context.Context, spaceID uuid.UUID) (func(), error) {
	for attempt := 1; ; attempt++ {
		release, ok, err := s.lock.Acquire(ctx, spaceID)
		if err != nil {
			return nil, err
		}
		if ok {
			return release, nil
		}
		if attempt >= lockAcquireAttempts {
			return nil, ErrSlotUnavailable
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
}

func (s *service) validateWithinOperatingWindow(space *spaces.Space, start, end time.Time) error {
	if len(space.OperatingHours) == 0 {
		return nil
	}

	// Multi-day intervals (daily/monthly pricing) are validated per
	// boundary day; the window applies to same-day bookings
	if start.Year() != end.Year() || start.YearDay() != end.YearDay() {
		return nil
	}

	open, close, ok := space.OperatingHours.WindowFor(start)
	if !ok {
		return fmt.Errorf("%w: space is closed on the requested day", ErrValidation)
	}
	if start.Before(open) || end.After(close) {
		return fmt.Errorf("%w: requested interval is outside operating hours", ErrValidation)
	}
	return nil
}

func (s *service) invalidateAvailability(ctx context.Context, spaceID uuid.UUID, start, end time.Time) {
	if s.redisClient == nil {
		return
	}
	for day := start.Truncate(24 * time.Hour); !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := spaces.InvalidateAvailabilityCache(ctx, s.redisClient, spaceID.String(), day); err != nil {
			s.logger.Warn("Failed to invalidate availability cache", "space_id", spaceID.String(), "error", err)
		}
	}
}

func (s *service) GetByID(ctx context.Context, userID, role, id string) (*Reservation, error) {
	reservationID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reservation ID", ErrValidation)
	}

	reservation, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if role == "CONSUMER" && reservation.UserID.String() != userID {
		return nil, ErrNotOwned
	}
	return reservation, nil
}

func (s *service) ListMine(ctx context.Context, userID string, filters ListFilters) (*PaginatedReservations, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID", ErrValidation)
	}
	return s.repo.ListByUser(ctx, uid, filters.Page, filters.Limit)
}

// Cancel is the consumer-initiated cancellation. Confirmed reservations
// can only be cancelled before their start time.
func (s *service) Cancel(ctx context.Context, userID, id string) (*Reservation, error) {
	reservation, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if reservation.Status == StatusConfirmed && !now.Before(reservation.StartTime) {
		return nil, fmt.Errorf("%w: confirmed reservations can only be cancelled before start", ErrInvalidStateTransition)
	}

	return s.applyTransition(ctx, reservation, StatusCancelled, "user_cancellation", now)
}

func (s *service) Approve(ctx context.Context, ownerID, id string) (*Reservation, error) {
	reservation, err := s.getForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status != StatusPendingApproval {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, reservation.Status, StatusConfirmed)
	}

	now := time.Now().UTC()
	updated, err := s.applyTransition(ctx, reservation, StatusConfirmed, "owner_approval", now)
	if err != nil {
		return nil, err
	}

	if updated.PromoCode != "" {
		if err := s.promos.RedeemPromo(ctx, updated.SpaceID, updated.PromoCode, now); err != nil {
			s.logger.Warn("Promo redemption failed after approval",
				"reservation_id", updated.ID.String(), "promo_code", updated.PromoCode, "error", err)
		}
	}
	return updated, nil
}

func (s *service) Reject(ctx context.Context, ownerID, id string) (*Reservation, error) {
	reservation, err := s.getForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.applyTransition(ctx, reservation, StatusRejected, "owner_rejection", time.Now().UTC())
}

func (s *service) CheckIn(ctx context.Context, id string) (*Reservation, error) {
	reservation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.applyTransition(ctx, reservation, StatusCheckedIn, "staff_check_in", time.Now().UTC())
}

func (s *service) CheckOut(ctx context.Context, id string) (*Reservation, error) {
	reservation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.applyTransition(ctx, reservation, StatusCompleted, "staff_check_out", time.Now().UTC())
}

func (s *service) MarkNoShow(ctx context.Context, id string) (*Reservation, error) {
	reservation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.applyTransition(ctx, reservation, StatusNoShow, "staff_no_show", time.Now().UTC())
}

// ConfirmPayment drives pending_payment -> confirmed off a verified
// payment.captured event. Duplicate deliveries are acknowledged without
// reapplying side effects.
func (s *service) ConfirmPayment(ctx context.Context, orderID, paymentID string) error {
	reservation, err := s.repo.GetByPaymentOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	// Idempotent replay: already confirmed by this payment
	if reservation.Status == StatusConfirmed && reservation.PaymentStatus == PaymentSuccess {
		return nil
	}
	if reservation.Status != StatusPendingPayment {
		return fmt.Errorf("%w: capture for reservation in %s", ErrInvalidStateTransition, reservation.Status)
	}

	now := time.Now().UTC()
	if err := s.machine.Confirm(reservation, now); err != nil {
		return err
	}

	err = s.repo.UpdateStatusCAS(ctx, reservation.ID, StatusPendingPayment, map[string]interface{}{
		"status":           StatusConfirmed,
		"payment_status":   PaymentSuccess,
		"payment_id":       paymentID,
		"breakdown_frozen": true,
		"updated_at":       now,
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			// Lost the race; re-read to decide whether the winner was a
			// duplicate of this same capture
			current, readErr := s.repo.GetByPaymentOrderID(ctx, orderID)
			if readErr == nil && current.Status == StatusConfirmed {
				return nil
			}
		}
		return err
	}

	if reservation.PromoCode != "" {
		if err := s.promos.RedeemPromo(ctx, reservation.SpaceID, reservation.PromoCode, now); err != nil {
			s.logger.Warn("Promo redemption failed after capture",
				"reservation_id", reservation.ID.String(), "promo_code", reservation.PromoCode, "error", err)
		}
	}

	s.logger.LogReservationTransition(ctx, reservation.ID.String(), string(StatusPendingPayment), string(StatusConfirmed), "payment_captured")
	s.notifier.PublishReservationEvent(ctx, "reservation.confirmed", reservation)
	return nil
}

// FailPayment drives pending_payment -> cancelled off payment.failed
func (s *service) FailPayment(ctx context.Context, orderID string) error {
	reservation, err := s.repo.GetByPaymentOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	// Idempotent replay
	if reservation.Status == StatusCancelled && reservation.PaymentStatus == PaymentFailed {
		return nil
	}
	if reservation.Status != StatusPendingPayment {
		return fmt.Errorf("%w: failure for reservation in %s", ErrInvalidStateTransition, reservation.Status)
	}

	now := time.Now().UTC()
	err = s.repo.UpdateStatusCAS(ctx, reservation.ID, StatusPendingPayment, map[string]interface{}{
		"status":         StatusCancelled,
		"payment_status": PaymentFailed,
		"updated_at":     now,
	})
	if err != nil {
		return err
	}

	s.invalidateAvailability(ctx, reservation.SpaceID, reservation.StartTime, reservation.EndTime)
	s.logger.LogReservationTransition(ctx, reservation.ID.String(), string(StatusPendingPayment), string(StatusCancelled), "payment_failed")
	s.notifier.PublishReservationEvent(ctx, "reservation.payment_failed", reservation)
	return nil
}

// CompleteRefund records refund.processed. Only the payment status
// changes; the lifecycle state stays where it is.
func (s *service) CompleteRefund(ctx context.Context, orderID string) error {
	reservation, err := s.repo.GetByPaymentOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	if reservation.PaymentStatus == PaymentRefunded {
		return nil
	}
	if reservation.PaymentStatus != PaymentSuccess {
		return fmt.Errorf("%w: refund for reservation with payment status %s", ErrInvalidStateTransition, reservation.PaymentStatus)
	}

	err = s.repo.UpdateStatusCAS(ctx, reservation.ID, reservation.Status, map[string]interface{}{
		"payment_status": PaymentRefunded,
		"updated_at":     time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	// The redemption counted at capture is handed back with the money
	if reservation.PromoCode != "" {
		if err := s.promos.ReleasePromo(ctx, reservation.SpaceID, reservation.PromoCode); err != nil {
			s.logger.Warn("Promo release failed after refund",
				"reservation_id", reservation.ID.String(), "promo_code", reservation.PromoCode, "error", err)
		}
	}

	s.notifier.PublishReservationEvent(ctx, "reservation.refunded", reservation)
	return nil
}

// StartExpirySweeper cancels reservations stuck in pending_payment past
// the TTL. The CAS guard means a capture that lands first wins and the
// sweep becomes a no-op.
func (s *service) StartExpirySweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweepExpired(ctx)
			}
		}
	}()
}

func (s *service) sweepExpired(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.pendingPaymentTTL)
	stuck, err := s.repo.ListStuckPending(ctx, cutoff, 100)
	if err != nil {
		s.logger.Error("Expiry sweep failed to list stuck reservations", "error", err)
		return
	}

	for i := range stuck {
		reservation := &stuck[i]
		err := s.repo.UpdateStatusCAS(ctx, reservation.ID, StatusPendingPayment, map[string]interface{}{
			"status":     StatusCancelled,
			"updated_at": time.Now().UTC(),
		})
		if err != nil {
			if errors.Is(err, ErrConflict) {
				continue // a capture won the race
			}
			s.logger.Error("Expiry sweep failed to cancel reservation",
				"reservation_id", reservation.ID.String(), "error", err)
			continue
		}

		s.invalidateAvailability(ctx, reservation.SpaceID, reservation.StartTime, reservation.EndTime)
		s.logger.LogReservationTransition(ctx, reservation.ID.String(), string(StatusPendingPayment), string(StatusCancelled), "payment_timeout")
		s.notifier.PublishReservationEvent(ctx, "reservation.expired", reservation)
	}
}

// applyTransition runs the state machine in memory, persists with the
// matching CAS guard, and publishes the lifecycle event
func (s *service) applyTransition(ctx context.Context, reservation *Reservation, to Status, trigger string, now time.Time) (*Reservation, error) {
	from := reservation.Status
	if err := s.machine.Transition(reservation, to, now); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":     to,
		"updated_at": now,
	}
	if reservation.CheckInTime != nil && to == StatusCheckedIn {
		updates["check_in_time"] = *reservation.CheckInTime
	}
	if reservation.CheckOutTime != nil && to == StatusCompleted {
		updates["check_out_time"] = *reservation.CheckOutTime
	}

	if err := s.repo.UpdateStatusCAS(ctx, reservation.ID, from, updates); err != nil {
		return nil, err
	}

	if from.IsBlocking() && !to.IsBlocking() {
		s.invalidateAvailability(ctx, reservation.SpaceID, reservation.StartTime, reservation.EndTime)
	}

	s.logger.LogReservationTransition(ctx, reservation.ID.String(), string(from), string(to), trigger)
	s.notifier.PublishReservationEvent(ctx, "reservation."+string(to), reservation)
	return reservation, nil
}

func (s *service) get(ctx context.Context, id string) (*Reservation, error) {
	reservationID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid reservation ID", ErrValidation)
	}
	return s.repo.GetByID(ctx, reservationID)
}

func (s *service) getOwned(ctx context.Context, userID, id string) (*Reservation, error) {
	reservation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.UserID.String() != userID {
		return nil, ErrNotOwned
	}
	return reservation, nil
}

func (s *service) getForOwner(ctx context.Context, ownerID, id string) (*Reservation, error) {
	reservation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	space, err := s.spaces.GetSpaceByID(ctx, reservation.SpaceID.String())
	if err != nil {
		return nil, err
	}
	if space.OwnerID.String() != ownerID {
		return nil, ErrNotOwned
	}
	return reservation, nil
}
