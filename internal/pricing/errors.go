package pricing

import "errors"

var (
	// ErrValidation covers bad input shape or range: zero/negative duration,
	// below minimum booking hours, unknown pricing type
	ErrValidation = errors.New("invalid booking interval")

	// ErrPromoInvalid covers unknown, inactive, expired or exhausted codes
	ErrPromoInvalid = errors.New("promo code is not valid")
)
