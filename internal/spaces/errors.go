package spaces

import "errors"

var (
	ErrSpaceNotFound  = errors.New("space not found")
	ErrSpaceInactive  = errors.New("space is not active")
	ErrPromoExhausted = errors.New("promo code is no longer redeemable")
)
