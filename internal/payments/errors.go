package payments

import "errors"

var (
	// ErrInvalidSignature means the webhook body failed HMAC
	// verification. The event is dropped; the gateway owns redelivery.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	ErrMalformedPayload = errors.New("malformed webhook payload")
	ErrOrderCreation    = errors.New("payment order creation failed")
)
