package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"venueflow/pkg/logger"
)

// Transitions is the slice of the reservations service the reconciler
// drives. All three calls are idempotent against duplicate delivery.
type Transitions interface {
	ConfirmPayment(ctx context.Context, orderID, paymentID string) error
	FailPayment(ctx context.Context, orderID string) error
	CompleteRefund(ctx context.Context, orderID string) error
}

// Reconciler consumes signed at-least-once webhook deliveries and maps
// them onto reservation state transitions
type Reconciler struct {
	secret      string
	transitions Transitions
	logger      *logger.Logger
}

func NewReconciler(webhookSecret string, transitions Transitions, log *logger.Logger) *Reconciler {
	return &Reconciler{
		secret:      webhookSecret,
		transitions: transitions,
		logger:      log,
	}
}

// HandleWebhook verifies and applies one delivery. A non-nil error means
// the event must NOT be acknowledged (bad signature, unparseable body);
// anything that fails after verification is logged for manual
// reconciliation and acknowledged so the gateway stops redelivering.
func (r *Reconciler) HandleWebhook(ctx context.Context, rawBody []byte, signatureHeader string) error {
	if err := VerifySignature(rawBody, signatureHeader, r.secret); err != nil {
		return err
	}

	var event WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	payment := event.Payload.Payment
	if payment == nil || payment.Entity.OrderID == "" {
		return fmt.Errorf("%w: missing payment entity or order id", ErrMalformedPayload)
	}

	orderID := payment.Entity.OrderID
	paymentID := payment.Entity.ID
	r.logger.LogWebhookReceived(ctx, event.Event, paymentID, orderID)

	var err error
	switch event.Event {
	case EventPaymentCaptured:
		err = r.transitions.ConfirmPayment(ctx, orderID, paymentID)
	case EventPaymentFailed:
		err = r.transitions.FailPayment(ctx, orderID)
	case EventRefundProcessed:
		if refund := event.Payload.Refund; refund != nil {
			r.logger.InfoWithContext(ctx, "Refund entity received", map[string]interface{}{
				"refund_id":    refund.Entity.ID,
				"payment_id":   refund.Entity.PaymentID,
				"amount_minor": refund.Entity.Amount,
			})
		}
		err = r.transitions.CompleteRefund(ctx, orderID)
	default:
		// Unknown event types are acknowledged and ignored; the gateway
		// sends more event types than we subscribe to
		return nil
	}

	if err != nil {
		// Signature was valid: ack to stop redelivery storms, flag for
		// manual reconciliation. A stuck reservation is picked up by the
		// expiry sweeper or by re-querying the gateway.
		r.logger.LogWebhookReconciliationFailure(ctx, event.Event, paymentID, orderID, err)
	}
	return nil
}
