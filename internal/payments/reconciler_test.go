package payments

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venueflow/pkg/logger"
)

const testSecret = "whsec_test"

type fakeTransitions struct {
	mu        sync.Mutex
	confirmed []string
	failed    []string
	refunded  []string
	err       error
}

func (f *fakeTransitions) ConfirmPayment(_ context.Context, orderID, paymentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.confirmed = append(f.confirmed, orderID+":"+paymentID)
	return nil
}

func (f *fakeTransitions) FailPayment(_ context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.failed = append(f.failed, orderID)
	return nil
}

func (f *fakeTransitions) CompleteRefund(_ context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.refunded = append(f.refunded, orderID)
	return nil
}

func capturedPayload(orderID, paymentID string) []byte {
	return []byte(fmt.Sprintf(
		`{"entity":"event","event":"payment.captured","payload":{"payment":{"entity":{"id":"%s","order_id":"%s","amount":100000,"notes":{"reservation_id":"res-1"}}}}}`,
		paymentID, orderID))
}

func newTestReconciler(transitions *fakeTransitions) *Reconciler {
	return NewReconciler(testSecret, transitions, logger.New())
}

func TestHandleWebhook_Captured(t *testing.T) {
	transitions := &fakeTransitions{}
	r := newTestReconciler(transitions)

	body := capturedPayload("order_1", "pay_1")
	err := r.HandleWebhook(context.Background(), body, SignPayload(body, testSecret))

	require.NoError(t, err)
	assert.Equal(t, []string{"order_1:pay_1"}, transitions.confirmed)
}

func TestHandleWebhook_InvalidSignatureDropped(t *testing.T) {
	transitions := &fakeTransitions{}
	r := newTestReconciler(transitions)

	body := capturedPayload("order_1", "pay_1")
	err := r.HandleWebhook(context.Background(), body, SignPayload(body, "wrong-secret"))

	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, transitions.confirmed, "no transition may run before verification")
}

func TestHandleWebhook_Failed(t *testing.T) {
	transitions := &fakeTransitions{}
	r := newTestReconciler(transitions)

	body := []byte(`{"entity":"event","event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_2","order_id":"order_2"}}}}`)
	require.NoError(t, r.HandleWebhook(context.Background(), body, SignPayload(body, testSecret)))
	assert.Equal(t, []string{"order_2"}, transitions.failed)
}

func TestHandleWebhook_RefundProcessed(t *testing.T) {
	transitions := &fakeTransitions{}
	r := newTestReconciler(transitions)

	body := []byte(`{"entity":"event","event":"refund.processed","payload":{"payment":{"entity":{"id":"pay_3","order_id":"order_3"}},"refund":{"entity":{"id":"rfnd_1","payment_id":"pay_3","amount":100000}}}}`)
	require.NoError(t, r.HandleWebhook(context.Background(), body, SignPayload(body, testSecret)))
	assert.Equal(t, []string{"order_3"}, transitions.refunded)
}

func TestHandleWebhook_DuplicateDeliveryAppliesTwiceSafely(t *testing.T) {
	// The reconciler forwards both deliveries; idempotency lives in the
	// transitions it drives
	transitions := &fakeTransitions{}
	r := newTestReconciler(transitions)

	body := capturedPayload("order_1", "pay_1")
	sig := SignPayload(body, testSecret)

	require.NoError(t, r.HandleWebhook(context.Background(), body, sig))
	require.NoError(t, r.HandleWebhook(context.Background(), body, sig))
	assert.Len(t, transitions.confirmed, 2)
}

func TestHandleWebhook_UnknownEventAcked(t *testing.T) {
	transitions := &fakeTransitions{}
	r := newTestReconciler(transitions)

	body := []byte(`{"entity":"event","event":"order.paid","payload":{"payment":{"entity":{"id":"pay_4","order_id":"order_4"}}}}`)
	require.NoError(t, r.HandleWebhook(context.Background(), body, SignPayload(body, testSecret)))
	assert.Empty(t, transitions.confirmed)
	assert.Empty(t, transitions.failed)
}

func TestHandleWebhook_ProcessingErrorStillAcked(t *testing.T) {
	transitions := &fakeTransitions{err: fmt.Errorf("reservation not found")}
	r := newTestReconciler(transitions)

	body := capturedPayload("order_unknown", "pay_9")
	err := r.HandleWebhook(context.Background(), body, SignPayload(body, testSecret))
	assert.NoError(t, err, "post-verification errors are acknowledged and flagged")
}

func TestHandleWebhook_MalformedPayloadRejected(t *testing.T) {
	transitions := &fakeTransitions{}
	r := newTestReconciler(transitions)

	body := []byte(`{"event":`)
	err := r.HandleWebhook(context.Background(), body, SignPayload(body, testSecret))
	assert.ErrorIs(t, err, ErrMalformedPayload)

	body = []byte(`{"entity":"event","event":"payment.captured","payload":{}}`)
	err = r.HandleWebhook(context.Background(), body, SignPayload(body, testSecret))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
