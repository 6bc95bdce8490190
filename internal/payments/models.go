package payments

// Gateway webhook envelope, Razorpay wire shape. Only the fields the
// reconciler reads are modeled.

const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
	EventRefundProcessed = "refund.processed"

	// SignatureHeader carries the hex HMAC of the raw body
	SignatureHeader = "X-Razorpay-Signature"
)

type WebhookEvent struct {
	Entity  string         `json:"entity"`
	Event   string         `json:"event"`
	Payload WebhookPayload `json:"payload"`
}

type WebhookPayload struct {
	Payment *PaymentWrapper `json:"payment,omitempty"`
	Refund  *RefundWrapper  `json:"refund,omitempty"`
}

type PaymentWrapper struct {
	Entity PaymentEntity `json:"entity"`
}

type PaymentEntity struct {
	ID       string            `json:"id"`
	OrderID  string            `json:"order_id"`
	Amount   int64             `json:"amount"` // minor units
	Currency string            `json:"currency"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

type RefundWrapper struct {
	Entity RefundEntity `json:"entity"`
}

type RefundEntity struct {
	ID        string            `json:"id"`
	PaymentID string            `json:"payment_id"`
	Amount    int64             `json:"amount"`
	Notes     map[string]string `json:"notes"`
}

// Order is the gateway's order-creation response
type Order struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}
