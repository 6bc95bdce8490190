package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"venueflow/internal/reservations"
	"venueflow/internal/shared/config"
)

// Client talks to the payment gateway's REST API. Only order creation
// matters to the booking core; the order carries the reservation id in
// its notes so webhooks can be mapped back.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewClient(cfg config.PaymentConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateOrder registers a gateway order for a reservation. Amount is
// converted to minor units (paise).
func (c *Client) CreateOrder(ctx context.Context, reservation *reservations.Reservation) (string, error) {
	body := createOrderRequest{
		Amount:   int64(reservation.TotalAmount * 100),
		Currency: reservation.Currency,
		Receipt:  reservation.BookingCode,
		Notes: map[string]string{
			"reservation_id": reservation.ID.String(),
			"space_id":       reservation.SpaceID.String(),
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: gateway returned %d: %s", ErrOrderCreation, resp.StatusCode, raw)
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}
	if order.ID == "" {
		return "", fmt.Errorf("%w: gateway response missing order id", ErrOrderCreation)
	}
	return order.ID, nil
}
