package payclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"agni/models"
	"agni/upi"
)

var (
	// ErrVerificationTimeout is returned when the attempt cap is reached
	// before the payment completes (~2 minutes at the defaults).
	ErrVerificationTimeout = errors.New("payment verification timeout")
	ErrInvalidUpiID        = upi.ErrInvalidID
)

const (
	DefaultInterval    = 6 * time.Second
	DefaultMaxAttempts = 20
)

// Client talks to the booking backend on behalf of the checkout flow.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateOrderRequest mirrors the POST /api/orders payload.
type CreateOrderRequest struct {
	OrderID        string                `json:"orderId"`
	Amount         float64               `json:"amount"`
	BookingDetails models.BookingDetails `json:"bookingDetails"`
	AddressData    models.AddressData    `json:"addressData"`
	PaymentMethod  string                `json:"paymentMethod"`
	CustomerUpiID  string                `json:"customerUpiId,omitempty"`
	Status         string                `json:"status,omitempty"`
}

type CreateOrderResponse struct {
	Success bool      `json:"success"`
	OrderID string    `json:"orderId"`
	Payment upi.Links `json:"payment"`
	QR      string    `json:"qr"`
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (CreateOrderResponse, error) {
	var resp CreateOrderResponse

	if req.PaymentMethod == models.MethodUPI {
		// Fail fast on a malformed handle; no network call is made.
		if err := upi.ValidateID(req.CustomerUpiID); err != nil {
			return resp, err
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return resp, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return resp, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return resp, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		return resp, fmt.Errorf("create order: unexpected status %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// VerifyPayment asks the backend for the cached payment status.
func (c *Client) VerifyPayment(ctx context.Context, orderID string) (string, error) {
	body, _ := json.Marshal(map[string]string{"orderId": orderID})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/payments/verify", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	var out struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Status, nil
}
