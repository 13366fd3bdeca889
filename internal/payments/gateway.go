package payments

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
)

const razorpayOrdersAPI = "https://api.razorpay.com/v1/orders"

// Order is the gateway order reference handed to the client for checkout.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
}

// OrderCreator abstracts gateway order creation for testability.
type OrderCreator interface {
	CreateOrder(ctx context.Context, amount float64, receiptRef string) (*Order, error)
}

// RazorpayClient creates orders against the Razorpay orders API with a
// bounded timeout.
type RazorpayClient struct {
	KeyID     string
	KeySecret string
	client    *resty.Client
}

func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		KeyID:     keyID,
		KeySecret: keySecret,
		client:    resty.New().SetTimeout(15 * time.Second),
	}
}

// CreateOrder requests an order for the rupee amount (converted to paise).
func (r *RazorpayClient) CreateOrder(ctx context.Context, amount float64, receiptRef string) (*Order, error) {
	var out Order
	resp, err := r.client.R().
		SetContext(ctx).
		SetBasicAuth(r.KeyID, r.KeySecret).
		SetBody(map[string]interface{}{
			"amount":   int64(math.Round(amount * 100)),
			"currency": "INR",
			"receipt":  receiptRef,
		}).
		SetResult(&out).
		Post(razorpayOrdersAPI)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 || out.ID == "" {
		return nil, fmt.Errorf("gateway order create failed: status %d", resp.StatusCode())
	}
	return &out, nil
}
