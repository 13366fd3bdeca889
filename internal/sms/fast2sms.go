package sms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const fast2smsAPI = "https://www.fast2sms.com/dev/bulkV2"

// Sender delivers short text messages; used only for OTP delivery.
// A nil Sender must be treated as "dispatch unavailable" by callers.
type Sender interface {
	SendText(ctx context.Context, mobile, body string) error
}

// Fast2SMSClient sends SMS through the Fast2SMS bulk API. Requests carry a
// bounded timeout so a slow provider degrades to a clean error, not a hang.
type Fast2SMSClient struct {
	APIKey string
	client *resty.Client
}

func NewFast2SMSClient(apiKey string) *Fast2SMSClient {
	return &Fast2SMSClient{
		APIKey: apiKey,
		client: resty.New().SetTimeout(10 * time.Second),
	}
}

type fast2smsResponse struct {
	Return    bool     `json:"return"`
	RequestID string   `json:"request_id"`
	Message   []string `json:"message"`
}

// SendText dispatches one message to a 10-digit mobile number.
func (f *Fast2SMSClient) SendText(ctx context.Context, mobile, body string) error {
	if f.APIKey == "" {
		return errors.New("sms: missing API key")
	}
	var out fast2smsResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("authorization", f.APIKey).
		SetQueryParams(map[string]string{
			"route":   "q",
			"message": body,
			"numbers": mobile,
			"flash":   "0",
		}).
		SetResult(&out).
		Get(fast2smsAPI)
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 || !out.Return {
		return fmt.Errorf("sms: dispatch failed, status %d", resp.StatusCode())
	}
	return nil
}
