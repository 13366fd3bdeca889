package emails

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// BrevoSendRequest matches Brevo API v3 send transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoSender       `json:"sender"`
	To          []BrevoTo         `json:"to"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Attachment  []BrevoAttachment `json:"attachment,omitempty"`
}

type BrevoSender struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type BrevoTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type BrevoAttachment struct {
	Content string `json:"content"` // base64
	Name    string `json:"name"`
}

// Sender sends transactional emails. Nil = no-op in wiring.
type Sender interface {
	SendReceipt(ctx context.Context, toEmail, donorName, receiptNumber, filePath string) error
}

// BrevoClient sends emails via Brevo (Sendinblue) API.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@sevatrust.org"
}

// send sends one email via Brevo API, with optional file attachment.
func (c *BrevoClient) send(ctx context.Context, toEmail, subject, html, attachPath string) error {
	if c.APIKey == "" {
		return nil
	}
	body := BrevoSendRequest{
		Sender:      BrevoSender{Email: c.from(), Name: "Seva Trust"},
		To:          []BrevoTo{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
	}
	if attachPath != "" {
		raw, err := os.ReadFile(attachPath)
		if err != nil {
			return err
		}
		body.Attachment = []BrevoAttachment{{
			Content: base64.StdEncoding.EncodeToString(raw),
			Name:    filepath.Base(attachPath),
		}}
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendReceipt emails the donation receipt PDF to a donor who opted in.
func (c *BrevoClient) SendReceipt(ctx context.Context, toEmail, donorName, receiptNumber, filePath string) error {
	if c.APIKey == "" {
		return nil
	}
	if donorName == "" {
		donorName = "Donor"
	}
	subject := fmt.Sprintf("Donation Receipt %s - Seva Trust", receiptNumber)
	return c.send(ctx, toEmail, subject, EmailLayout(receiptContent(donorName, receiptNumber)), filePath)
}

func receiptContent(donorName, receiptNumber string) string {
	return fmt.Sprintf(`
    <h1>Thank You for Your Donation</h1>
    <p>Dear %s,</p>
    <p>Your donation has been received successfully. Your official receipt
    <strong>%s</strong> is attached to this email as a PDF.</p>
    <p>Please retain it for your records; it may be used for tax purposes
    where applicable.</p>
    <p>— Seva Trust</p>
`, EscapeHTML(donorName), EscapeHTML(receiptNumber))
}
