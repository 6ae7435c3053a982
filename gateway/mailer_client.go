package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type OrderConfirmationEmail struct {
	To                 string `json:"to"`
	ConfirmationNumber string `json:"confirmation_number"`
	AmountCents        int64  `json:"amount_cents"`
	TicketQuantity     int    `json:"ticket_quantity"`
	IdempotencyKey     string `json:"idempotency_key"`
}

type AttendeeMessageEmail struct {
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	IdempotencyKey string `json:"idempotency_key"`
}

// MailerClient sends transactional mail through the external mailer service.
type MailerClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewMailerClient(baseURL string) *MailerClient {
	if baseURL == "" {
		panic("missing mailer base URL")
	}

	return &MailerClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}
}

func (c *MailerClient) SendOrderConfirmation(ctx context.Context, email OrderConfirmationEmail) error {
	return c.post(ctx, "/emails/order-confirmation", email)
}

func (c *MailerClient) SendAttendeeMessage(ctx context.Context, email AttendeeMessageEmail) error {
	return c.post(ctx, "/emails/attendee-message", email)
}

func (c *MailerClient) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not call mailer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status code for POST %s: %d", path, resp.StatusCode)
	}
	return nil
}
