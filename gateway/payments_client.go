package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"boxoffice/entity"
)

// PaymentsClient charges customers through the external payments provider.
// Charges are routed to the promoter's destination account.
type PaymentsClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPaymentsClient(baseURL string) *PaymentsClient {
	if baseURL == "" {
		panic("missing payments base URL")
	}

	return &PaymentsClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}
}

func (c *PaymentsClient) Charge(ctx context.Context, request entity.ChargeRequest) (entity.Charge, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return entity.Charge{}, fmt.Errorf("could not marshal charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return entity.Charge{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entity.Charge{}, fmt.Errorf("could not call payments provider: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		var charge entity.Charge
		if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
			return entity.Charge{}, fmt.Errorf("could not decode charge: %w", err)
		}
		return charge, nil
	case http.StatusPaymentRequired, http.StatusUnprocessableEntity:
		return entity.Charge{}, entity.ErrInvalidPaymentToken
	default:
		return entity.Charge{}, fmt.Errorf("unexpected status code for POST /charges: %d: %w", resp.StatusCode, entity.ErrPaymentGateway)
	}
}
