package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-faster/errors"
)

// ClientConfig holds connection settings for the processor's REST API.
type ClientConfig struct {
	// BaseURL is the processor API root, e.g. https://api.processor.example.
	BaseURL string
	// SecretKey authenticates requests as a bearer token.
	SecretKey string
	// Timeout bounds each HTTP call. Zero means 10s.
	Timeout time.Duration
}

// Client implements Provider over the processor's JSON REST API.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client
}

var _ Provider = (*Client)(nil)

// NewClient creates a Client for the given processor endpoint.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		secret:  cfg.SecretKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type sessionRequest struct {
	LineItems []lineItemJSON    `json:"line_items"`
	Discounts []string          `json:"discounts,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type lineItemJSON struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int    `json:"quantity"`
}

type sessionResponse struct {
	ID            string            `json:"id"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Metadata      map[string]string `json:"metadata"`
}

type discountRequest struct {
	PercentOff int    `json:"percent_off"`
	Duration   string `json:"duration"`
}

type discountResponse struct {
	ID string `json:"id"`
}

// CreateSession registers a checkout session with the processor and returns
// its opaque identifier.
func (c *Client) CreateSession(ctx context.Context, params CreateSessionParams) (string, error) {
	req := sessionRequest{
		LineItems: make([]lineItemJSON, len(params.LineItems)),
		Metadata:  params.Metadata,
	}
	for i, li := range params.LineItems {
		req.LineItems[i] = lineItemJSON{
			Name:       li.Name,
			UnitAmount: li.UnitAmount,
			Quantity:   li.Quantity,
		}
	}
	if params.DiscountID != "" {
		req.Discounts = []string{params.DiscountID}
	}

	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// RetrieveSession fetches the current state of a checkout session.
func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (*Session, error) {
	var resp sessionResponse
	path := "/v1/checkout/sessions/" + sessionID
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &Session{
		ID:            resp.ID,
		PaymentStatus: resp.PaymentStatus,
		AmountTotal:   resp.AmountTotal,
		Metadata:      resp.Metadata,
	}, nil
}

// CreateDiscount registers a one-off percentage discount with the processor.
func (c *Client) CreateDiscount(ctx context.Context, percentage int) (string, error) {
	var resp discountResponse
	req := discountRequest{PercentOff: percentage, Duration: "once"}
	if err := c.do(ctx, http.MethodPost, "/v1/discounts", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return errors.Wrap(err, "encode request")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(ErrProviderUnavailable, "%s %s: %s", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.Wrapf(ErrProviderUnavailable, "%s %s: status %d", method, path, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
