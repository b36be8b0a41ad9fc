package accounting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/luminapay/railsync/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
)

// Client talks to the external accounting system's JSON API. Invoice and
// payment creation carry an idempotency key so a job processed twice by racing
// workers cannot create duplicates remotely.
type Client struct {
	baseURL     string
	clientID    string
	clientToken string
	http        *http.Client
}

var _ gateways.AccountingGateway = (*Client)(nil)

// NewClient creates an accounting API client. A zero timeout defaults to 30s.
func NewClient(baseURL, clientID, clientToken string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		clientID:    clientID,
		clientToken: clientToken,
		http:        &http.Client{Timeout: timeout},
	}
}

type invoiceRequest struct {
	Reference   string          `json:"reference"`
	ContactName string          `json:"contactName"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	IssuedAt    time.Time       `json:"issuedAt"`
}

type paymentRequest struct {
	InvoiceID string          `json:"invoiceID"`
	AccountID string          `json:"accountID"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	PaidAt    time.Time       `json:"paidAt"`
	Narration string          `json:"narration"`
}

type createdResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// CreateInvoice creates a draft invoice and returns its remote identifier.
func (c *Client) CreateInvoice(ctx context.Context, invoice gateways.AccountingInvoice) (string, error) {
	body := invoiceRequest{
		Reference:   invoice.Reference,
		ContactName: invoice.ContactName,
		Description: invoice.Description,
		Amount:      invoice.Amount,
		Currency:    invoice.CurrencyCode,
		IssuedAt:    invoice.IssuedAt,
	}
	return c.post(ctx, "/v2/invoices", invoice.Reference, body)
}

// RecordPayment records a payment against an invoice on the mapped clearing
// account and returns its remote identifier.
func (c *Client) RecordPayment(ctx context.Context, payment gateways.AccountingPayment) (string, error) {
	body := paymentRequest{
		InvoiceID: payment.InvoiceID,
		AccountID: payment.AccountID,
		Amount:    payment.Amount,
		Currency:  payment.CurrencyCode,
		PaidAt:    payment.PaidAt,
		Narration: payment.Narration,
	}
	return c.post(ctx, "/v2/payments", payment.IdempotencyKey, body)
}

func (c *Client) post(ctx context.Context, path, idempotencyKey string, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode accounting request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to build accounting request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)
	req.Header.Set("X-Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.clientToken)

	resp, err := c.http.Do(req)
	if err != nil {
		// Transport failures phrase themselves so the queue's classifier
		// buckets them as NETWORK.
		return "", fmt.Errorf("network error calling accounting API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var created createdResponse
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			return "", fmt.Errorf("failed to decode accounting response: %w", err)
		}
		if created.ID == "" {
			return "", fmt.Errorf("accounting API returned an empty id")
		}
		return created.ID, nil
	}

	return "", c.statusError(resp)
}

// statusError turns a non-2xx response into an error whose message the retry
// classifier can bucket deterministically.
func (c *Client) statusError(resp *http.Response) error {
	detail := ""
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		var body errorResponse
		if json.Unmarshal(raw, &body) == nil && body.Message != "" {
			detail = ": " + body.Message
		}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("accounting API resource not found%s", detail)
	case http.StatusUnauthorized:
		return fmt.Errorf("accounting API request unauthorized%s", detail)
	case http.StatusForbidden:
		return fmt.Errorf("accounting API request forbidden%s", detail)
	case http.StatusBadRequest:
		return fmt.Errorf("accounting API bad request%s", detail)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("accounting API validation failed%s", detail)
	case http.StatusTooManyRequests:
		return fmt.Errorf("accounting API rate limit exceeded%s", detail)
	default:
		return fmt.Errorf("accounting API error: status %d%s", resp.StatusCode, detail)
	}
}
