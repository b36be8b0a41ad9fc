package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/luminapay/railsync/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
)

// PriceFeedClient fetches spot prices from a JSON price API shaped like the
// common "symbols versus quote" endpoints (GET /v1/prices?symbols=...&vs=...).
type PriceFeedClient struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ gateways.RateProvider = (*PriceFeedClient)(nil)

// NewPriceFeedClient creates a provider for the given endpoint. A zero timeout
// defaults to 10s.
func NewPriceFeedClient(name, baseURL, apiKey string, timeout time.Duration) *PriceFeedClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PriceFeedClient{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *PriceFeedClient) Name() string {
	return p.name
}

// priceResponse is the wire shape of the feed: quote-currency price per symbol.
type priceResponse struct {
	Prices map[string]decimal.Decimal `json:"prices"`
	AsOf   time.Time                  `json:"asOf"`
}

func (p *PriceFeedClient) fetch(ctx context.Context, symbols []string, quote string) (*priceResponse, error) {
	q := url.Values{}
	q.Set("symbols", strings.Join(symbols, ","))
	q.Set("vs", quote)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/prices?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price feed %s request failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price feed %s returned status %d", p.name, resp.StatusCode)
	}

	var body priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode price feed %s response: %w", p.name, err)
	}
	return &body, nil
}

// GetRate fetches the current rate for one pair.
func (p *PriceFeedClient) GetRate(ctx context.Context, base, quote string) (*domain.ExchangeRate, error) {
	rates, err := p.GetRates(ctx, []string{base}, quote)
	if err != nil {
		return nil, err
	}
	rate, ok := rates[base]
	if !ok {
		return nil, fmt.Errorf("price feed %s has no price for %s/%s", p.name, base, quote)
	}
	return rate, nil
}

// GetRates fetches several bases against one quote in a single upstream call.
func (p *PriceFeedClient) GetRates(ctx context.Context, bases []string, quote string) (map[string]*domain.ExchangeRate, error) {
	body, err := p.fetch(ctx, bases, quote)
	if err != nil {
		return nil, err
	}

	observedAt := body.AsOf
	if observedAt.IsZero() {
		observedAt = time.Now()
	}

	out := make(map[string]*domain.ExchangeRate, len(bases))
	for _, base := range bases {
		price, ok := body.Prices[base]
		if !ok || price.IsZero() {
			continue
		}
		out[base] = &domain.ExchangeRate{
			BaseCurrency:  base,
			QuoteCurrency: quote,
			Rate:          price,
			Source:        p.name,
			ObservedAt:    observedAt,
		}
	}
	return out, nil
}

// Healthy probes the feed with a lightweight request.
func (p *PriceFeedClient) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/health", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
