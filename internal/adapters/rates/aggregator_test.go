package rates_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/luminapay/railsync/internal/adapters/rates"
	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider serves a fixed rate table, or fails every call.
type stubProvider struct {
	name   string
	rates  map[string]string // base -> rate, one quote assumed
	fail   bool
	calls  int
	health bool
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Healthy(ctx context.Context) bool { return s.health }

func (s *stubProvider) GetRate(ctx context.Context, base, quote string) (*domain.ExchangeRate, error) {
	got, err := s.GetRates(ctx, []string{base}, quote)
	if err != nil {
		return nil, err
	}
	rate, ok := got[base]
	if !ok {
		return nil, errors.New("no price for " + base)
	}
	return rate, nil
}

func (s *stubProvider) GetRates(ctx context.Context, bases []string, quote string) (map[string]*domain.ExchangeRate, error) {
	s.calls++
	if s.fail {
		return nil, errors.New(s.name + " unavailable")
	}
	out := make(map[string]*domain.ExchangeRate)
	for _, base := range bases {
		raw, ok := s.rates[base]
		if !ok {
			continue
		}
		out[base] = &domain.ExchangeRate{
			BaseCurrency:  base,
			QuoteCurrency: quote,
			Rate:          decimal.RequireFromString(raw),
			Source:        s.name,
			ObservedAt:    time.Now().UTC(),
		}
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAggregator_GetRate_FirstProviderWins(t *testing.T) {
	primary := &stubProvider{name: "primary", rates: map[string]string{"SOL": "231.50"}}
	backup := &stubProvider{name: "backup", rates: map[string]string{"SOL": "230.00"}}
	agg := rates.NewAggregator(testLogger(), primary, backup)

	rate, err := agg.GetRate(context.Background(), "SOL", "AUD")

	require.NoError(t, err)
	assert.Equal(t, "primary", rate.Source)
	assert.Equal(t, 0, backup.calls)
}

func TestAggregator_GetRate_FallsBackOnFailure(t *testing.T) {
	primary := &stubProvider{name: "primary", fail: true}
	backup := &stubProvider{name: "backup", rates: map[string]string{"SOL": "230.00"}}
	agg := rates.NewAggregator(testLogger(), primary, backup)

	rate, err := agg.GetRate(context.Background(), "SOL", "AUD")

	require.NoError(t, err)
	assert.Equal(t, "backup", rate.Source)
}

func TestAggregator_GetRate_AllProvidersFail(t *testing.T) {
	primary := &stubProvider{name: "primary", fail: true}
	backup := &stubProvider{name: "backup", fail: true}
	agg := rates.NewAggregator(testLogger(), primary, backup)

	_, err := agg.GetRate(context.Background(), "SOL", "AUD")

	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
}

func TestAggregator_GetRates_FillsGapsFromLaterProviders(t *testing.T) {
	primary := &stubProvider{name: "primary", rates: map[string]string{"SOL": "231.50", "USDC": "1.54"}}
	backup := &stubProvider{name: "backup", rates: map[string]string{"AUDD": "0.9998"}}
	agg := rates.NewAggregator(testLogger(), primary, backup)

	got, err := agg.GetRates(context.Background(), []string{"SOL", "USDC", "AUDD", "USDT"}, "AUD")

	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "primary", got["SOL"].Source)
	assert.Equal(t, "backup", got["AUDD"].Source)
	assert.NotContains(t, got, "USDT")
}

func TestAggregator_GetRates_SkipsRemainingProvidersWhenSatisfied(t *testing.T) {
	primary := &stubProvider{name: "primary", rates: map[string]string{"SOL": "231.50"}}
	backup := &stubProvider{name: "backup", rates: map[string]string{"SOL": "230.00"}}
	agg := rates.NewAggregator(testLogger(), primary, backup)

	got, err := agg.GetRates(context.Background(), []string{"SOL"}, "AUD")

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 0, backup.calls)
}

func TestAggregator_GetRates_NothingPriced(t *testing.T) {
	primary := &stubProvider{name: "primary", rates: map[string]string{}}
	agg := rates.NewAggregator(testLogger(), primary)

	_, err := agg.GetRates(context.Background(), []string{"SOL"}, "AUD")

	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
}

func TestAggregator_Healthy(t *testing.T) {
	down := &stubProvider{name: "primary"}
	up := &stubProvider{name: "backup", health: true}

	assert.True(t, rates.NewAggregator(testLogger(), down, up).Healthy(context.Background()))
	assert.False(t, rates.NewAggregator(testLogger(), down).Healthy(context.Background()))
}
