package services

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/quangdo/folio/internal/apperrors"
)

type staticRateProvider struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal
}

// NewStaticRateProvider creates a rate provider backed by an in-memory
// table of fixed rates. Identity rates are always available.
func NewStaticRateProvider() *staticRateProvider {
	return &staticRateProvider{rates: make(map[string]decimal.Decimal)}
}

// NewStaticRateProviderFromEnv seeds a static provider from the
// FX_RATES environment variable, e.g. "USD/CNY=7.25,HKD/CNY=0.93".
// Malformed entries are skipped.
func NewStaticRateProviderFromEnv() *staticRateProvider {
	provider := NewStaticRateProvider()
	for _, entry := range strings.Split(os.Getenv("FX_RATES"), ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		pair, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		from, to, ok := strings.Cut(pair, "/")
		if !ok {
			continue
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil || !rate.IsPositive() {
			continue
		}
		provider.SetRate(strings.TrimSpace(from), strings.TrimSpace(to), rate)
	}
	return provider
}

// SetRate registers the rate for a currency pair and its inverse.
func (p *staticRateProvider) SetRate(from, to string, rate decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rates[from+"/"+to] = rate
	if rate.IsPositive() {
		p.rates[to+"/"+from] = decimal.NewFromInt(1).Div(rate)
	}
}

// Rate returns the exchange rate from one currency to another. Unknown
// pairs fail with apperrors.ErrMissingExchangeRate.
func (p *staticRateProvider) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	rate, ok := p.rates[from+"/"+to]
	if !ok {
		return decimal.Zero, &apperrors.ErrMissingExchangeRate{From: from, To: to}
	}
	return rate, nil
}
