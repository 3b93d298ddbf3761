package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/config"
)

// CoinGeckoSource fetches the EUR value of one ETH from CoinGecko's simple
// price index.
type CoinGeckoSource struct {
	baseURL    string
	httpClient *http.Client
}

// NewCoinGeckoSource creates a CoinGecko-backed rate source.
func NewCoinGeckoSource(baseURL string, timeout time.Duration) *CoinGeckoSource {
	return &CoinGeckoSource{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name implements RateSource.
func (s *CoinGeckoSource) Name() string {
	return config.PriceSourceCoinGecko
}

// FetchRate implements RateSource. A response missing the ethereum/eur entry
// or carrying a non-positive value is a fetch failure, never a zero rate.
func (s *CoinGeckoSource) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	endpoint := s.baseURL + "/api/v3/simple/price?ids=ethereum&vs_currencies=eur"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to build price request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("price request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("price index returned status %d", resp.StatusCode)
	}

	var body map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to decode price response: %w", err)
	}

	rate, ok := body["ethereum"]["eur"]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("price response missing ethereum/eur entry")
	}
	if !rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("price index returned non-positive rate %s", rate)
	}

	return rate, nil
}

// MoonPayRateSource derives the EUR value of one ETH from MoonPay's currency
// price listing: the cross rate of the eth and eur entries.
type MoonPayRateSource struct {
	client *MoonPayClient
}

// NewMoonPayRateSource creates a MoonPay-backed rate source.
func NewMoonPayRateSource(client *MoonPayClient) *MoonPayRateSource {
	return &MoonPayRateSource{client: client}
}

// Name implements RateSource.
func (s *MoonPayRateSource) Name() string {
	return config.PriceSourceMoonPay
}

// FetchRate implements RateSource. Either side of the pair missing from the
// listing is a fetch failure.
func (s *MoonPayRateSource) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	prices, err := s.client.AskPrices(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}

	eth, ok := prices["eth"]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("currency listing missing eth entry")
	}
	eur, ok := prices["eur"]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("currency listing missing eur entry")
	}
	if !eth.IsPositive() || !eur.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("currency listing returned non-positive prices (eth=%s, eur=%s)", eth, eur)
	}

	return eth.Div(eur), nil
}

// NewRateSource selects the configured rate strategy.
func NewRateSource(cfg *config.PricingConfig, moonpay *MoonPayClient) (RateSource, error) {
	switch cfg.Source {
	case config.PriceSourceCoinGecko:
		return NewCoinGeckoSource(cfg.CoinGeckoURL, cfg.Timeout), nil
	case config.PriceSourceMoonPay:
		return NewMoonPayRateSource(moonpay), nil
	default:
		return nil, fmt.Errorf("unknown price source %q", cfg.Source)
	}
}
