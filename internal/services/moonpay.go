package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/config"
)

// MoonPayClient signs checkout URLs and queries MoonPay's currency price
// listing. URL signing follows MoonPay's scheme: an HMAC-SHA256 of the query
// string (including the leading "?") under the account secret, base64-encoded
// and appended as the signature parameter.
type MoonPayClient struct {
	apiKey      string
	secretKey   string
	baseURL     string
	widgetURL   string
	redirectURL string
	httpClient  *http.Client
}

// NewMoonPayClient creates a MoonPay client from configuration.
func NewMoonPayClient(cfg *config.MoonPayConfig) *MoonPayClient {
	return &MoonPayClient{
		apiKey:      cfg.APIKey,
		secretKey:   cfg.SecretKey,
		baseURL:     cfg.BaseURL,
		widgetURL:   cfg.WidgetURL,
		redirectURL: cfg.RedirectURL,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

// SignedBuyURL builds the buy-flow widget URL for a EUR card purchase of ETH
// delivered to walletAddress, and signs it.
func (m *MoonPayClient) SignedBuyURL(walletAddress, amount, email string) (string, error) {
	if m.secretKey == "" {
		return "", errors.New("moonpay secret key is not configured")
	}

	q := url.Values{}
	q.Set("apiKey", m.apiKey)
	q.Set("baseCurrencyCode", "eur")
	q.Set("currencyCode", "eth")
	q.Set("walletAddress", walletAddress)
	q.Set("baseCurrencyAmount", amount)
	q.Set("email", email)
	q.Set("paymentMethod", "credit_debit_card")
	q.Set("redirectURL", m.redirectURL)

	query := "?" + q.Encode()

	mac := hmac.New(sha256.New, []byte(m.secretKey))
	mac.Write([]byte(query))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return m.widgetURL + query + "&signature=" + url.QueryEscape(signature), nil
}

// AskPrices fetches MoonPay's currency price listing: a map of lowercase
// currency code to its current USD ask price.
func (m *MoonPayClient) AskPrices(ctx context.Context) (map[string]decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/v3/currencies/ask_price?apiKey=%s", m.baseURL, url.QueryEscape(m.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build ask_price request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ask_price request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ask_price returned status %d", resp.StatusCode)
	}

	var prices map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return nil, fmt.Errorf("failed to decode ask_price response: %w", err)
	}

	return prices, nil
}
