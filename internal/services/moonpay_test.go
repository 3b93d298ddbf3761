package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/config"
)

func TestSignedBuyURLParameters(t *testing.T) {
	client := newTestMoonPayClient("https://api.moonpay.com")

	signed, err := client.SignedBuyURL("0x1111111111111111111111111111111111111111", "250", "buyer@example.com")
	require.NoError(t, err)

	parsed, err := url.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "buy.moonpay.com", parsed.Host)

	q := parsed.Query()
	assert.Equal(t, "test-api-key", q.Get("apiKey"))
	assert.Equal(t, "eur", q.Get("baseCurrencyCode"))
	assert.Equal(t, "eth", q.Get("currencyCode"))
	assert.Equal(t, "0x1111111111111111111111111111111111111111", q.Get("walletAddress"))
	assert.Equal(t, "250", q.Get("baseCurrencyAmount"))
	assert.Equal(t, "buyer@example.com", q.Get("email"))
	assert.Equal(t, "credit_debit_card", q.Get("paymentMethod"))
	assert.Equal(t, "http://localhost:3000/transaction", q.Get("redirectURL"))
	assert.NotEmpty(t, q.Get("signature"))
}

func TestSignedBuyURLSignatureIsValid(t *testing.T) {
	client := newTestMoonPayClient("https://api.moonpay.com")

	signed, err := client.SignedBuyURL("0x2222222222222222222222222222222222222222", "100", "buyer@example.com")
	require.NoError(t, err)

	// The signature covers the query string including the leading "?" and
	// excluding the signature parameter itself.
	idx := strings.Index(signed, "?")
	require.Greater(t, idx, 0)
	query := signed[idx:]
	sigIdx := strings.LastIndex(query, "&signature=")
	require.Greater(t, sigIdx, 0)

	payload := query[:sigIdx]
	gotSig, err := url.QueryUnescape(query[sigIdx+len("&signature="):])
	require.NoError(t, err)

	mac := hmac.New(sha256.New, []byte("test-secret-key"))
	mac.Write([]byte(payload))
	wantSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.Equal(t, wantSig, gotSig)
}

func TestSignedBuyURLRequiresSecret(t *testing.T) {
	client := NewMoonPayClient(&config.MoonPayConfig{
		APIKey:    "test-api-key",
		WidgetURL: "https://buy.moonpay.com",
		Timeout:   time.Second,
	})

	_, err := client.SignedBuyURL("0x1111111111111111111111111111111111111111", "250", "buyer@example.com")
	assert.Error(t, err)
}
