package handlers

import (
	"errors"
	"math/big"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/models"
)

func newCheckoutHandler(signer *mockSigner, balances *mockBalanceReader) *CheckoutHandler {
	purchases := newTestPurchases(&mockRateSource{rate: decimal.RequireFromString("2000")}, balances)
	return NewCheckoutHandler(signer, purchases, decimal.RequireFromString("0.05"))
}

func TestBuyETHReturnsSignedURL(t *testing.T) {
	signer := &mockSigner{signedURL: "https://buy.moonpay.com?apiKey=k&signature=s"}
	handler := newCheckoutHandler(signer, &mockBalanceReader{})

	w := performRequest(t, http.MethodGet,
		"/buy-eth?walletAddress="+testWallet+"&amount=250&email=buyer%40example.com",
		"", handler.BuyETH)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "signedURL")
	assert.Contains(t, w.Body.String(), "signature=s")
	assert.Equal(t, 1, signer.callCount)
}

func TestBuyETHMissingParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"all missing", ""},
		{"missing amount and email", "?walletAddress=" + testWallet},
		{"missing email", "?walletAddress=" + testWallet + "&amount=250"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer := &mockSigner{signedURL: "https://buy.moonpay.com"}
			handler := newCheckoutHandler(signer, &mockBalanceReader{})

			w := performRequest(t, http.MethodGet, "/buy-eth"+tt.query, "", handler.BuyETH)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assertErrorCode(t, w.Body.String(), models.ErrorCodeMissingFields)
			assert.Equal(t, 0, signer.callCount, "signer must not be called when fields are missing")
		})
	}
}

func TestBuyETHInvalidWallet(t *testing.T) {
	signer := &mockSigner{signedURL: "https://buy.moonpay.com"}
	handler := newCheckoutHandler(signer, &mockBalanceReader{})

	w := performRequest(t, http.MethodGet,
		"/buy-eth?walletAddress=not-an-address&amount=250&email=buyer%40example.com",
		"", handler.BuyETH)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, w.Body.String(), models.ErrorCodeInvalidWallet)
	assert.Equal(t, 0, signer.callCount)
}

func TestBuyETHSignerFailure(t *testing.T) {
	signer := &mockSigner{err: errors.New("secret not configured")}
	handler := newCheckoutHandler(signer, &mockBalanceReader{})

	w := performRequest(t, http.MethodGet,
		"/buy-eth?walletAddress="+testWallet+"&amount=250&email=buyer%40example.com",
		"", handler.BuyETH)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assertErrorCode(t, w.Body.String(), models.ErrorCodePaymentProviderError)
}

func TestTransactionStatus(t *testing.T) {
	handler := newCheckoutHandler(&mockSigner{}, &mockBalanceReader{})

	w := performRequest(t, http.MethodGet,
		"/transaction?transactionId=tx-1&transactionStatus=completed", "", handler.TransactionStatus)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Transaction tx-1 completed successfully!", w.Body.String())

	w = performRequest(t, http.MethodGet,
		"/transaction?transactionId=tx-2&transactionStatus=pending", "", handler.TransactionStatus)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Transaction tx-2 status: pending", w.Body.String())
}

func TestMoonPayWebhookSufficientBalance(t *testing.T) {
	// Balance exactly at the 0.05 ETH checkout price passes.
	balances := &mockBalanceReader{balance: mustWei("50000000000000000")}
	handler := newCheckoutHandler(&mockSigner{}, balances)

	w := performRequest(t, http.MethodPost, "/moonpay-webhook",
		`{"status":"completed","walletAddress":"`+testWallet+`","currencyCode":"eth"}`,
		handler.MoonPayWebhook)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Payment successful")
	assert.Equal(t, 1, balances.callCount)
}

func TestMoonPayWebhookCurrencyCodeIsCaseInsensitive(t *testing.T) {
	balances := &mockBalanceReader{balance: mustWei("50000000000000000")}
	handler := newCheckoutHandler(&mockSigner{}, balances)

	w := performRequest(t, http.MethodPost, "/moonpay-webhook",
		`{"status":"completed","walletAddress":"`+testWallet+`","currencyCode":"ETH"}`,
		handler.MoonPayWebhook)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMoonPayWebhookInsufficientBalance(t *testing.T) {
	balances := &mockBalanceReader{balance: mustWei("49999999999999999")}
	handler := newCheckoutHandler(&mockSigner{}, balances)

	w := performRequest(t, http.MethodPost, "/moonpay-webhook",
		`{"status":"completed","walletAddress":"`+testWallet+`","currencyCode":"eth"}`,
		handler.MoonPayWebhook)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, w.Body.String(), models.ErrorCodeInsufficientBalance)
}

func TestMoonPayWebhookRejectsOtherStatuses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			"pending status",
			`{"status":"pending","walletAddress":"` + testWallet + `","currencyCode":"eth"}`,
		},
		{
			"failed status",
			`{"status":"failed","walletAddress":"` + testWallet + `","currencyCode":"eth"}`,
		},
		{
			"wrong currency",
			`{"status":"completed","walletAddress":"` + testWallet + `","currencyCode":"btc"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := &mockBalanceReader{balance: mustWei("50000000000000000")}
			handler := newCheckoutHandler(&mockSigner{}, balances)

			w := performRequest(t, http.MethodPost, "/moonpay-webhook", tt.body, handler.MoonPayWebhook)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assertErrorCode(t, w.Body.String(), models.ErrorCodeInvalidInput)
			assert.Equal(t, 0, balances.callCount, "balance must not be read for unrecognized payloads")
		})
	}
}

func TestMoonPayWebhookMissingFields(t *testing.T) {
	balances := &mockBalanceReader{balance: mustWei("50000000000000000")}
	handler := newCheckoutHandler(&mockSigner{}, balances)

	w := performRequest(t, http.MethodPost, "/moonpay-webhook",
		`{"status":"completed"}`, handler.MoonPayWebhook)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, w.Body.String(), models.ErrorCodeMissingFields)
	assert.Contains(t, w.Body.String(), "walletAddress and currencyCode are required")
	assert.Equal(t, 0, balances.callCount)
}

func TestMoonPayWebhookMalformedJSON(t *testing.T) {
	handler := newCheckoutHandler(&mockSigner{}, &mockBalanceReader{})

	w := performRequest(t, http.MethodPost, "/moonpay-webhook", `{not json`, handler.MoonPayWebhook)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, w.Body.String(), models.ErrorCodeMalformedJSON)
}

func TestMoonPayWebhookBalanceReadFailure(t *testing.T) {
	balances := &mockBalanceReader{err: errors.New("rpc timeout")}
	handler := newCheckoutHandler(&mockSigner{}, balances)

	w := performRequest(t, http.MethodPost, "/moonpay-webhook",
		`{"status":"completed","walletAddress":"`+testWallet+`","currencyCode":"eth"}`,
		handler.MoonPayWebhook)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assertErrorCode(t, w.Body.String(), models.ErrorCodeChainError)
}

func mustWei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid wei literal: " + s)
	}
	return v
}
