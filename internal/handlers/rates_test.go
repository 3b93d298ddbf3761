package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/models"
)

func TestEthToEur(t *testing.T) {
	rates := &mockRateSource{rate: decimal.RequireFromString("2043.17")}
	handler := NewRateHandler(rates)

	w := performRequest(t, http.MethodGet, "/eth-to-eur", "", handler.EthToEur)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ethToEurRate":"2043.17"}`, w.Body.String())
	assert.Equal(t, 1, rates.callCount)
}

func TestEthToEurFetchesFreshEveryCall(t *testing.T) {
	rates := &mockRateSource{rate: decimal.RequireFromString("2000")}
	handler := NewRateHandler(rates)

	for i := 0; i < 3; i++ {
		w := performRequest(t, http.MethodGet, "/eth-to-eur", "", handler.EthToEur)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 3, rates.callCount, "the rate must never be cached between requests")
}

func TestEthToEurFeedFailure(t *testing.T) {
	rates := &mockRateSource{err: errors.New("feed unavailable")}
	handler := NewRateHandler(rates)

	w := performRequest(t, http.MethodGet, "/eth-to-eur", "", handler.EthToEur)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assertErrorCode(t, w.Body.String(), models.ErrorCodeRateFeedError)
	assert.Contains(t, w.Body.String(), "Failed to fetch ETH to EUR rate")
}
