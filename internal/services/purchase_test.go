package services

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRateSource implements RateSource for testing.
type mockRateSource struct {
	rate      decimal.Decimal
	err       error
	callCount int
}

func (m *mockRateSource) Name() string { return "mock" }

func (m *mockRateSource) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	m.callCount++
	if m.err != nil {
		return decimal.Decimal{}, m.err
	}
	return m.rate, nil
}

// mockBalanceReader implements BalanceReader for testing.
type mockBalanceReader struct {
	balance   *big.Int
	err       error
	callCount int
}

func (m *mockBalanceReader) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	return m.balance, nil
}

var testWallet = common.HexToAddress("0x1111111111111111111111111111111111111111")

func TestAuthorizeAffordable(t *testing.T) {
	rates := &mockRateSource{rate: decimal.RequireFromString("2000")}
	balances := &mockBalanceReader{balance: wei("50000000000000000")}
	svc := NewPurchaseService(rates, balances)

	quote, err := svc.Authorize(context.Background(), testWallet, decimal.RequireFromString("100"))
	require.NoError(t, err)

	assert.True(t, quote.Affordable)
	assert.Equal(t, 0, wei("50000000000000000").Cmp(quote.PriceWei))
	assert.True(t, decimal.RequireFromString("2000").Equal(quote.RateEURPerETH))
	assert.Equal(t, 1, rates.callCount)
	assert.Equal(t, 1, balances.callCount)
}

func TestAuthorizeInsufficientBalance(t *testing.T) {
	rates := &mockRateSource{rate: decimal.RequireFromString("2000")}
	balances := &mockBalanceReader{balance: wei("49999999999999999")}
	svc := NewPurchaseService(rates, balances)

	quote, err := svc.Authorize(context.Background(), testWallet, decimal.RequireFromString("100"))
	require.NoError(t, err)

	assert.False(t, quote.Affordable)
}

func TestAuthorizeRateFetchFailure(t *testing.T) {
	rates := &mockRateSource{err: errors.New("feed unavailable")}
	balances := &mockBalanceReader{balance: big.NewInt(0)}
	svc := NewPurchaseService(rates, balances)

	_, err := svc.Authorize(context.Background(), testWallet, decimal.RequireFromString("100"))
	assert.Error(t, err)
	assert.Equal(t, 0, balances.callCount, "balance must not be read when the rate fetch fails")
}

func TestAuthorizeBalanceReadFailure(t *testing.T) {
	rates := &mockRateSource{rate: decimal.RequireFromString("2000")}
	balances := &mockBalanceReader{err: errors.New("rpc timeout")}
	svc := NewPurchaseService(rates, balances)

	_, err := svc.Authorize(context.Background(), testWallet, decimal.RequireFromString("100"))
	assert.Error(t, err)
}

func TestHasMinimumBalanceBoundary(t *testing.T) {
	threshold := decimal.RequireFromString("0.05")

	balances := &mockBalanceReader{balance: wei("50000000000000000")}
	svc := NewPurchaseService(&mockRateSource{}, balances)

	ok, err := svc.HasMinimumBalance(context.Background(), testWallet, threshold)
	require.NoError(t, err)
	assert.True(t, ok, "balance exactly at the threshold must pass")

	balances.balance = wei("49999999999999999")
	ok, err = svc.HasMinimumBalance(context.Background(), testWallet, threshold)
	require.NoError(t, err)
	assert.False(t, ok, "one wei below the threshold must fail")
}

func TestHasMinimumBalanceReadFailure(t *testing.T) {
	balances := &mockBalanceReader{err: errors.New("rpc timeout")}
	svc := NewPurchaseService(&mockRateSource{}, balances)

	_, err := svc.HasMinimumBalance(context.Background(), testWallet, decimal.RequireFromString("0.05"))
	assert.Error(t, err)
}
