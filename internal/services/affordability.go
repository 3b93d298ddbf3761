package services

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// weiPerETH is the number of wei in one ETH (10^18).
var weiPerETH = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// QuoteWei converts a EUR price into wei at the given EUR-per-ETH rate.
// The conversion is exact rational arithmetic truncated toward zero at the
// wei boundary: rounding up could admit a purchase the wallet cannot cover.
func QuoteWei(priceEUR, eurPerETH decimal.Decimal) (*big.Int, error) {
	if priceEUR.IsNegative() {
		return nil, fmt.Errorf("price must not be negative, got %s", priceEUR)
	}
	if !eurPerETH.IsPositive() {
		return nil, fmt.Errorf("conversion rate must be positive, got %s", eurPerETH)
	}

	wei := new(big.Rat).Quo(priceEUR.Rat(), eurPerETH.Rat())
	wei.Mul(wei, new(big.Rat).SetInt(weiPerETH))

	// big.Int.Quo truncates toward zero.
	return new(big.Int).Quo(wei.Num(), wei.Denom()), nil
}

// CanAfford decides whether balanceWei covers priceEUR at the given rate.
// The comparison is inclusive: a balance exactly equal to the converted
// amount passes. Both operands are integer wei; no floating point is
// involved anywhere on this path.
func CanAfford(priceEUR, eurPerETH decimal.Decimal, balanceWei *big.Int) (bool, *big.Int, error) {
	quote, err := QuoteWei(priceEUR, eurPerETH)
	if err != nil {
		return false, nil, err
	}
	if balanceWei == nil {
		return false, quote, errors.New("wallet balance is unknown")
	}
	return balanceWei.Cmp(quote) >= 0, quote, nil
}

// EthToWei converts a decimal ETH amount to wei, truncating toward zero.
func EthToWei(eth decimal.Decimal) *big.Int {
	r := new(big.Rat).Mul(eth.Rat(), new(big.Rat).SetInt(weiPerETH))
	return new(big.Int).Quo(r.Num(), r.Denom())
}

// FormatEth renders a wei amount as a decimal ETH string ("0.05"), never a
// binary float.
func FormatEth(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -18).String()
}
