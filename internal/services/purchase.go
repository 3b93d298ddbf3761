package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/pkg/logger"
)

// PurchaseQuote is the outcome of one affordability check. Rate and balance
// are read fresh for every quote.
type PurchaseQuote struct {
	RateEURPerETH decimal.Decimal
	PriceWei      *big.Int
	BalanceWei    *big.Int
	Affordable    bool
}

// PurchaseService combines the rate source and the chain balance into the
// affordability decision gating every purchase.
type PurchaseService struct {
	rates    RateSource
	balances BalanceReader
}

// NewPurchaseService creates a PurchaseService.
func NewPurchaseService(rates RateSource, balances BalanceReader) *PurchaseService {
	return &PurchaseService{
		rates:    rates,
		balances: balances,
	}
}

// Authorize fetches the current rate and the wallet's balance, converts the
// EUR price to wei, and decides whether the wallet can cover it.
func (s *PurchaseService) Authorize(ctx context.Context, wallet common.Address, priceEUR decimal.Decimal) (*PurchaseQuote, error) {
	rate, err := s.rates.FetchRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("rate fetch from %s failed: %w", s.rates.Name(), err)
	}

	balance, err := s.balances.BalanceAt(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("balance read failed: %w", err)
	}

	affordable, priceWei, err := CanAfford(priceEUR, rate, balance)
	if err != nil {
		return nil, err
	}

	logger.GetLogger().WithContext(ctx).Info("Affordability check",
		zap.String("wallet", wallet.Hex()),
		zap.String("price_eur", priceEUR.String()),
		zap.String("rate_eur_per_eth", rate.String()),
		zap.String("price_wei", priceWei.String()),
		zap.String("balance_wei", balance.String()),
		zap.Bool("affordable", affordable),
	)

	return &PurchaseQuote{
		RateEURPerETH: rate,
		PriceWei:      priceWei,
		BalanceWei:    balance,
		Affordable:    affordable,
	}, nil
}

// HasMinimumBalance reports whether the wallet holds at least minETH,
// compared in integer wei.
func (s *PurchaseService) HasMinimumBalance(ctx context.Context, wallet common.Address, minETH decimal.Decimal) (bool, error) {
	balance, err := s.balances.BalanceAt(ctx, wallet)
	if err != nil {
		return false, fmt.Errorf("balance read failed: %w", err)
	}
	return balance.Cmp(EthToWei(minETH)) >= 0, nil
}
