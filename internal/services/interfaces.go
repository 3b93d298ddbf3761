package services

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/models"
)

// RateSource fetches the current EUR value of one ETH. Every call is a fresh
// network round-trip; implementations never cache.
type RateSource interface {
	Name() string
	FetchRate(ctx context.Context) (decimal.Decimal, error)
}

// BalanceReader reads a wallet's current ETH balance in wei, fresh from the
// chain on every call.
type BalanceReader interface {
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
}

// Dispatcher submits contract transactions from the server's signing key and
// blocks until they are mined, and reads marketplace state.
type Dispatcher interface {
	Mint(ctx context.Context, tokenURI string) (string, error)
	Approve(ctx context.Context, operator common.Address, tokenID *big.Int) (string, error)
	Purchase(ctx context.Context, nftContract common.Address, tokenID, valueWei *big.Int) (string, error)
	ListedNFTs(ctx context.Context) ([]models.ListedNFT, error)
}

// CheckoutSigner generates signed payment-provider checkout URLs.
type CheckoutSigner interface {
	SignedBuyURL(walletAddress, amount, email string) (string, error)
}
