package services

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/config"
)

// EthereumClient wraps the go-ethereum RPC client with configuration.
type EthereumClient struct {
	client *ethclient.Client
	config *config.ChainConfig
}

// NewEthereumClient dials the configured node endpoint.
func NewEthereumClient(cfg *config.ChainConfig) (*EthereumClient, error) {
	client, err := ethclient.Dial(cfg.RPCEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ethereum RPC: %w", err)
	}

	return &EthereumClient{
		client: client,
		config: cfg,
	}, nil
}

// BalanceAt reads the wallet's current balance in wei at the latest block.
// The result is never cached; every affordability check reads fresh state.
func (e *EthereumClient) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.CallTimeout)
	defer cancel()

	balance, err := e.client.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance for %s: %w", address.Hex(), err)
	}
	return balance, nil
}

// ChainID queries the connected network's chain ID.
func (e *EthereumClient) ChainID(ctx context.Context) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.CallTimeout)
	defer cancel()

	chainID, err := e.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query chain ID: %w", err)
	}
	return chainID, nil
}

// IsHealthy checks if the RPC endpoint is responsive.
func (e *EthereumClient) IsHealthy() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := e.client.BlockNumber(ctx); err != nil {
		return fmt.Errorf("RPC health check failed: %w", err)
	}
	return nil
}

// Close releases the underlying RPC connection.
func (e *EthereumClient) Close() {
	e.client.Close()
}
