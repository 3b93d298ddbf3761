package services

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/config"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/models"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/pkg/logger"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/pkg/metrics"
)

const nftABIJSON = `[
  {"inputs":[{"internalType":"string","name":"tokenURI","type":"string"}],"name":"safeMint","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"approve","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

const marketplaceABIJSON = `[
  {"inputs":[],"name":"getAllListedNFTs","outputs":[{"components":[{"internalType":"address","name":"seller","type":"address"},{"internalType":"uint256","name":"price","type":"uint256"},{"internalType":"uint256","name":"tokenId","type":"uint256"},{"internalType":"address","name":"nftContract","type":"address"},{"internalType":"bool","name":"isListed","type":"bool"}],"internalType":"struct NFTMarketplace.Listing[]","name":"","type":"tuple[]"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"address","name":"nftContract","type":"address"},{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"buyNFT","outputs":[],"stateMutability":"payable","type":"function"}
]`

// marketplaceListing mirrors the Listing tuple returned by the marketplace
// contract.
type marketplaceListing struct {
	Seller      common.Address
	Price       *big.Int
	TokenId     *big.Int
	NftContract common.Address
	IsListed    bool
}

// ContractDispatcher submits mint, approve, and purchase transactions from
// the server's signing key and waits for them to be mined. Submission is
// serialized under a mutex so concurrent requests cannot race on the key's
// nonce; the confirmation wait runs outside the lock.
type ContractDispatcher struct {
	eth         *EthereumClient
	nft         *bind.BoundContract
	marketplace *bind.BoundContract
	auth        *bind.TransactOpts
	collector   *metrics.Collector
	config      *config.ChainConfig

	submitMu sync.Mutex
}

// NewContractDispatcher parses the signing key, resolves the chain ID, and
// binds both contracts.
func NewContractDispatcher(ctx context.Context, eth *EthereumClient, cfg *config.ChainConfig, collector *metrics.Collector) (*ContractDispatcher, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid signing key: %w", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to build transactor: %w", err)
	}

	nftABI, err := abi.JSON(strings.NewReader(nftABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse NFT ABI: %w", err)
	}
	marketplaceABI, err := abi.JSON(strings.NewReader(marketplaceABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse marketplace ABI: %w", err)
	}

	return &ContractDispatcher{
		eth:         eth,
		nft:         bind.NewBoundContract(common.HexToAddress(cfg.NFTContract), nftABI, eth.client, eth.client, eth.client),
		marketplace: bind.NewBoundContract(common.HexToAddress(cfg.MarketplaceContract), marketplaceABI, eth.client, eth.client, eth.client),
		auth:        auth,
		collector:   collector,
		config:      cfg,
	}, nil
}

// SignerAddress returns the address transactions are sent from.
func (d *ContractDispatcher) SignerAddress() common.Address {
	return d.auth.From
}

// Mint submits a safeMint transaction and waits for confirmation.
func (d *ContractDispatcher) Mint(ctx context.Context, tokenURI string) (string, error) {
	tx, err := d.transact(ctx, d.nft, nil, "safeMint", tokenURI)
	if err != nil {
		return "", err
	}
	return d.waitMined(ctx, tx)
}

// Approve submits an approve transaction for the operator and token.
func (d *ContractDispatcher) Approve(ctx context.Context, operator common.Address, tokenID *big.Int) (string, error) {
	tx, err := d.transact(ctx, d.nft, nil, "approve", operator, tokenID)
	if err != nil {
		return "", err
	}
	return d.waitMined(ctx, tx)
}

// Purchase submits a buyNFT transaction carrying valueWei and waits for
// confirmation.
func (d *ContractDispatcher) Purchase(ctx context.Context, nftContract common.Address, tokenID, valueWei *big.Int) (string, error) {
	tx, err := d.transact(ctx, d.marketplace, valueWei, "buyNFT", nftContract, tokenID)
	if err != nil {
		return "", err
	}
	return d.waitMined(ctx, tx)
}

// ListedNFTs reads the marketplace listings and reshapes them into the
// response view, rendering prices as decimal ETH strings.
func (d *ContractDispatcher) ListedNFTs(ctx context.Context) ([]models.ListedNFT, error) {
	ctx, cancel := context.WithTimeout(ctx, d.config.CallTimeout)
	defer cancel()

	var out []interface{}
	if err := d.marketplace.Call(&bind.CallOpts{Context: ctx}, &out, "getAllListedNFTs"); err != nil {
		return nil, fmt.Errorf("getAllListedNFTs call failed: %w", err)
	}

	listings := *abi.ConvertType(out[0], new([]marketplaceListing)).(*[]marketplaceListing)
	return mapListings(listings), nil
}

// mapListings converts raw contract tuples to the read-only response view.
func mapListings(listings []marketplaceListing) []models.ListedNFT {
	result := make([]models.ListedNFT, 0, len(listings))
	for _, l := range listings {
		result = append(result, models.ListedNFT{
			Seller:      l.Seller.Hex(),
			Price:       FormatEth(l.Price),
			TokenID:     l.TokenId.String(),
			NFTContract: l.NftContract.Hex(),
			IsListed:    l.IsListed,
		})
	}
	return result
}

// transact signs and submits one transaction while holding the submission
// lock. The lock only covers nonce assignment and submission; waiting for
// confirmation happens outside it.
func (d *ContractDispatcher) transact(ctx context.Context, contract *bind.BoundContract, valueWei *big.Int, method string, args ...interface{}) (*ethtypes.Transaction, error) {
	d.submitMu.Lock()
	defer d.submitMu.Unlock()

	opts := *d.auth
	opts.Context = ctx
	opts.Value = valueWei

	tx, err := contract.Transact(&opts, method, args...)
	if err != nil {
		d.collector.RecordTransaction(false)
		return nil, fmt.Errorf("%s submission failed: %w", method, err)
	}

	logger.GetLogger().WithContext(ctx).Info("Transaction submitted",
		zap.String("method", method),
		zap.String("tx_hash", tx.Hash().Hex()),
	)
	return tx, nil
}

// waitMined blocks until the transaction is mined or the confirmation
// timeout elapses. A mined-but-reverted transaction is a failure.
func (d *ContractDispatcher) waitMined(ctx context.Context, tx *ethtypes.Transaction) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.config.ConfirmTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(ctx, d.eth.client, tx)
	if err != nil {
		d.collector.RecordTransaction(false)
		return "", fmt.Errorf("confirmation wait for %s failed: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		d.collector.RecordTransaction(false)
		return "", fmt.Errorf("transaction %s reverted", tx.Hash().Hex())
	}

	d.collector.RecordTransaction(true)
	return tx.Hash().Hex(), nil
}
