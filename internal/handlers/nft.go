package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/models"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/services"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/pkg/logger"
)

// NFTHandler handles marketplace reads and the mint/approve/purchase
// contract operations.
type NFTHandler struct {
	dispatcher services.Dispatcher
	purchases  *services.PurchaseService
}

// NewNFTHandler creates an NFTHandler.
func NewNFTHandler(dispatcher services.Dispatcher, purchases *services.PurchaseService) *NFTHandler {
	return &NFTHandler{
		dispatcher: dispatcher,
		purchases:  purchases,
	}
}

// ListedNFTs handles GET /listed-nfts requests.
func (h *NFTHandler) ListedNFTs(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	listings, err := h.dispatcher.ListedNFTs(c.Request.Context())
	if err != nil {
		models.HandleError(c, models.NewAppErrorWithCause(
			models.ErrorCodeChainError,
			"Error fetching listed NFTs",
			err,
		), log)
		return
	}

	if listings == nil {
		listings = []models.ListedNFT{}
	}
	c.JSON(http.StatusOK, listings)
}

// Mint handles POST /mint requests.
func (h *NFTHandler) Mint(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	var req models.MintRequest
	if !bindJSON(c, log, &req) {
		return
	}

	if !requireFields(c, log,
		requiredField{"walletAddress", req.WalletAddress},
		requiredField{"tokenURI", req.TokenURI},
	) {
		return
	}

	if _, ok := parseWallet(c, log, "walletAddress", req.WalletAddress); !ok {
		return
	}

	txHash, err := h.dispatcher.Mint(c.Request.Context(), req.TokenURI)
	if err != nil {
		models.HandleError(c, models.NewAppErrorWithCause(
			models.ErrorCodeTransactionFailed,
			"Minting failed",
			err,
		), log)
		return
	}

	log.Info("NFT minted",
		zap.String("wallet", req.WalletAddress),
		zap.String("tx_hash", txHash),
	)
	c.JSON(http.StatusOK, models.TxResponse{Message: "NFT minted successfully", TxHash: txHash})
}

// Approve handles POST /approve requests.
func (h *NFTHandler) Approve(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	var req models.ApproveRequest
	if !bindJSON(c, log, &req) {
		return
	}

	if !requireFields(c, log,
		requiredField{"walletAddress", req.WalletAddress},
		requiredField{"operator", req.Operator},
		requiredField{"tokenId", req.TokenID.String()},
	) {
		return
	}

	if _, ok := parseWallet(c, log, "walletAddress", req.WalletAddress); !ok {
		return
	}
	operator, ok := parseWallet(c, log, "operator", req.Operator)
	if !ok {
		return
	}
	tokenID, ok := parseTokenID(c, log, req.TokenID.String())
	if !ok {
		return
	}

	txHash, err := h.dispatcher.Approve(c.Request.Context(), operator, tokenID)
	if err != nil {
		models.HandleError(c, models.NewAppErrorWithCause(
			models.ErrorCodeTransactionFailed,
			"Approval failed",
			err,
		), log)
		return
	}

	log.Info("NFT approved",
		zap.String("operator", req.Operator),
		zap.String("token_id", tokenID.String()),
		zap.String("tx_hash", txHash),
	)
	c.JSON(http.StatusOK, models.TxResponse{Message: "NFT approved successfully", TxHash: txHash})
}

// BuyNFT handles POST /buy-nft requests. The fiat price is converted at the
// current rate and checked against the wallet's balance before any
// transaction is submitted.
func (h *NFTHandler) BuyNFT(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	var req models.PurchaseRequest
	if !bindJSON(c, log, &req) {
		return
	}

	if !requireFields(c, log,
		requiredField{"walletAddress", req.WalletAddress},
		requiredField{"tokenId", req.TokenID.String()},
		requiredField{"nftContractAddress", req.NFTContractAddress},
	) {
		return
	}

	if !req.PriceInEur.IsPositive() {
		models.HandleError(c, models.NewAppError(
			models.ErrorCodeMissingFields,
			"priceInEur is required and must be positive",
		), log)
		return
	}

	wallet, ok := parseWallet(c, log, "walletAddress", req.WalletAddress)
	if !ok {
		return
	}
	nftContract, ok := parseWallet(c, log, "nftContractAddress", req.NFTContractAddress)
	if !ok {
		return
	}
	tokenID, ok := parseTokenID(c, log, req.TokenID.String())
	if !ok {
		return
	}

	quote, err := h.purchases.Authorize(c.Request.Context(), wallet, req.PriceInEur)
	if err != nil {
		models.HandleError(c, models.NewAppErrorWithCause(
			models.ErrorCodeChainError,
			"NFT purchase failed",
			err,
		), log)
		return
	}

	if !quote.Affordable {
		models.HandleError(c, models.NewAppError(
			models.ErrorCodeInsufficientBalance,
			"Insufficient ETH balance to purchase the NFT",
		), log)
		return
	}

	txHash, err := h.dispatcher.Purchase(c.Request.Context(), nftContract, tokenID, quote.PriceWei)
	if err != nil {
		models.HandleError(c, models.NewAppErrorWithCause(
			models.ErrorCodeTransactionFailed,
			"NFT purchase failed",
			err,
		), log)
		return
	}

	log.Info("NFT purchased",
		zap.String("wallet", req.WalletAddress),
		zap.String("token_id", tokenID.String()),
		zap.String("price_wei", quote.PriceWei.String()),
		zap.String("tx_hash", txHash),
	)
	c.JSON(http.StatusOK, models.TxResponse{Message: "NFT purchased successfully", TxHash: txHash})
}
