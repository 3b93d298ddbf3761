package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/models"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/services"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/pkg/logger"
)

// CheckoutHandler handles the MoonPay checkout flow: issuing signed buy URLs,
// the post-payment redirect page, and the payment webhook.
type CheckoutHandler struct {
	signer      services.CheckoutSigner
	purchases   *services.PurchaseService
	nftPriceETH decimal.Decimal
}

// NewCheckoutHandler creates a CheckoutHandler. nftPriceETH is the checkout
// price the webhook checks the buyer's balance against.
func NewCheckoutHandler(signer services.CheckoutSigner, purchases *services.PurchaseService, nftPriceETH decimal.Decimal) *CheckoutHandler {
	return &CheckoutHandler{
		signer:      signer,
		purchases:   purchases,
		nftPriceETH: nftPriceETH,
	}
}

// BuyETH handles GET /buy-eth requests.
func (h *CheckoutHandler) BuyETH(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	walletAddress := c.Query("walletAddress")
	amount := c.Query("amount")
	email := c.Query("email")

	if !requireFields(c, log,
		requiredField{"walletAddress", walletAddress},
		requiredField{"amount", amount},
		requiredField{"email", email},
	) {
		return
	}

	if _, ok := parseWallet(c, log, "walletAddress", walletAddress); !ok {
		return
	}

	signedURL, err := h.signer.SignedBuyURL(walletAddress, amount, email)
	if err != nil {
		models.HandleError(c, models.NewAppErrorWithCause(
			models.ErrorCodePaymentProviderError,
			"Failed to generate checkout URL",
			err,
		), log)
		return
	}

	log.Info("Checkout URL generated", zap.String("wallet", walletAddress))
	c.JSON(http.StatusOK, models.CheckoutURLResponse{SignedURL: signedURL})
}

// TransactionStatus handles GET /transaction, the page MoonPay redirects the
// buyer to after payment. No collaborator is called.
func (h *CheckoutHandler) TransactionStatus(c *gin.Context) {
	transactionID := c.Query("transactionId")
	transactionStatus := c.Query("transactionStatus")

	if transactionStatus == "completed" {
		c.String(http.StatusOK, "Transaction %s completed successfully!", transactionID)
		return
	}
	c.String(http.StatusOK, "Transaction %s status: %s", transactionID, transactionStatus)
}

// MoonPayWebhook handles POST /moonpay-webhook. A completed ETH payment
// triggers a fresh on-chain balance check against the checkout NFT price.
func (h *CheckoutHandler) MoonPayWebhook(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	var req models.WebhookRequest
	if !bindJSON(c, log, &req) {
		return
	}

	if !requireFields(c, log,
		requiredField{"status", req.Status},
		requiredField{"walletAddress", req.WalletAddress},
		requiredField{"currencyCode", req.CurrencyCode},
	) {
		return
	}

	if req.Status != "completed" || !strings.EqualFold(req.CurrencyCode, "eth") {
		models.HandleError(c, models.NewAppError(
			models.ErrorCodeInvalidInput,
			"Unrecognized payment status or currency",
		), log)
		return
	}

	wallet, ok := parseWallet(c, log, "walletAddress", req.WalletAddress)
	if !ok {
		return
	}

	sufficient, err := h.purchases.HasMinimumBalance(c.Request.Context(), wallet, h.nftPriceETH)
	if err != nil {
		models.HandleError(c, models.NewAppErrorWithCause(
			models.ErrorCodeChainError,
			"Error handling payment notification",
			err,
		), log)
		return
	}

	if !sufficient {
		models.HandleError(c, models.NewAppError(
			models.ErrorCodeInsufficientBalance,
			"Insufficient ETH balance",
		), log)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Message: "Payment successful, user can proceed with NFT purchase",
	})
}
