package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/services"
)

// Router handles HTTP routing setup
type Router struct {
	checkoutHandler *CheckoutHandler
	rateHandler     *RateHandler
	nftHandler      *NFTHandler
	healthHandler   *HealthHandler
}

// NewRouter creates a new Router instance with all handlers
func NewRouter(
	signer services.CheckoutSigner,
	rates services.RateSource,
	purchases *services.PurchaseService,
	dispatcher services.Dispatcher,
	healthHandler *HealthHandler,
	nftPriceETH decimal.Decimal,
) *Router {
	return &Router{
		checkoutHandler: NewCheckoutHandler(signer, purchases, nftPriceETH),
		rateHandler:     NewRateHandler(rates),
		nftHandler:      NewNFTHandler(dispatcher, purchases),
		healthHandler:   healthHandler,
	}
}

// SetupRoutes configures all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// MoonPay checkout flow
	engine.GET("/buy-eth", r.checkoutHandler.BuyETH)
	engine.GET("/transaction", r.checkoutHandler.TransactionStatus)
	engine.POST("/moonpay-webhook", r.checkoutHandler.MoonPayWebhook)

	// Conversion rate
	engine.GET("/eth-to-eur", r.rateHandler.EthToEur)

	// Marketplace and contract operations
	engine.GET("/listed-nfts", r.nftHandler.ListedNFTs)
	engine.POST("/mint", r.nftHandler.Mint)
	engine.POST("/approve", r.nftHandler.Approve)
	engine.POST("/buy-nft", r.nftHandler.BuyNFT)
}

// SetupHealthRoutes configures health check routes
func (r *Router) SetupHealthRoutes(engine *gin.Engine) {
	health := engine.Group("/health")
	{
		health.GET("", r.healthHandler.GetHealth)
		health.GET("/live", r.healthHandler.GetLiveness)
		health.GET("/ready", r.healthHandler.GetReadiness)
	}
}
