package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/models"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/services"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/pkg/logger"
)

// RateHandler exposes the current conversion rate.
type RateHandler struct {
	rates services.RateSource
}

// NewRateHandler creates a RateHandler over the configured rate source.
func NewRateHandler(rates services.RateSource) *RateHandler {
	return &RateHandler{rates: rates}
}

// EthToEur handles GET /eth-to-eur requests. The rate is fetched fresh on
// every call.
func (h *RateHandler) EthToEur(c *gin.Context) {
	log := logger.GetLogger().WithContext(c.Request.Context())

	rate, err := h.rates.FetchRate(c.Request.Context())
	if err != nil {
		models.HandleError(c, models.NewAppErrorWithCause(
			models.ErrorCodeRateFeedError,
			"Failed to fetch ETH to EUR rate",
			err,
		), log)
		return
	}

	log.Debug("Fetched conversion rate",
		zap.String("source", h.rates.Name()),
		zap.String("rate", rate.String()),
	)
	c.JSON(http.StatusOK, models.RateResponse{EthToEurRate: rate.String()})
}
