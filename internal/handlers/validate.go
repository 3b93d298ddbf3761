package handlers

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/models"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/pkg/logger"
)

// requiredField pairs a client-facing field name with its submitted value.
type requiredField struct {
	name  string
	value string
}

// requireFields responds with a 400 naming every missing field and returns
// false if any required value is empty. No collaborator is called in that
// case.
func requireFields(c *gin.Context, log *logger.Logger, fields ...requiredField) bool {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) == 0 {
		return true
	}

	models.HandleError(c, models.NewAppError(models.ErrorCodeMissingFields, missingMessage(missing)), log)
	return false
}

// missingMessage renders "walletAddress is required" or
// "walletAddress, amount, and email are required".
func missingMessage(missing []string) string {
	switch len(missing) {
	case 1:
		return missing[0] + " is required"
	case 2:
		return missing[0] + " and " + missing[1] + " are required"
	default:
		return strings.Join(missing[:len(missing)-1], ", ") + ", and " + missing[len(missing)-1] + " are required"
	}
}

// parseWallet validates an Ethereum address field, responding with a 400 on
// failure.
func parseWallet(c *gin.Context, log *logger.Logger, name, value string) (common.Address, bool) {
	if !common.IsHexAddress(value) {
		models.HandleError(c, models.NewAppErrorWithDetails(
			models.ErrorCodeInvalidWallet,
			fmt.Sprintf("%s must be a valid Ethereum address", name),
			value,
		), log)
		return common.Address{}, false
	}
	return common.HexToAddress(value), true
}

// parseTokenID validates a token identifier field as a non-negative integer,
// responding with a 400 on failure.
func parseTokenID(c *gin.Context, log *logger.Logger, value string) (*big.Int, bool) {
	tokenID, ok := new(big.Int).SetString(value, 10)
	if !ok || tokenID.Sign() < 0 {
		models.HandleError(c, models.NewAppErrorWithDetails(
			models.ErrorCodeInvalidInput,
			"tokenId must be a non-negative integer",
			value,
		), log)
		return nil, false
	}
	return tokenID, true
}

// bindJSON decodes the request body, responding with a 400 on malformed
// JSON.
func bindJSON(c *gin.Context, log *logger.Logger, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		models.HandleError(c, models.NewAppErrorWithDetails(
			models.ErrorCodeMalformedJSON,
			"Invalid JSON format",
			err.Error(),
		), log)
		return false
	}
	return true
}
