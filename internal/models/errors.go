package models

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Client input errors
	ErrorCodeMissingFields ErrorCode = "MISSING_REQUIRED_FIELDS"
	ErrorCodeInvalidWallet ErrorCode = "INVALID_WALLET_ADDRESS"
	ErrorCodeInvalidInput  ErrorCode = "INVALID_REQUEST"
	ErrorCodeMalformedJSON ErrorCode = "MALFORMED_JSON"

	// On-chain decision failure: the wallet cannot cover the purchase.
	// A client error, not a collaborator failure.
	ErrorCodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"

	// Rate limiting
	ErrorCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Collaborator failures. Detail is logged server-side only; the
	// response body stays generic.
	ErrorCodeRateFeedError        ErrorCode = "RATE_FEED_ERROR"
	ErrorCodeChainError           ErrorCode = "CHAIN_ERROR"
	ErrorCodeTransactionFailed    ErrorCode = "TRANSACTION_FAILED"
	ErrorCodePaymentProviderError ErrorCode = "PAYMENT_PROVIDER_ERROR"

	// Internal errors
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// HTTPStatusCode returns the HTTP status for each error class: 400 for
// client input and insufficient balance, 500 for any collaborator failure.
func (e ErrorCode) HTTPStatusCode() int {
	switch e {
	case ErrorCodeMissingFields, ErrorCodeInvalidWallet, ErrorCodeInvalidInput,
		ErrorCodeMalformedJSON, ErrorCodeInsufficientBalance:
		return http.StatusBadRequest
	case ErrorCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrorCodeRateFeedError, ErrorCodeChainError,
		ErrorCodeTransactionFailed, ErrorCodePaymentProviderError,
		ErrorCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Error     ErrorDetail `json:"error"`
	Timestamp time.Time   `json:"timestamp"`
}

// AppError represents an application error with an underlying cause that is
// logged but never written to the response body.
type AppError struct {
	Code    ErrorCode
	Message string
	Details string
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewAppErrorWithDetails creates a new application error with client-visible details
func NewAppErrorWithDetails(code ErrorCode, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewAppErrorWithCause creates a new application error wrapping a cause
func NewAppErrorWithCause(code ErrorCode, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// ErrorLogger is the subset of the logger the error writer needs.
type ErrorLogger interface {
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

// HandleError logs an application error and writes the JSON error envelope.
// Collaborator causes are logged with the operator-facing detail; the client
// only ever sees the code, message, and optional details.
func HandleError(c *gin.Context, err error, log ErrorLogger) {
	appErr, ok := err.(*AppError)
	if !ok {
		appErr = NewAppErrorWithCause(ErrorCodeInternalError, "Internal server error", err)
	}

	status := appErr.Code.HTTPStatusCode()

	fields := []zap.Field{
		zap.String("error_code", string(appErr.Code)),
		zap.String("error_message", appErr.Message),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	}
	if appErr.Cause != nil {
		fields = append(fields, zap.Error(appErr.Cause))
	}

	if status >= http.StatusInternalServerError {
		log.Error("Application error", fields...)
	} else {
		log.Warn("Client error", fields...)
	}

	c.JSON(status, &ErrorResponse{
		Error: ErrorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
		Timestamp: time.Now().UTC(),
	})
}
