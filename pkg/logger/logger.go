package logger

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextKey represents keys used in context for logging
type ContextKey string

const (
	// CorrelationIDKey is the key for correlation ID in context
	CorrelationIDKey ContextKey = "correlation_id"
	// RequestIDKey is the key for request ID in context
	RequestIDKey ContextKey = "request_id"
)

// Logger wraps zap with request-context helpers
type Logger struct {
	*zap.Logger
}

// Config represents logger configuration
type Config struct {
	Level       string   `json:"level"`
	Environment string   `json:"environment"`
	OutputPaths []string `json:"output_paths"`
}

var globalLogger *Logger

// Initialize sets up the global logger
func Initialize(config *Config) error {
	var zapConfig zap.Config

	if config.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
		zapConfig.DisableStacktrace = true
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level = level

	if len(config.OutputPaths) > 0 {
		zapConfig.OutputPaths = config.OutputPaths
	}

	zapConfig.InitialFields = map[string]interface{}{
		"service": "nft-gateway",
	}

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	globalLogger = &Logger{Logger: zapLogger}
	return nil
}

// GetLogger returns the global logger, initializing a development fallback
// if Initialize was never called.
func GetLogger() *Logger {
	if globalLogger == nil {
		if err := Initialize(&Config{Level: "info", Environment: "development"}); err != nil {
			panic(fmt.Sprintf("failed to initialize fallback logger: %v", err))
		}
	}
	return globalLogger
}

// WithContext returns a logger annotated with the correlation and request IDs
// carried by ctx, if any.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	fields := []zap.Field{}

	if correlationID := GetCorrelationIDFromContext(ctx); correlationID != "" {
		fields = append(fields, zap.String("correlation_id", correlationID))
	}
	if requestID := GetRequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	return &Logger{Logger: l.Logger.With(fields...)}
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.Logger.Sync()
}

// ContextWithCorrelationID adds a correlation ID to the context
func ContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

// ContextWithRequestID adds a request ID to the context
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetCorrelationIDFromContext extracts the correlation ID from the context
func GetCorrelationIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return v
	}
	return ""
}

// GetRequestIDFromContext extracts the request ID from the context
func GetRequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey).(string); ok {
		return v
	}
	return ""
}

// LoggingMiddleware creates a Gin middleware for structured request logging
// with correlation IDs.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		correlationID := uuid.New().String()
		requestID := uuid.New().String()

		ctx := c.Request.Context()
		ctx = ContextWithCorrelationID(ctx, correlationID)
		ctx = ContextWithRequestID(ctx, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Header("X-Correlation-ID", correlationID)
		c.Header("X-Request-ID", requestID)

		log := GetLogger().WithContext(ctx)

		log.Info("Request started",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
		)

		c.Next()

		statusCode := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status_code", statusCode),
			zap.Duration("duration", time.Since(start)),
			zap.Int("response_size", c.Writer.Size()),
		}

		switch {
		case statusCode >= 500:
			log.Error("Request completed", fields...)
		case statusCode >= 400:
			log.Warn("Request completed", fields...)
		default:
			log.Info("Request completed", fields...)
		}
	}
}

// RecoveryMiddleware creates a Gin middleware for panic recovery with logging
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		ctx := c.Request.Context()
		log := GetLogger().WithContext(ctx)

		log.Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
		)

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Internal server error",
			},
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
			"correlation_id": GetCorrelationIDFromContext(ctx),
		})
	})
}
