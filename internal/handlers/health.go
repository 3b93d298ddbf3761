package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/services"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	checker *services.GatewayHealthChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker *services.GatewayHealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// HealthResponse represents the overall health response
type HealthResponse struct {
	Status    services.HealthStatus            `json:"status"`
	Timestamp time.Time                        `json:"timestamp"`
	Services  map[string]*services.HealthCheck `json:"services"`
}

// GetHealth returns the overall health status
func (h *HealthHandler) GetHealth(c *gin.Context) {
	checks := h.checker.DetailedHealth()

	overall := services.HealthStatusHealthy
	for _, check := range checks {
		if check.Status == services.HealthStatusUnhealthy {
			overall = services.HealthStatusUnhealthy
			break
		}
	}

	statusCode := http.StatusOK
	if overall == services.HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    overall,
		Timestamp: time.Now(),
		Services:  checks,
	})
}

// GetLiveness returns a simple liveness check
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

// GetReadiness reports whether the node RPC dependency is reachable
func (h *HealthHandler) GetReadiness(c *gin.Context) {
	if check := h.checker.CheckChain(); check.Status == services.HealthStatusUnhealthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not_ready",
			"message":   "node RPC not available",
			"timestamp": time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now(),
	})
}
