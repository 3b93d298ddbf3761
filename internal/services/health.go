package services

import (
	"context"
	"time"
)

// HealthStatus represents the health state of a dependency.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck is the result of probing one dependency.
type HealthCheck struct {
	Status    HealthStatus `json:"status"`
	Message   string       `json:"message,omitempty"`
	Duration  string       `json:"duration"`
	CheckedAt time.Time    `json:"checked_at"`
}

// ChainHealth is the probe surface the health checker needs from the RPC
// client.
type ChainHealth interface {
	IsHealthy() error
}

// GatewayHealthChecker probes the gateway's two collaborators: the node RPC
// endpoint and the configured price feed.
type GatewayHealthChecker struct {
	chain ChainHealth
	rates RateSource
}

// NewGatewayHealthChecker creates a health checker over the chain client and
// rate source.
func NewGatewayHealthChecker(chain ChainHealth, rates RateSource) *GatewayHealthChecker {
	return &GatewayHealthChecker{
		chain: chain,
		rates: rates,
	}
}

// CheckChain probes the RPC endpoint.
func (h *GatewayHealthChecker) CheckChain() *HealthCheck {
	start := time.Now()
	check := &HealthCheck{Status: HealthStatusHealthy, CheckedAt: start}

	if err := h.chain.IsHealthy(); err != nil {
		check.Status = HealthStatusUnhealthy
		check.Message = err.Error()
	}

	check.Duration = time.Since(start).String()
	return check
}

// CheckPriceFeed probes the configured rate source with a short deadline.
func (h *GatewayHealthChecker) CheckPriceFeed() *HealthCheck {
	start := time.Now()
	check := &HealthCheck{Status: HealthStatusHealthy, CheckedAt: start}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := h.rates.FetchRate(ctx); err != nil {
		check.Status = HealthStatusUnhealthy
		check.Message = err.Error()
	}

	check.Duration = time.Since(start).String()
	return check
}

// DetailedHealth probes every dependency.
func (h *GatewayHealthChecker) DetailedHealth() map[string]*HealthCheck {
	return map[string]*HealthCheck{
		"rpc":        h.CheckChain(),
		"price_feed": h.CheckPriceFeed(),
	}
}
