package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks in-process request and transaction counters. It holds no
// per-request state beyond the aggregates it exposes.
type Collector struct {
	totalRequests  int64
	totalLatencyNs int64

	txSubmitted int64
	txFailed    int64

	mu           sync.RWMutex
	statusCounts map[int]int64
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		statusCounts: make(map[int]int64),
	}
}

// RecordRequest records one completed HTTP request.
func (c *Collector) RecordRequest(statusCode int, latency time.Duration) {
	atomic.AddInt64(&c.totalRequests, 1)
	atomic.AddInt64(&c.totalLatencyNs, latency.Nanoseconds())

	c.mu.Lock()
	c.statusCounts[statusCode]++
	c.mu.Unlock()
}

// RecordTransaction records one submitted contract transaction.
func (c *Collector) RecordTransaction(success bool) {
	atomic.AddInt64(&c.txSubmitted, 1)
	if !success {
		atomic.AddInt64(&c.txFailed, 1)
	}
}

// Snapshot returns the current counters for the /metrics endpoint.
func (c *Collector) Snapshot() map[string]interface{} {
	total := atomic.LoadInt64(&c.totalRequests)
	latencyNs := atomic.LoadInt64(&c.totalLatencyNs)

	var avgLatency time.Duration
	if total > 0 {
		avgLatency = time.Duration(latencyNs / total)
	}

	c.mu.RLock()
	statuses := make(map[int]int64, len(c.statusCounts))
	for code, count := range c.statusCounts {
		statuses[code] = count
	}
	c.mu.RUnlock()

	return map[string]interface{}{
		"total_requests":         total,
		"average_latency":        avgLatency.String(),
		"status_counts":          statuses,
		"transactions_submitted": atomic.LoadInt64(&c.txSubmitted),
		"transactions_failed":    atomic.LoadInt64(&c.txFailed),
	}
}
