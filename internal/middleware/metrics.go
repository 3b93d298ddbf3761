package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/pkg/metrics"
)

// MetricsMiddleware records status and latency for every request.
func MetricsMiddleware(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		collector.RecordRequest(c.Writer.Status(), time.Since(start))
	}
}
