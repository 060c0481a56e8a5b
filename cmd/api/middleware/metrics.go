package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"techsphere/cmd/api/metrics"
)

// RequestMetrics counts requests by route template so ids don't explode label cardinality.
func RequestMetrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.GaugeRequests.Inc()
		defer m.GaugeRequests.Dec()

		begin := time.Now()
		defer func() {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			m.HistRequestDuration.WithLabelValues(route).Observe(time.Since(begin).Seconds())
			m.CounterRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		}()
		c.Next()
	}
}
