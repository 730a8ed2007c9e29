package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that matched no route, keeping label
// cardinality bounded.
const unmatchedRoute = "unmatched"

// Middleware records request counts and latency per route template.
func (p *Prometheus) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method

		p.requestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		p.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
