package httpmiddleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/csesnitw/MessApp-server/internal/metrics"
)

// RequestMetrics records a duration sample per request, labeled by route
// template (not raw path) to keep cardinality bounded.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RequestDuration.
			WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
