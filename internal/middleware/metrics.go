package middleware

import (
	"strconv"
	"time"

	"github.com/Mrkivi24/onlycats/internal/metrics"

	"github.com/gin-gonic/gin"
)

// PrometheusMiddleware 按路由模板记录请求耗时，未匹配的路由归为 unmatched。
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.APIRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
