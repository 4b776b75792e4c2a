// Package metrics provides gin middleware recording request metrics.
package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Observer receives one measurement per completed request.
type Observer interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
}

// Middleware times every request and reports it to the observer. The route
// template is used as the path label so ids do not explode cardinality.
func Middleware(obs Observer) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		obs.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
