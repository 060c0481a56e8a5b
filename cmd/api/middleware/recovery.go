package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"techsphere/cmd/api/metrics"
	"techsphere/cmd/api/trace"
	"techsphere/cmd/internal/logger"
)

// Recovery turns a handler panic into a 500 JSON response. In production the
// panic value is replaced by a generic message; elsewhere the stack is included.
func Recovery(production bool, m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := string(debug.Stack())
			logger.ErrorWithFields("panic serving request", trace.LogFields(c.Request.Context(), logger.Fields{
				"path":  c.Request.URL.Path,
				"panic": fmt.Sprint(r),
				"stack": stack,
			}))
			if m != nil {
				m.CounterHandleRequestPanic.Inc()
			}

			if production {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": fmt.Sprint(r),
				"stack": stack,
			})
		}()
		c.Next()
	}
}
