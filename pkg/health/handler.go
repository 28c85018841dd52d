package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LivenessHandler answers 200 while the process can serve requests; it never calls out.
func LivenessHandler(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, gin.H{"service": service, "status": StatusUp})
	}
}

// ReadinessHandler runs every registered check under timeout. Any down check yields 503.
func ReadinessHandler(registry *Registry, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		res := registry.CheckAll(ctx)

		c.Header("Cache-Control", "no-store")
		if res.Status == StatusDown {
			c.JSON(http.StatusServiceUnavailable, res)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
