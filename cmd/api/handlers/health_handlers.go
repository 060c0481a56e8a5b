package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"techsphere/cmd/api/dto"
	"techsphere/cmd/api/trace"
	"techsphere/cmd/internal/logger"
)

// PingFunc checks the backing store. Nil means the in-memory demo store.
type PingFunc func(ctx context.Context) error

// HealthHandler godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponseDTO
// @Failure      503  {object}  dto.HealthResponseDTO
// @Router       /health [get]
func HealthHandler(ping PingFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping == nil {
			c.JSON(http.StatusOK, dto.HealthResponseDTO{
				Status:  "OK",
				Message: "TechSphere API is running (Demo Mode)",
				Mode:    "DEMO",
			})
			return
		}

		if err := ping(c.Request.Context()); err != nil {
			logger.WarnWithFields("health check failed", trace.LogFields(c.Request.Context(), logger.Fields{
				"error": err.Error(),
			}))
			c.JSON(http.StatusServiceUnavailable, dto.HealthResponseDTO{
				Status:  "DEGRADED",
				Message: "Database unreachable",
				Mode:    "MONGO",
			})
			return
		}
		c.JSON(http.StatusOK, dto.HealthResponseDTO{
			Status:  "OK",
			Message: "TechSphere API is running",
			Mode:    "MONGO",
		})
	}
}
