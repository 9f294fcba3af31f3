package server

import (
	"context"
	"net/http"
	"time"

	"gymcore/internal/api"
	"gymcore/internal/email"
	"gymcore/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// @Summary      Health check
// @Description  Reports unavailable when the database does not answer
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Failure      503 {object} api.HealthResponse
// @Router       /health [get]
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Warn("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, api.HealthResponse{Status: "unavailable"})
			return
		}
		c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
	}
}

// @Summary      Queue a test email
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        email query string true "Recipient email"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/test-email [post]
func TestEmail(emailService *email.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		testEmail := c.Query("email")
		if testEmail == "" {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "email parameter required", Code: "validation"})
			return
		}

		if err := emailService.Send(c.Request.Context(), testEmail, "Test User", "Test Email from GymCore", "Email is working!"); err != nil {
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error(), Code: "internal"})
			return
		}

		c.JSON(http.StatusOK, api.MessageResponse{Message: "Email queued successfully"})
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
