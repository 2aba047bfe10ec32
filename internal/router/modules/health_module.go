package modules

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/findmyroom/findmyroom-api/internal/container"
	"github.com/findmyroom/findmyroom-api/internal/interface/middleware"
	"github.com/findmyroom/findmyroom-api/pkg/response"
)

// HealthModule exposes a liveness/readiness probe that pings the store and
// the session cache with bounded timeouts.
type HealthModule struct{}

func NewHealthModule() *HealthModule { return &HealthModule{} }

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/healthz", rl, func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"postgres": "ok", "redis": "ok"}
		code := http.StatusOK
		if pool := container.GetPGPool(); pool != nil {
			if err := pool.Ping(ctx); err != nil {
				status["postgres"] = "unavailable"
				code = http.StatusServiceUnavailable
			}
		}
		if rdb := container.GetRedis(); rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				status["redis"] = "unavailable"
				code = http.StatusServiceUnavailable
			}
		}
		if code != http.StatusOK {
			response.Error[any](c, code, "degraded", status)
			return
		}
		response.Success(c, code, status, "ok")
	})
}
