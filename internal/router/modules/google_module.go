package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/findmyroom/findmyroom-api/internal/container"
	handlers "github.com/findmyroom/findmyroom-api/internal/interface/http"
	"github.com/findmyroom/findmyroom-api/internal/interface/middleware"
)

// GoogleModule wires the federated sign-in endpoints.
// Public: GET /api/auth/google/url, GET /api/auth/google/callback.
type GoogleModule struct {
	Handler *handlers.GoogleAuthHandler
}

func NewGoogleModule(h *handlers.GoogleAuthHandler) *GoogleModule {
	return &GoogleModule{Handler: h}
}

func (m *GoogleModule) Register(rg *gin.RouterGroup) {
	callbackLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.GET("/auth/google/url", m.Handler.GetAuthURL)
	rg.GET("/auth/google/callback", callbackLimiter, m.Handler.Callback)
}
