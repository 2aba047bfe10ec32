package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/findmyroom/findmyroom-api/internal/container"
	handlers "github.com/findmyroom/findmyroom-api/internal/interface/http"
	"github.com/findmyroom/findmyroom-api/internal/interface/middleware"
	"github.com/findmyroom/findmyroom-api/pkg/helpers"
)

// AuthModule wires the local credential endpoints.
// Public: POST /api/signup, /api/login, /api/forgot-password, /api/verify-otp,
// /api/reset-password. Protected: GET /api/profile, POST /api/logout.
// The per-route limits on the OTP endpoints bound code guessing inside the
// expiry window.
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	signupLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	forgotLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	otpLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/forgot-password", forgotLimiter, m.Handler.ForgotPassword)
	rg.POST("/verify-otp", otpLimiter, m.Handler.VerifyOTP)
	rg.POST("/reset-password", otpLimiter, m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.POST("/logout", m.Handler.Logout)
	}
}
