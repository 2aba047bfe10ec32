package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/findmyroom/findmyroom-api/internal/application"
	"github.com/findmyroom/findmyroom-api/pkg/helpers"
	"github.com/findmyroom/findmyroom-api/pkg/response"
	"github.com/findmyroom/findmyroom-api/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.AuthService
	JWT     *helpers.JWTManager
	Cookies *helpers.CookieManager
	RDB     *redis.Client
	Logger  *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, jwt *helpers.JWTManager, cookies *helpers.CookieManager, rdb *redis.Client, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, JWT: jwt, Cookies: cookies, RDB: rdb, Logger: logger}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

// fail maps use-case errors to HTTP statuses. Anything outside the known set
// is logged and coerced to a generic 500.
func (h *AuthHandler) fail(c *gin.Context, err error) {
	var weak *application.WeakPasswordError
	switch {
	case errors.As(err, &weak):
		response.Error[any](c, http.StatusBadRequest, weak.Reason, nil)
	case errors.Is(err, application.ErrUserExists):
		response.Error[any](c, http.StatusBadRequest, "User already exists", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid email or password", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, application.ErrOTPInvalid):
		response.Error[any](c, http.StatusBadRequest, "Invalid OTP", nil)
	case errors.Is(err, application.ErrOTPExpired):
		response.Error[any](c, http.StatusBadRequest, "OTP expired", nil)
	case errors.Is(err, application.ErrNotificationFailed):
		response.Error[any](c, http.StatusInternalServerError, "Failed to send OTP email", nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("path", c.FullPath()).Error("unclassified auth failure")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// Signup POST /api/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	p, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "User registered successfully")
}

// Login POST /api/login
// On success a session token is issued and set as an HttpOnly cookie, and a
// session record is written to Redis.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	p, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	token, exp, err := h.JWT.Issue(p.ID, p.Email, p.FirstName, p.LastName)
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.Cookies != nil {
		h.Cookies.SetSession(c, token, exp)
	}
	recordSession(c, h.RDB, h.JWT.SessionTTL, p, h.Logger)

	response.Success(c, http.StatusOK, gin.H{"user": p, "token": token}, "Login successful")
}

// recordSession writes the session record Auth checks for. Shared by local
// login and the federated callback so both issue the same session shape.
func recordSession(c *gin.Context, rdb *redis.Client, ttl time.Duration, p *application.Profile, logger *logrus.Logger) {
	if rdb == nil {
		return
	}
	key := sessionKey(p.ID)
	pipe := rdb.Pipeline()
	pipe.HSet(c.Request.Context(), key, map[string]any{
		"user_id":    p.ID,
		"email":      p.Email,
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"sid":        uuid.NewString(),
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(c.Request.Context(), key, ttl)
	if _, err := pipe.Exec(c.Request.Context()); err != nil && logger != nil {
		logger.WithError(err).WithField("key", key).Warn("redis session write failed")
	}
}

// ForgotPassword POST /api/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"email": application.SanitizeEmail(req.Email)}, "OTP sent to your email")
}

// VerifyOTP POST /api/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required,len=6,numeric"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if err := h.Svc.VerifyOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "OTP verified successfully")
}

// ResetPassword POST /api/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		OTP         string `json:"otp" binding:"required,len=6,numeric"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if err := h.Svc.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Password reset successfully")
}

// GetProfile GET /api/profile (auth required)
func (h *AuthHandler) GetProfile(c *gin.Context) {
	uid := c.GetString("userID")
	if uid == "" {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	p, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile")
}

// Logout POST /api/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	uid := c.GetString("userID")
	if uid != "" && h.RDB != nil {
		if err := h.RDB.Del(c.Request.Context(), sessionKey(uid)).Err(); err != nil && h.Logger != nil {
			h.Logger.WithError(err).Warn("redis session delete failed")
		}
	}
	if h.Cookies != nil {
		h.Cookies.Clear(c)
	}
	response.Success[any](c, http.StatusOK, nil, "logged out")
}
