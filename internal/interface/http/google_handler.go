package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/findmyroom/findmyroom-api/internal/application"
	"github.com/findmyroom/findmyroom-api/pkg/helpers"
	"github.com/findmyroom/findmyroom-api/pkg/response"
)

// GoogleAuthHandler exposes the federated sign-in endpoints. Every terminal
// outcome of the callback maps to exactly one redirect target.
type GoogleAuthHandler struct {
	Svc         *application.GoogleAuthService
	Cookies     *helpers.CookieManager
	RDB         *redis.Client
	FrontendURL string
	Logger      *logrus.Logger
}

func NewGoogleAuthHandler(svc *application.GoogleAuthService, cookies *helpers.CookieManager, rdb *redis.Client, frontendURL string, logger *logrus.Logger) *GoogleAuthHandler {
	return &GoogleAuthHandler{Svc: svc, Cookies: cookies, RDB: rdb, FrontendURL: frontendURL, Logger: logger}
}

// GetAuthURL GET /api/auth/google/url
func (h *GoogleAuthHandler) GetAuthURL(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"url": h.Svc.AuthCodeURL("state")}, "google auth url")
}

// Callback GET /api/auth/google/callback?code=...
func (h *GoogleAuthHandler) Callback(c *gin.Context) {
	res := h.Svc.HandleCallback(c.Request.Context(), c.Query("code"))

	if res.Outcome != application.OutcomeSuccess {
		c.Redirect(http.StatusFound, h.FrontendURL+"/signup?error="+string(res.Outcome))
		return
	}

	userData, err := json.Marshal(res.Profile)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("marshal callback profile failed")
		}
		c.Redirect(http.StatusFound, h.FrontendURL+"/signup?error="+string(application.OutcomeOAuthFailed))
		return
	}

	// same session shape as local login, so the callback token passes Auth
	if h.Cookies != nil {
		h.Cookies.SetSession(c, res.Token, time.Now().Add(h.Svc.JWT.SessionTTL))
	}
	recordSession(c, h.RDB, h.Svc.JWT.SessionTTL, res.Profile, h.Logger)

	q := url.Values{}
	q.Set("token", res.Token)
	q.Set("user", string(userData))
	c.Redirect(http.StatusFound, h.FrontendURL+"/auth/callback?"+q.Encode())
}
