package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/findmyroom/findmyroom-api/pkg/helpers"
)

func authRouter(jwt *helpers.JWTManager, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	r.GET("/protected", Auth(rdb, jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":    c.GetString("userID"),
			"userEmail": c.GetString("userEmail"),
		})
	})
	return r
}

func TestAuthMissingToken(t *testing.T) {
	r := authRouter(helpers.NewJWTManager("mw-secret", time.Hour), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d", w.Code)
	}
}

func TestAuthBearerHeader(t *testing.T) {
	jwt := helpers.NewJWTManager("mw-secret", time.Hour)
	r := authRouter(jwt, nil)

	token, _, err := jwt.Issue("user-1", "a@b.com", "Ada", "Byron")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{`"user-1"`, `"a@b.com"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %s: %s", want, body)
		}
	}
}

func TestAuthSessionCookie(t *testing.T) {
	jwt := helpers.NewJWTManager("mw-secret", time.Hour)
	r := authRouter(jwt, nil)

	token, _, err := jwt.Issue("user-1", "a@b.com", "Ada", "Byron")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthExpiredToken(t *testing.T) {
	expired := helpers.NewJWTManager("mw-secret", -time.Minute)
	r := authRouter(helpers.NewJWTManager("mw-secret", time.Hour), nil)

	token, _, err := expired.Issue("user-1", "a@b.com", "Ada", "Byron")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "session expired") {
		t.Fatalf("body: %s", w.Body.String())
	}
}

func TestAuthRequiresSessionRecord(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	jwt := helpers.NewJWTManager("mw-secret", time.Hour)
	r := authRouter(jwt, rdb)

	token, _, err := jwt.Issue("user-1", "a@b.com", "Ada", "Byron")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	// valid token but no session record: rejected
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("without session: status %d", w.Code)
	}

	if err := rdb.HSet(context.Background(), "user:session:user-1", "email", "a@b.com").Err(); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("with session: status %d: %s", w.Code, w.Body.String())
	}
}

