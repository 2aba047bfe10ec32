package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(t *testing.T, max int, window time.Duration, allow AllowFunc) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.POST("/api/login", RateLimit(rdb, max, window, KeyByIPAndPath(), allow), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, mr
}

func hit(r *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "203.0.113.7:4321"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitEnforced(t *testing.T) {
	r, _ := limitedRouter(t, 3, time.Minute, nil)

	for i := 1; i <= 3; i++ {
		if w := hit(r); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	w := hit(r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("over limit: status %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}
	if w.Header().Get("X-RateLimit-Remaining") != "-1" {
		t.Fatalf("remaining header %q", w.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimitWindowResets(t *testing.T) {
	r, mr := limitedRouter(t, 1, time.Minute, nil)

	if w := hit(r); w.Code != http.StatusOK {
		t.Fatalf("first: status %d", w.Code)
	}
	if w := hit(r); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second: status %d", w.Code)
	}

	mr.FastForward(time.Minute + time.Second)
	if w := hit(r); w.Code != http.StatusOK {
		t.Fatalf("after window: status %d", w.Code)
	}
}

func TestRateLimitAllowBypass(t *testing.T) {
	r, _ := limitedRouter(t, 1, time.Minute, func(*gin.Context) bool { return true })

	for i := 0; i < 5; i++ {
		if w := hit(r); w.Code != http.StatusOK {
			t.Fatalf("bypassed request got %d", w.Code)
		}
	}
}

func TestRateLimitNilRedisFailsOpen(t *testing.T) {
	r := gin.New()
	r.POST("/api/login", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	for i := 0; i < 3; i++ {
		if w := hit(r); w.Code != http.StatusOK {
			t.Fatalf("status %d without redis", w.Code)
		}
	}
}
