package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func realIPOf(t *testing.T, hdr map[string]string) string {
	t.Helper()
	var got string
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) {
		got = c.GetString("real_ip")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.4:1234"
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestRealIPPrecedence(t *testing.T) {
	if got := realIPOf(t, map[string]string{
		"CF-Connecting-IP": "203.0.113.9",
		"X-Forwarded-For":  "192.0.2.1, 10.0.0.1",
	}); got != "203.0.113.9" {
		t.Fatalf("cloudflare header should win, got %q", got)
	}

	if got := realIPOf(t, map[string]string{
		"X-Forwarded-For": "192.0.2.1, 10.0.0.1",
	}); got != "192.0.2.1" {
		t.Fatalf("left-most forwarded hop should win, got %q", got)
	}

	if got := realIPOf(t, map[string]string{
		"X-Forwarded-For": "not-an-ip",
	}); got != "198.51.100.4" {
		t.Fatalf("garbage header should fall back to remote addr, got %q", got)
	}

	if got := realIPOf(t, nil); got != "198.51.100.4" {
		t.Fatalf("no headers should fall back to remote addr, got %q", got)
	}
}
