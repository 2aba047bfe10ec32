package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"github.com/findmyroom/findmyroom-api/internal/application"
	"github.com/findmyroom/findmyroom-api/internal/interface/middleware"
	"github.com/findmyroom/findmyroom-api/pkg/helpers"
)

const frontendURL = "http://front.example"

// fakeGoogle serves the token and userinfo endpoints for callback tests.
func fakeGoogle(t *testing.T, verified bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(application.GoogleProfile{
			ID: "goog-9", Email: "g@b.com", VerifiedEmail: verified,
			GivenName: "Grace", FamilyName: "Bell",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type googleEnv struct {
	router *gin.Engine
	rdb    *redis.Client
	jwt    *helpers.JWTManager
}

func newGoogleEnv(t *testing.T, provider *httptest.Server) *googleEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := application.NewGoogleOAuthConfig("cid", "cs", frontendURL+"/cb")
	cfg.Endpoint = oauth2.Endpoint{AuthURL: provider.URL + "/auth", TokenURL: provider.URL + "/token"}
	jwt := helpers.NewJWTManager("g-secret", time.Hour)
	svc := application.NewGoogleAuthService(cfg, newMemRepo(), jwt, nil)
	svc.UserInfoURL = provider.URL + "/userinfo"
	svc.HTTPClient = provider.Client()

	h := NewGoogleAuthHandler(svc, helpers.NewCookie("", false), rdb, frontendURL, nil)
	ah := &AuthHandler{Svc: application.NewAuthService(svc.Repo, &memNotifier{}, nil, 4, 10*time.Minute), JWT: jwt, RDB: rdb}

	r := gin.New()
	r.GET("/api/auth/google/url", h.GetAuthURL)
	r.GET("/api/auth/google/callback", h.Callback)
	r.GET("/api/profile", middleware.Auth(rdb, jwt), ah.GetProfile)
	return &googleEnv{router: r, rdb: rdb, jwt: jwt}
}

func (e *googleEnv) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGoogleAuthURLEndpoint(t *testing.T) {
	e := newGoogleEnv(t, fakeGoogle(t, true))

	w := e.get("/api/auth/google/url")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "client_id=cid") {
		t.Fatalf("body missing auth url: %s", w.Body.String())
	}
}

func TestGoogleCallbackRedirects(t *testing.T) {
	t.Run("missing code", func(t *testing.T) {
		e := newGoogleEnv(t, fakeGoogle(t, true))
		w := e.get("/api/auth/google/callback")
		if w.Code != http.StatusFound {
			t.Fatalf("status %d", w.Code)
		}
		if loc := w.Header().Get("Location"); loc != frontendURL+"/signup?error=no_code" {
			t.Fatalf("location %q", loc)
		}
	})

	t.Run("unverified email", func(t *testing.T) {
		e := newGoogleEnv(t, fakeGoogle(t, false))
		w := e.get("/api/auth/google/callback?code=c1")
		if loc := w.Header().Get("Location"); loc != frontendURL+"/signup?error=email_not_verified" {
			t.Fatalf("location %q", loc)
		}
	})

	t.Run("success", func(t *testing.T) {
		e := newGoogleEnv(t, fakeGoogle(t, true))
		w := e.get("/api/auth/google/callback?code=c1")
		if w.Code != http.StatusFound {
			t.Fatalf("status %d: %s", w.Code, w.Body.String())
		}

		loc, err := url.Parse(w.Header().Get("Location"))
		if err != nil {
			t.Fatalf("parse location: %v", err)
		}
		if loc.Path != "/auth/callback" {
			t.Fatalf("path %q", loc.Path)
		}
		if loc.Query().Get("token") == "" {
			t.Fatal("redirect missing session token")
		}
		var p application.Profile
		if err := json.Unmarshal([]byte(loc.Query().Get("user")), &p); err != nil {
			t.Fatalf("user payload: %v", err)
		}
		if p.Email != "g@b.com" || !p.IsVerified {
			t.Fatalf("unexpected profile %+v", p)
		}
	})
}

// The callback token is a full session credential: it must pass the Auth
// middleware on protected routes, the same as a token from local login.
func TestGoogleCallbackTokenUsableOnProtectedRoutes(t *testing.T) {
	e := newGoogleEnv(t, fakeGoogle(t, true))

	w := e.get("/api/auth/google/callback?code=c1")
	if w.Code != http.StatusFound {
		t.Fatalf("callback status %d", w.Code)
	}
	loc, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	token := loc.Query().Get("token")

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_token" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != token || !cookie.HttpOnly {
		t.Fatalf("callback must set the HttpOnly session cookie, got %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile with callback token: status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"g@b.com"`) {
		t.Fatalf("profile body: %s", rec.Body.String())
	}
}
