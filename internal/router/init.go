package router

import (
	"github.com/findmyroom/findmyroom-api/internal/application"
	"github.com/findmyroom/findmyroom-api/internal/container"
	pginfra "github.com/findmyroom/findmyroom-api/internal/infrastructure/postgres"
	handlers "github.com/findmyroom/findmyroom-api/internal/interface/http"
	"github.com/findmyroom/findmyroom-api/internal/router/modules"
)

// InitModules builds the auth modules from the container singletons and
// registers them with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())
	notifier := application.NewRabbitNotifier(container.GetRabbitPub(), container.GetLogger())

	authSvc := application.NewAuthService(repo, notifier, container.GetLogger(), cfg.BcryptCost, cfg.OTPTTL)
	authHandler := handlers.NewAuthHandler(authSvc, container.GetJWT(), container.GetCookies(), container.GetRedis(), container.GetLogger())
	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewHealthModule())

	if cfg.GoogleEnabled && cfg.GoogleOAuthConfigured() {
		oauthCfg := application.NewGoogleOAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
		googleSvc := application.NewGoogleAuthService(oauthCfg, repo, container.GetJWT(), container.GetLogger())
		googleHandler := handlers.NewGoogleAuthHandler(googleSvc, container.GetCookies(), container.GetRedis(), cfg.FrontendURL, container.GetLogger())
		r.Add(modules.NewGoogleModule(googleHandler))
	}
}
