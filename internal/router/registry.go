package router

import "github.com/gin-gonic/gin"

// Module is a feature area (auth, google, health) that registers its own
// routes on the shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and group-level middleware, then mounts
// everything under /api in one pass at startup.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// RegisterAll applies the group middleware and mounts every module. Middleware
// added after this call would not cover module routes.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
