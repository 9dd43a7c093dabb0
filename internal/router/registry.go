package router

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Module registers one feature's routes on the shared group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and mounts them on one route group.
type Registry struct {
	Engine      *gin.Engine
	Root        *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

// NewRegistry mounts modules under prefix; "" mounts them at the root.
func NewRegistry(engine *gin.Engine, prefix string) *Registry {
	return &Registry{Engine: engine, Root: engine.Group("/" + strings.Trim(prefix, "/"))}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod ...Module) {
	r.modules = append(r.modules, mod...)
}

// RegisterAll applies the shared middleware, then lets every module add its routes.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.Root.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.Root)
	}
}
