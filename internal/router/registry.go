package router

import "github.com/gin-gonic/gin"

// Module is one feature area of the API. Each module mounts its own routes,
// rate limits and guards under the shared /api group.
type Module interface {
	Mount(api *gin.RouterGroup)
}

// Registry collects feature modules and mounts them under /api in the order
// they were added.
type Registry struct {
	Engine  *gin.Engine
	api     *gin.RouterGroup
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, api: engine.Group("/api")}
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// MountAll wires every added module into the API group.
func (r *Registry) MountAll() {
	for _, m := range r.modules {
		m.Mount(r.api)
	}
}
