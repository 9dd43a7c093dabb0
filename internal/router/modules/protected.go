package modules

import "github.com/gin-gonic/gin"

// Protected is the middleware chain for routes that need a bearer token:
// authentication first, then the per-user limiter.
type Protected struct {
	Auth  gin.HandlerFunc
	Limit gin.HandlerFunc
}

func (p Protected) group(rg *gin.RouterGroup, path string) *gin.RouterGroup {
	g := rg.Group(path)
	g.Use(p.Auth)
	if p.Limit != nil {
		g.Use(p.Limit)
	}
	return g
}
