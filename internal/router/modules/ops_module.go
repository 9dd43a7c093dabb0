package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bookshelf-api/internal/metrics"
)

// OpsModule exposes the liveness probe and, when enabled, Prometheus metrics.
type OpsModule struct {
	Metrics bool
}

func NewOpsModule(metricsEnabled bool) *OpsModule { return &OpsModule{Metrics: metricsEnabled} }

func (m *OpsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m.Metrics {
		rg.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
}
