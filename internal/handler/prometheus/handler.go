package prometheus

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler exposes a registry in the Prometheus text format.
type Handler struct {
	gatherer prometheus.Gatherer
}

// New serves g. A nil g serves the default registry.
func New(g prometheus.Gatherer) *Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return &Handler{gatherer: g}
}

func (h *Handler) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}
