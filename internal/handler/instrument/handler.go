package instrument

import (
	"github.com/gin-gonic/gin"

	"github.com/lifebalance/intake-api/internal/measure"
	intakesvc "github.com/lifebalance/intake-api/internal/service/intake"
	"github.com/lifebalance/intake-api/pkg/httputil"
)

// Handler publishes the questionnaire definitions and the step list the
// front-end renders from.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/instruments", h.List)
	r.GET("/steps", h.Steps)
}

func (h *Handler) List(c *gin.Context) {
	httputil.RespondWithSuccess(c, measure.All())
}

func (h *Handler) Steps(c *gin.Context) {
	httputil.RespondWithSuccess(c, intakesvc.Steps())
}
