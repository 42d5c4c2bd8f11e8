package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/lifebalance/intake-api/internal/handler"
	"github.com/lifebalance/intake-api/internal/handler/intake"
	prom "github.com/lifebalance/intake-api/internal/handler/prometheus"
	"github.com/lifebalance/intake-api/internal/middleware"
	"github.com/lifebalance/intake-api/pkg/errors"
	"github.com/lifebalance/intake-api/pkg/httputil"
	"github.com/lifebalance/intake-api/pkg/metrics"
)

type RouterConfig struct {
	Mode           string
	AllowedOrigins []string
	MaxBodyBytes   int64

	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	// SubmitLimit applies to the submit route on top of RateLimit.
	SubmitLimit rate.Limit
	SubmitBurst int

	// Gatherer is served on /metrics when set.
	Gatherer prometheus.Gatherer
	Metrics  *metrics.Metrics
}

type Router struct {
	engine   *gin.Engine
	config   RouterConfig
	intakeH  *intake.Handler
	handlers []handler.Handler
}

// NewRouter builds the engine with the core middleware chain. handlers are
// mounted under /api/v1 next to the intake routes.
func NewRouter(intakeH *intake.Handler, config RouterConfig, handlers ...handler.Handler) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	r := &Router{
		engine:   engine,
		config:   config,
		intakeH:  intakeH,
		handlers: handlers,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
	)
	if config.Metrics != nil {
		engine.Use(middleware.Metrics(config.Metrics))
	}
	engine.Use(
		middleware.CORS(middleware.DefaultCORSConfig(config.AllowedOrigins...)),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.SizeLimit(middleware.SizeLimitConfig{
			MaxBodySize:   config.MaxBodyBytes,
			MaxHeaderSize: middleware.DefaultSizeLimitConfig().MaxHeaderSize,
		}),
	)

	if config.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(limiter.RateLimit())
	}

	engine.NoRoute(func(c *gin.Context) {
		httputil.RespondWithError(c, errors.NotFound("route", nil))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, httputil.Response{
			Error: &httputil.Error{Code: http.StatusMethodNotAllowed, Message: "method not allowed"},
		})
	})

	return r
}

func (r *Router) Setup() {
	if r.config.Gatherer != nil {
		r.engine.GET("/metrics", prom.New(r.config.Gatherer).Handler())
	}

	api := r.engine.Group("/api/v1")
	for _, h := range r.handlers {
		h.RegisterRoutes(api)
	}

	r.intakeH.RegisterRoutes(api)

	var submitMW []gin.HandlerFunc
	if r.config.RateLimitEnabled && r.config.SubmitLimit > 0 {
		submitLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  r.config.SubmitLimit,
			Burst: max(r.config.SubmitBurst, 1),
		})
		submitMW = append(submitMW, submitLimiter.RateLimit())
	}
	r.intakeH.RegisterSubmitRoute(api, submitMW...)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
