package http

import (
	"time"

	"product_dashboard/internal/http/handlers"
	"product_dashboard/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// RouteConfig carries the handlers and limits the router is built from
type RouteConfig struct {
	Handler        *handlers.Handler
	Health         *handlers.HealthHandler
	Redis          *redis.Client // nil selects the in-process rate limiter
	RateLimit      int
	RateWindow     time.Duration
	AllowedOrigins []string
}

// NewRouter builds the gin engine with middleware and every route
func NewRouter(cfg RouteConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics(), middleware.CORS(cfg.AllowedOrigins))
	RegisterRoutes(r, cfg)
	return r
}

func RegisterRoutes(r *gin.Engine, cfg RouteConfig) {
	// Health checks and metrics (no rate limiting)
	if cfg.Health != nil {
		r.GET("/health", cfg.Health.Health)
		r.GET("/healthz", cfg.Health.Liveness)
		r.GET("/readyz", cfg.Health.Readiness)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	if cfg.RateLimit > 0 {
		api.Use(middleware.RateLimit(cfg.Redis, cfg.RateLimit, cfg.RateWindow))
	}
	registerAPIRoutes(api, cfg.Handler)
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler) {
	api.GET("/", h.Welcome)
	api.GET("/initialize", h.Initialize)

	api.GET("/transactions", h.ListTransactions)
	api.GET("/statistics", h.Statistics)
	api.GET("/bar-chart", h.BarChart)
	api.GET("/pie-chart", h.PieChart)
	api.GET("/combined", h.Combined)
	api.GET("/export", h.Export)
}
