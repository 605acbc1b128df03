package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jwalitptl/practice-dashboard/internal/handler/records"
	"github.com/jwalitptl/practice-dashboard/internal/middleware"
	"github.com/jwalitptl/practice-dashboard/internal/model"
)

const APIVersion = "1.0"

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// AccountHandler serves both the public and the signed-in account routes.
type AccountHandler interface {
	Handler
	RegisterProtectedRoutes(*gin.RouterGroup)
}

// ResourceHandler is a list resource mounted under its own name.
type ResourceHandler interface {
	Name() string
	AdminOnly() bool
	RegisterRoutes(r *gin.RouterGroup, guards ...gin.HandlerFunc)
}

// RecordsHandler serves records nested under list entities; guard protects
// each record resource.
type RecordsHandler interface {
	RegisterRoutes(r *gin.RouterGroup, guard records.Guard)
}

type Handlers struct {
	Health    Handler
	Account   AccountHandler
	Resources []ResourceHandler
	Records   RecordsHandler
	Stream    Handler
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type RouterConfig struct {
	RateLimit     middleware.RateLimiterConfig
	CORSConfig    middleware.CORSConfig
	Timeout       middleware.TimeoutConfig
	Security      middleware.SecurityConfig
	SizeLimit     middleware.SizeLimitConfig
	MetricsPrefix string
	Registerer    prometheus.Registerer
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config RouterConfig) *Router {
	engine := gin.New()

	reg := config.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		metrics:  initRouterMetrics(reg, config.MetricsPrefix),
	}

	// Core middlewares; recovery first so panics in any later one are caught
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(config.Timeout),
	)

	engine.Use(
		middleware.CORS(config.CORSConfig),
		middleware.SecurityHeaders(config.Security),
		middleware.SizeLimit(config.SizeLimit),
	)

	rateLimiter := middleware.NewRateLimiter(config.RateLimit)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", APIVersion)
		c.Next()
	})

	if r.handlers.Health != nil {
		r.handlers.Health.RegisterRoutes(api)
	}

	// Public routes
	if r.handlers.Account != nil {
		r.handlers.Account.RegisterRoutes(api)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	if r.handlers.Account != nil {
		r.handlers.Account.RegisterProtectedRoutes(rg)
	}

	for _, h := range r.handlers.Resources {
		h.RegisterRoutes(rg, r.guards(h)...)
	}

	if r.handlers.Records != nil {
		r.handlers.Records.RegisterRoutes(rg, r.auth.Authorize)
	}
	if r.handlers.Stream != nil {
		r.handlers.Stream.RegisterRoutes(rg)
	}
}

// guards puts the role gate of admin pages in front of the policy check so
// other roles get the redirect answer instead of a plain denial.
func (r *Router) guards(h ResourceHandler) []gin.HandlerFunc {
	if h.AdminOnly() {
		return []gin.HandlerFunc{r.auth.RequireRole(model.RoleAdmin), r.auth.Authorize(h.Name())}
	}
	return []gin.HandlerFunc{r.auth.Authorize(h.Name())}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(reg prometheus.Registerer, prefix string) *routerMetrics {
	factory := promauto.With(reg)
	return &routerMetrics{
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// unmatched routes share one label to keep cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			kind := "client"
			if c.Writer.Status() >= 500 {
				kind = "server"
			}
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, kind).Inc()
		}
	}
}
