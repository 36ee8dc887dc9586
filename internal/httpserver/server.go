package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/PratikDhanave/invite-tracker/internal/config"
	"github.com/PratikDhanave/invite-tracker/internal/handlers"
	"github.com/PratikDhanave/invite-tracker/internal/logging"
	"github.com/PratikDhanave/invite-tracker/internal/metrics"
)

// Pinger checks that the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegistryStatus reports whether the bot registry loaded.
type RegistryStatus interface {
	Err() error
}

// Dependencies are the collaborators the router is built from.
type Dependencies struct {
	Store    Pinger
	Registry RegistryStatus
	Gatherer prometheus.Gatherer
	Links    handlers.Deps
}

// NewRouter wires the operational and link endpoints.
// Operational: /health, /ready, /metrics
// Bot token: /getlinks, /identifiers
// Public: /:identifier
func NewRouter(cfg config.Config, deps Dependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	logger := deps.Links.Logger

	r := gin.New()
	r.Use(logging.RequestLogger(logger))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.FromContext(c, logger).Error("panic recovered", zap.Any("panic", recovered))
		c.String(http.StatusInternalServerError, "Internal Server Error")
		c.Abort()
	}))
	r.Use(observeDuration(deps.Links.Metrics))
	if cfg.RequestTimeout > 0 {
		r.Use(requestTimeout(cfg.RequestTimeout))
	}

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: the DB is reachable and the bot registry loaded.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := deps.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		if err := deps.Registry.Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	handlers.RegisterIdentifierRoutes(r, deps.Links)
	handlers.RegisterRedirectRoutes(r, deps.Links)

	return r
}

// observeDuration records request latency by matched route.
func observeDuration(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// requestTimeout bounds the context handed to stores and the Bot API.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
