package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/allisson/keyvault/internal/metrics"
	schemaHTTP "github.com/allisson/keyvault/internal/schema/http"
	vaultHTTP "github.com/allisson/keyvault/internal/vault/http"
)

// RouterOptions configures the cross-cutting behavior of the API router.
type RouterOptions struct {
	CORSEnabled      bool
	CORSAllowOrigins string

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	// MeterProvider enables HTTP metrics when non-nil.
	MeterProvider    otelmetric.MeterProvider
	MetricsNamespace string
}

// NewRouter assembles the API router: recovery, request ids, structured
// logging, optional CORS, rate limiting, and metrics, then the vault and
// schema routes.
func NewRouter(
	vaultHandler *vaultHTTP.VaultHandler,
	schemaHandler *schemaHTTP.SchemaHandler,
	logger *slog.Logger,
	opts RouterOptions,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(opts.CORSEnabled, opts.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if opts.RateLimitEnabled {
		router.Use(RateLimitMiddleware(opts.RateLimitRPS, opts.RateLimitBurst))
	}

	if opts.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(opts.MeterProvider, opts.MetricsNamespace))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := router.Group("/v1")
	{
		vault := v1.Group("/vault")
		{
			vault.POST("/encrypt", vaultHandler.EncryptHandler)
			vault.POST("/decrypt", vaultHandler.DecryptHandler)
			vault.DELETE("/key", vaultHandler.ResetHandler)
		}

		schema := v1.Group("/schema")
		{
			schema.POST("/example", schemaHandler.ExampleHandler)
		}
	}

	return router
}
