package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/autoforge/waitlist-api/pkg/api"
	"github.com/autoforge/waitlist-api/pkg/middleware"
)

// Options controls optional routes of the router
type Options struct {
	// Gatherer backs /metrics; the route is not registered when nil
	Gatherer prometheus.Gatherer
}

// New builds the router shared by the HTTP server and the lambda entrypoint
func New(handlers *api.Handlers, log *zap.Logger, opts Options) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(
		gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
			log.Error("panic while handling request", zap.Any("panic", err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal Server Error"})
		}),
		middleware.RequestID(log),
		middleware.Metrics(),
		middleware.CORS(),
	)
	router.NoMethod(middleware.MethodNotAllowed)

	router.POST("/submit", handlers.HandleSubmit)
	router.POST("/track-purchase", handlers.HandleTrackPurchase)
	router.GET("/health", handlers.HealthCheck)

	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	return router
}
