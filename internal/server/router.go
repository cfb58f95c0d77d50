package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/openakita/feedback-gateway/internal/admin"
	"github.com/openakita/feedback-gateway/internal/config"
	"github.com/openakita/feedback-gateway/internal/metrics"
	"github.com/openakita/feedback-gateway/internal/report"
)

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config        config.Config
	ObjectStore   *minio.Client
	Redis         *redis.Client
	ReportService *report.Service
	AdminService  *admin.Service
	Logger        *zap.Logger
}

// NewRouter builds a Gin engine with foundational middleware and routes.
// The gateway is public-facing, so a permissive cross-origin policy is
// attached to every response and preflight requests short-circuit here.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(deps.Logger))
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"*"},
	}))

	registerHealthRoutes(router, deps)
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	if deps.ReportService != nil {
		report.RegisterRoutes(router, deps.ReportService)
	}
	if deps.AdminService != nil {
		admin.RegisterRoutes(router, deps.AdminService, deps.Config.Admin.APIKey)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("ip", c.ClientIP()))
	}
}
