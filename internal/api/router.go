package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/telemetry"
	"github.com/sanjeevkumarraob/pdf-to-word-service/web"
)

// ConvertPath is the upload endpoint the frontend posts to
const ConvertPath = "/api/PdfToWord/convert"

// RouterConfig holds the router's optional collaborators
type RouterConfig struct {
	CORSOrigins   []string
	MaxUploadSize int64
	// Metrics and Gatherer are both optional; /metrics is only mounted
	// when Gatherer is set
	Metrics  *telemetry.Metrics
	Gatherer prometheus.Gatherer
}

// NewRouter sets up the API router
func NewRouter(converter Converter, logger logrus.FieldLogger, cfg RouterConfig) *gin.Engine {
	// Create gin router
	router := gin.New()

	// Set up middleware
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(MetricsMiddleware(cfg.Metrics))
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	handler := NewHandler(converter, logger, cfg.MaxUploadSize)

	// Public routes
	router.GET("/", handler.HealthCheck)
	router.StaticFS("/app", http.FS(web.FS))

	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/PdfToWord/convert", handler.Convert)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Conversion-Mode", "X-Page-Count", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
