package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"

	"batchledger/internal/infrastructure/http/v1/handlers"
	"batchledger/internal/infrastructure/http/v1/middleware"
	"batchledger/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Database backs the readiness and info probes
	Database handlers.Database

	// Reports serves every /api/v1/reports endpoint
	Reports handlers.ReportService

	// Gzip compresses responses for clients that accept it
	Gzip bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!). ErrorHandler wraps Recovery so a
	// recovered panic is still rendered.
	router.Use(middleware.Trace(cfg.Logger))
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	RegisterHealthRoutes(router.Group("/health"), handlers.NewHealthHandler(cfg.Database))

	base := handlers.NewBaseHandler()
	api := router.Group("/api/v1")
	RegisterReportRoutes(api.Group("/reports"), handlers.NewReportsHandler(base, cfg.Reports))

	return router
}

// NewHandler returns the router as an http.Handler, gzip-wrapped when
// cfg.Gzip is set.
func NewHandler(cfg RouterConfig) http.Handler {
	router := NewRouter(cfg)
	if !cfg.Gzip {
		return router
	}
	return gzhttp.GzipHandler(router)
}
