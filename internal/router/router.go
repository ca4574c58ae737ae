package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"facturaval/internal/handler"
	"facturaval/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	log *zap.Logger,
	allowedOrigins []string,
	recordH *handler.RecordHandler,
	pageH *handler.PageHandler,
	healthH *handler.HealthHandler,
) (*gin.Engine, error) {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	tmpl, err := handler.Templates()
	if err != nil {
		return nil, fmt.Errorf("parsing page templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Review pages
	r.GET("/", pageH.Index)
	r.POST("/upload", pageH.Upload)
	r.GET("/records/:id", pageH.Show)

	v1 := r.Group("/api/v1")

	records := v1.Group("/records")
	records.POST("", recordH.Create)
	records.POST("/fragments", recordH.CreateFromFragments)
	records.GET("", recordH.List)
	records.GET("/:id", recordH.Get)
	records.DELETE("/:id", recordH.Delete)
	records.GET("/:id/download", recordH.Download)
	records.GET("/:id/export", recordH.Export)
	records.GET("/:id/source", recordH.Source)

	return r, nil
}
