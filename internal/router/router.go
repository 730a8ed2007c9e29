package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gallery/internal/handler"
	"gallery/internal/metrics"
	"gallery/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware. fileH and
// prom may be nil, which leaves out the file route and the metrics endpoint.
func Setup(
	allowedOrigins []string,
	galleryH *handler.GalleryHandler,
	pageH *handler.PageHandler,
	healthH *handler.HealthHandler,
	fileH *handler.FileHandler,
	prom *metrics.Prometheus,
) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(handler.Templates())

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))
	if prom != nil {
		r.Use(prom.Middleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Gallery page
	r.GET("/", pageH.Index)
	r.POST("/select", pageH.Select)
	r.POST("/upload", pageH.Upload)
	r.POST("/clear", pageH.Clear)

	if fileH != nil {
		r.GET("/files/:bucket/:id", fileH.Get)
	}

	v1 := r.Group("/api/v1")

	selection := v1.Group("/selection")
	selection.GET("", galleryH.GetSelection)
	selection.POST("", galleryH.Select)
	selection.DELETE("", galleryH.ClearSelection)

	images := v1.Group("/images")
	images.GET("", galleryH.ListImages)
	images.POST("/reload", galleryH.Reload)
	images.POST("/upload", galleryH.Upload)
	images.GET("/export", galleryH.Export)

	return r
}
