package handler

import (
	"net/http"
	"time"

	"movie-page-service/internal/middleware"
	"movie-page-service/internal/moviepage"

	"github.com/gin-gonic/gin"
)

// RouterConfig wires handlers and middleware into a router
type RouterConfig struct {
	Movies      *MovieHandler
	Admin       *AdminHandler
	Recorder    middleware.PageViewRecorder
	AdminAPIKey string
}

// NewRouter builds the gin engine with all routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	if cfg.Recorder != nil {
		r.Use(middleware.Metrics(cfg.Recorder))
	}
	r.Use(middleware.CORS())

	r.SetHTMLTemplate(moviepage.Templates())
	r.StaticFS("/static", http.FS(moviepage.Static()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	// 影片详情页
	r.GET("/movie", cfg.Movies.GetMoviePage)
	r.GET("/movie/:id", cfg.Movies.GetMoviePage)

	api := r.Group("/api/v1")
	{
		api.GET("/status", cfg.Admin.GetStatus)
		api.GET("/movie/:id", cfg.Movies.GetMovieView)
		api.GET("/movie/:id/stream", cfg.Movies.StreamMovie)
	}

	// Admin routes - 需要认证（如果配置了 ADMIN_API_KEY）
	admin := r.Group("/api/v1")
	admin.Use(middleware.AdminAuth(cfg.AdminAPIKey))
	{
		admin.GET("/analytics", cfg.Admin.GetAnalytics)
		admin.GET("/analytics/endpoint", cfg.Admin.GetPathStats)
		admin.DELETE("/analytics", cfg.Admin.ResetAnalytics)
	}

	return r
}
