package handler

import (
	"context"
	"net/http"
	"time"

	"movie-page-service/internal/model"
	"movie-page-service/internal/repository"

	"github.com/gin-gonic/gin"
)

// Analytics is the page-view analytics store
type Analytics interface {
	GetOverallStats(ctx context.Context) (*repository.OverallStats, error)
	GetPathStats(ctx context.Context, path string) (*repository.PathStats, error)
	ResetMetrics(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// StatusInfo describes the upstream configuration reported by GetStatus
type StatusInfo struct {
	MovieAPIBaseURL string
	FetchAttempts   int
	FetchTimeout    time.Duration
	DefaultLocale   string
}

// AdminHandler handles admin-related endpoints
type AdminHandler struct {
	analytics Analytics
	info      StatusInfo
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(analytics Analytics, info StatusInfo) *AdminHandler {
	return &AdminHandler{
		analytics: analytics,
		info:      info,
	}
}

// GetStatus returns service status
// GET /api/v1/status
func (h *AdminHandler) GetStatus(c *gin.Context) {
	redisStatus := "ok"
	if err := h.analytics.Ping(c.Request.Context()); err != nil {
		redisStatus = "unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"redis":          redisStatus,
		"movie_api":      h.info.MovieAPIBaseURL,
		"fetch_attempts": h.info.FetchAttempts,
		"fetch_timeout":  h.info.FetchTimeout.String(),
		"default_locale": h.info.DefaultLocale,
	})
}

// GetAnalytics returns page-view analytics
// GET /api/v1/analytics
func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	stats, err := h.analytics.GetOverallStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:  500,
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code: 200,
		Data: stats,
	})
}

// GetPathStats returns stats for a specific path
// GET /api/v1/analytics/endpoint?path=/movie/:id
func (h *AdminHandler) GetPathStats(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, model.APIResponse{
			Code:  400,
			Error: "path parameter required",
		})
		return
	}

	stats, err := h.analytics.GetPathStats(c.Request.Context(), path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:  500,
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code: 200,
		Data: stats,
	})
}

// ResetAnalytics resets all analytics data
// DELETE /api/v1/analytics
func (h *AdminHandler) ResetAnalytics(c *gin.Context) {
	deleted, err := h.analytics.ResetMetrics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.APIResponse{
			Code:  500,
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "all analytics data has been reset",
		"deleted": deleted,
	})
}
