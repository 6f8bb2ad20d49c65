package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ViewPhaseKey is the gin context key handlers set to the rendered view phase
const ViewPhaseKey = "view_phase"

// PageViewRecorder stores one request outcome
type PageViewRecorder interface {
	RecordPageView(ctx context.Context, path string, statusCode int, latencyMs float64, phase string) error
}

// Metrics returns a middleware that records page and API metrics
func Metrics(recorder PageViewRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !isTracked(path) {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		latency := float64(time.Since(start).Microseconds()) / 1000
		status := c.Writer.Status()
		phase := c.GetString(ViewPhaseKey)

		// 请求已结束，不使用请求的 context
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := recorder.RecordPageView(ctx, normalizePath(path), status, latency, phase); err != nil {
			log.Warn().Err(err).Msg("Failed to record metrics")
		}
	}
}

func isTracked(path string) bool {
	return path == "/movie" || strings.HasPrefix(path, "/movie/") || strings.HasPrefix(path, "/api/")
}

// normalizePath groups paths with ids: /movie/12345 -> /movie/:id,
// /api/v1/movie/tt0110413/stream -> /api/v1/movie/:id/stream
func normalizePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if i > 0 && parts[i-1] == "movie" && part != "" {
			parts[i] = ":id"
			continue
		}
		if isNumeric(part) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

// isNumeric checks if a string is purely numeric
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
