package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movie-page-service/internal/config"
	"movie-page-service/internal/handler"
	"movie-page-service/internal/moviepage"
	"movie-page-service/internal/repository"
	"movie-page-service/internal/service"
	"movie-page-service/pkg/httpclient"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logging
	setupLogging(cfg)
	log.Info().
		Str("port", cfg.Port).
		Str("mode", cfg.GinMode).
		Str("movie_api", cfg.MovieAPIBaseURL).
		Msg("🚀 Starting movie-page-service")

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Initialize metrics
	metrics, err := repository.NewMetrics(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}
	defer metrics.Close()
	metrics.RecordServerStart(context.Background())
	log.Info().Msg("📊 Metrics enabled")

	// Initialize HTTP client and movie API
	httpClient := httpclient.NewClient(
		httpclient.WithTimeout(cfg.MovieAPITimeout),
		httpclient.WithAttempts(cfg.MovieAPIAttempts),
	)
	movieService := service.NewMovieService(httpClient, cfg.MovieAPIBaseURL)
	if httpClient.Attempts() > 1 {
		log.Warn().Int("attempts", httpClient.Attempts()).Msg("🔁 Movie API retries enabled")
	}

	loader := moviepage.NewLoader(movieService)
	locale := moviepage.NewLocale(cfg.DefaultLocale)

	// Initialize handlers
	movieHandler := handler.NewMovieHandler(loader, locale)
	adminHandler := handler.NewAdminHandler(metrics, handler.StatusInfo{
		MovieAPIBaseURL: movieService.BaseURL(),
		FetchAttempts:   httpClient.Attempts(),
		FetchTimeout:    httpClient.Timeout(),
		DefaultLocale:   locale.Default().Lang,
	})

	r := handler.NewRouter(handler.RouterConfig{
		Movies:      movieHandler,
		Admin:       adminHandler,
		Recorder:    metrics,
		AdminAPIKey: cfg.AdminAPIKey,
	})

	// 日志输出认证状态
	if cfg.AdminAPIKey != "" {
		log.Info().Msg("🔐 Admin API authentication enabled")
	} else {
		log.Warn().Msg("⚠️  Admin API has no key configured, analytics endpoints are open")
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("🌐 Server listening")
		log.Info().Str("page", "http://localhost"+addr+"/movie/:id").Msg("🎬 Movie page available")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("👋 Server exited")
}

// setupLogging configures the global zerolog logger: console output on
// stdout plus an optional rotating JSON log file.
func setupLogging(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	if cfg.LogFile != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
