// Package server exposes the analyses over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/drpaneas/gitinsight/internal/model"
)

// Analyzer runs the analyses behind the API. *analysis.Analyzer implements it.
type Analyzer interface {
	AnalyzeRepository(ctx context.Context, rawURL string) (*model.AnalysisResult, error)
	AnalyzeProfile(ctx context.Context, rawURL string) (*model.ProfileAnalysisResult, error)
}

// Options tunes the HTTP surface.
type Options struct {
	Version     string
	RateLimit   float64 // requests per second per client IP
	RateBurst   int
	CORSOrigins []string
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(a Analyzer, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(corsMiddleware(opts.CORSOrigins))

	h := &handler{analyzer: a, version: opts.Version}
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.Use(newIPLimiter(opts.RateLimit, opts.RateBurst).middleware)
	api.POST("/analyze/repository", h.analyzeRepository)
	api.POST("/analyze/profile", h.analyzeProfile)
	api.POST("/export/markdown", h.exportMarkdown)
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, router http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
