// Package httpapi exposes the reader over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-reader/internal/core"
	"github.com/gin-gonic/gin"
)

// Routes.
const (
	routeHealth  = "/healthz"
	routeProcess = "/api/process"
	routeSpeech  = "/api/speech"
)

// Config holds the HTTP listener settings.
type Config struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server routes reader requests to the processor and synthesizer.
type Server struct {
	processor   core.DocumentProcessor
	synthesizer core.Synthesizer
	log         *logger.Logger
	engine      *gin.Engine
}

// New creates the HTTP API. Call gin.SetMode before New to pick the mode.
func New(processor core.DocumentProcessor, synthesizer core.Synthesizer, log *logger.Logger) *Server {
	server := &Server{
		processor:   processor,
		synthesizer: synthesizer,
		log:         log,
		engine:      gin.New(),
	}

	server.engine.Use(gin.Recovery(), server.accessLog())

	server.engine.GET(routeHealth, server.handleHealth)
	server.engine.POST(routeProcess, server.handleProcess)
	server.engine.POST(routeSpeech, server.handleSpeech)

	return server
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg Config) error {
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errChan := make(chan error, 1)

	go func() {
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("failed to serve HTTP on %s: %w", cfg.ListenAddr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	shutdownErr := httpServer.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", shutdownErr)
	}

	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		s.log.Info("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
