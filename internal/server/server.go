// Package server exposes ingestion runs over HTTP.
package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amishk599/boardsync/internal/scheduler"
)

// Runner executes one budgeted ingestion invocation.
type Runner interface {
	RunOnce(ctx context.Context, cursor string) (scheduler.Summary, error)
}

// Options configures the trigger endpoint.
type Options struct {
	Secret string // empty disables authentication
	Mode   string // gin mode: release, debug or test
	// CheckCredentials runs before every invocation; an error is a 500.
	CheckCredentials func() error
}

// Server serves POST|GET /ingest and GET /health.
type Server struct {
	runner Runner
	opts   Options
	logger *slog.Logger
	engine *gin.Engine
}

// New creates a server and its router.
func New(runner Runner, opts Options, logger *slog.Logger) *Server {
	switch opts.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{runner: runner, opts: opts, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	r.GET("/health", s.health)
	ingest := r.Group("/ingest", s.authorize)
	{
		ingest.POST("", s.ingest)
		ingest.GET("", s.ingest)
	}

	s.engine = r
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// authorize accepts the secret from the X-Ingest-Secret header, a bearer
// token, or the secret query parameter.
func (s *Server) authorize(c *gin.Context) {
	if s.opts.Secret == "" {
		c.Next()
		return
	}

	given := c.GetHeader("X-Ingest-Secret")
	if given == "" {
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			given = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
	}
	if given == "" {
		given = c.Query("secret")
	}

	if subtle.ConstantTimeCompare([]byte(given), []byte(s.opts.Secret)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}
	c.Next()
}

type ingestRequest struct {
	Cursor string `json:"cursor"`
}

func (s *Server) ingest(c *gin.Context) {
	cursor := c.Query("cursor")
	if cursor == "" && c.Request.Method == http.MethodPost && c.Request.ContentLength != 0 {
		var req ingestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}
		cursor = req.Cursor
	}

	if s.opts.CheckCredentials != nil {
		if err := s.opts.CheckCredentials(); err != nil {
			s.logger.Error("ingestion not configured", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
	}

	summary, err := s.runner.RunOnce(c.Request.Context(), cursor)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, summary)
	case errors.Is(err, scheduler.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, scheduler.ErrInvalidCursor):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	default:
		s.logger.Error("ingestion run failed", "run_id", summary.RunID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "runId": summary.RunID, "error": err.Error()})
	}
}
