// Package server exposes cleanup runs over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jdpx/vidsweep/internal/analysis"
	"github.com/jdpx/vidsweep/internal/logging"
	"github.com/jdpx/vidsweep/internal/models"
	"github.com/jdpx/vidsweep/internal/trash"
	"github.com/jdpx/vidsweep/internal/utils"
)

type Runner interface {
	Run(ctx context.Context, req analysis.Request) (*models.RunResult, error)
}

type Options struct {
	Runner Runner
	Trash  trash.Trasher
	// Defaults fills in fields a request leaves out.
	Defaults models.CleanupPolicy
	// OnResult is called after every completed run, e.g. to write a report.
	OnResult func(*models.RunResult)
}

type Server struct {
	opts   Options
	router *gin.Engine
	log    zerolog.Logger
}

func New(opts Options) *Server {
	s := &Server{
		opts:   opts,
		router: gin.New(),
		log:    logging.WithComponent("server"),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api/v1")
	{
		api.GET("/ratios", s.listRatios)
		api.POST("/runs", s.createRun)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("address", addr).Msg("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) listRatios(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ratios": models.AspectRatioKeys()})
}

type runRequest struct {
	Folder string `json:"folder"`
	// MinDuration accepts a number or the raw text of a form field.
	MinDuration json.RawMessage `json:"min_duration"`
	AspectRatio string          `json:"aspect_ratio"`
	DryRun      bool            `json:"dry_run"`
	ConfirmAll  bool            `json:"confirm_all"`
}

func (s *Server) createRun(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	folder, err := utils.ValidateFolder(req.Folder)
	if err != nil {
		validationFailed(c, err)
		return
	}
	policy, err := s.policyFor(req)
	if err != nil {
		validationFailed(c, err)
		return
	}

	if policy.DeletesEverything() && !req.ConfirmAll {
		c.JSON(http.StatusConflict, gin.H{
			"error": "a minimum duration of 0 with aspect ratio All sends every readable video to trash; set confirm_all to proceed",
		})
		return
	}

	result, err := s.opts.Runner.Run(c.Request.Context(), analysis.Request{
		Folder: folder,
		Policy: policy,
		Trash:  s.opts.Trash,
		DryRun: req.DryRun,
	})
	// A cancelled run still returns what it already moved; report it.
	if result != nil && s.opts.OnResult != nil {
		s.opts.OnResult(result)
	}
	if err != nil {
		s.log.Error().Err(err).Str("folder", folder).Msg("run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) policyFor(req runRequest) (models.CleanupPolicy, error) {
	minDuration := s.opts.Defaults.MinDurationSeconds
	if raw := strings.TrimSpace(string(req.MinDuration)); raw != "" && raw != "null" {
		text := raw
		if strings.HasPrefix(raw, `"`) {
			if err := json.Unmarshal(req.MinDuration, &text); err != nil {
				return models.CleanupPolicy{}, &models.ValidationError{Field: "min_duration", Message: "must be a number"}
			}
		}
		d, err := utils.ParseMinDuration(text)
		if err != nil {
			return models.CleanupPolicy{}, err
		}
		minDuration = d
	}

	aspect := s.opts.Defaults.AspectRatio
	if req.AspectRatio != "" {
		a, err := models.ParseAspectRatio(req.AspectRatio)
		if err != nil {
			return models.CleanupPolicy{}, err
		}
		aspect = a
	}

	p, err := models.NewCleanupPolicy(minDuration, aspect)
	if err != nil {
		return models.CleanupPolicy{}, err
	}
	return p.WithTolerance(s.opts.Defaults.Tolerance), nil
}

func validationFailed(c *gin.Context, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
