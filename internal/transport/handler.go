package transport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/screenshot-differ/internal/config"
	apperrors "github.com/anime-shed/screenshot-differ/internal/errors"
	"github.com/anime-shed/screenshot-differ/internal/logger"
	"github.com/anime-shed/screenshot-differ/internal/report"
	"github.com/anime-shed/screenshot-differ/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler exposes comparison runs over HTTP: POST /compare triggers
// a run and returns the report as JSON, GET /report returns the most
// recent one.
func NewHandler(svc service.ComparisonService, cfg *config.Config) http.Handler {
	r := gin.Default()
	r.Use(errorHandler())

	state := &reportState{}

	r.GET("/health", healthCheck)
	r.POST("/compare", runComparison(svc, cfg, state))
	r.GET("/report", latestReport(state))

	return r
}

// reportState remembers the last completed run for GET /report
type reportState struct {
	mu     sync.RWMutex
	latest *report.RunReport
}

func (s *reportState) set(r *report.RunReport) {
	s.mu.Lock()
	s.latest = r
	s.mu.Unlock()
}

func (s *reportState) get() *report.RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func runComparison(svc service.ComparisonService, cfg *config.Config, state *reportState) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Info("Processing comparison request")

		rep, err := svc.Run(ctx)
		if err != nil {
			logger.WithError(err).Error("Comparison run failed")
			c.JSON(apperrors.GetStatusCode(err), ErrorResponse{
				Error:   "comparison failed",
				Message: err.Error(),
			})
			return
		}

		state.set(rep)

		logger.WithFields(logrus.Fields{
			"run_id":   rep.RunID,
			"outcome":  rep.Summary.Outcome,
			"duration": time.Since(start).String(),
		}).Info("Comparison request finished")

		c.JSON(http.StatusOK, rep)
	}
}

func latestReport(state *reportState) gin.HandlerFunc {
	return func(c *gin.Context) {
		rep := state.get()
		if rep == nil {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "no comparison run yet",
			})
			return
		}
		c.JSON(http.StatusOK, rep)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// errorHandler converts panics and unhandled errors into JSON responses
func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithField("panic", r).Error("Handler panicked")
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: "internal server error",
				})
			}
		}()
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			c.JSON(apperrors.GetStatusCode(err), ErrorResponse{
				Error:   "request failed",
				Message: err.Error(),
			})
		}
	}
}
