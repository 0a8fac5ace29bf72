package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alingse/visionscribe/internal/core"
	"github.com/alingse/visionscribe/internal/core/classifier"
	"github.com/alingse/visionscribe/internal/core/model"
	"github.com/alingse/visionscribe/internal/core/store"
	"github.com/alingse/visionscribe/internal/logging"
)

type Server struct {
	Reconstructor *core.Reconstructor
	MinConfidence float64
	Logger        *zap.Logger
}

func NewServer(r *core.Reconstructor, minConfidence float64, logger *zap.Logger) *Server {
	return &Server{
		Reconstructor: r,
		MinConfidence: minConfidence,
		Logger:        logging.OrNop(logger),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/reconstruct", s.Reconstruct)
	r.POST("/v1/analyze", s.Analyze)

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ReconstructRequest carries either flat observations or a raw OCR payload.
type ReconstructRequest struct {
	Observations []model.TextObservation `json:"observations"`
	OCR          *store.OCRPayload       `json:"ocr"`
}

func (s *Server) observations(c *gin.Context) ([]model.TextObservation, bool) {
	var req ReconstructRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return nil, false
	}

	obs := req.Observations
	if req.OCR != nil {
		obs = append(obs, req.OCR.Observations(s.MinConfidence)...)
	}
	st := store.NewObservationStore()
	if err := st.Add(obs...); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if st.Len() == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no observations supplied"})
		return nil, false
	}
	return st.Snapshot(), true
}

func (s *Server) Analyze(c *gin.Context) {
	obs, ok := s.observations(c)
	if !ok {
		return
	}
	analysis, err := s.Reconstructor.Analyze(obs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) Reconstruct(c *gin.Context) {
	obs, ok := s.observations(c)
	if !ok {
		return
	}

	res, err := s.Reconstructor.Reconstruct(c.Request.Context(), obs)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.Logger.Error("reconstruction failed", zap.Error(err))
		}
		body := gin.H{"error": err.Error()}
		var cue *classifier.ClassificationUnavailableError
		if errors.As(err, &cue) {
			body["attempts"] = cue.Attempts
		}
		var ire *classifier.InvalidClassifierResponseError
		if errors.As(err, &ire) {
			body["fragment"] = ire.Fragment
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, res)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, classifier.ErrClassificationUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, classifier.ErrInvalidResponse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499
	}
	return http.StatusInternalServerError
}
