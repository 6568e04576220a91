package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agenthands/factcheck/internal/config"
	"github.com/agenthands/factcheck/internal/core"
	"github.com/agenthands/factcheck/internal/core/model"
	"github.com/agenthands/factcheck/internal/llm"
	"github.com/agenthands/factcheck/internal/metrics"
	"github.com/agenthands/factcheck/internal/transcribe"
	"github.com/agenthands/factcheck/internal/wiki"
)

const (
	VerifyClaimPath = "/functions/v1/verify-claim"
	TranscribePath  = "/functions/v1/transcribe"
)

type Server struct {
	Verifier       *core.Verifier
	Transcriber    transcribe.Transcriber
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
	logger         *zap.Logger
}

// NewServer builds every collaborator from cfg. cfg must already be validated.
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	verifierLLM, translatorLLM, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	retriever := wiki.NewClient(cfg.Wikipedia, logger.Named("wiki"))
	verifier, err := core.NewVerifier(retriever, verifierLLM, translatorLLM, cfg, m, logger.Named("verifier"))
	if err != nil {
		return nil, err
	}

	var transcriber transcribe.Transcriber
	if cfg.Transcription.Enabled {
		transcriber = transcribe.NewWhisperClient(cfg.Transcription, logger.Named("transcribe"))
	}

	return &Server{
		Verifier:       verifier,
		Transcriber:    transcriber,
		Metrics:        m,
		Gatherer:       reg,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second,
		logger:         logger,
	}, nil
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		gin.Recovery(),
		requestID(),
		s.accessLog(),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:    []string{"authorization", "x-client-info", "apikey", "content-type"},
			ExposeHeaders:   []string{requestIDHeader},
			MaxAge:          12 * time.Hour,
		}),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	r.POST(VerifyClaimPath, s.VerifyClaim)
	r.OPTIONS(VerifyClaimPath, preflight)
	r.POST(TranscribePath, s.Transcribe)
	r.OPTIONS(TranscribePath, preflight)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})))
	}

	return r
}

// preflight answers OPTIONS requests that reach the router without an Origin
// header; the cors middleware handles the rest.
func preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

type VerifyRequest struct {
	Claim    string `json:"claim"`
	Language string `json:"language" binding:"omitempty,alpha,lowercase,min=2,max=12"`
}

func (s *Server) VerifyClaim(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx := c.Request.Context()
	if s.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.RequestTimeout)
		defer cancel()
	}

	result, err := s.Verifier.Verify(ctx, model.Claim{Text: req.Claim, Language: req.Language})
	if err != nil {
		status, msg := verifyErrorStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("Error in verify-claim", zap.String("request_id", c.GetString(requestIDKey)), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, result)
}

func verifyErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrEmptyClaim):
		return http.StatusBadRequest, "No claim provided"
	case errors.Is(err, core.ErrInvalidLanguage):
		return http.StatusBadRequest, "Invalid language"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Verification timed out"
	case errors.Is(err, model.ErrRetrieval):
		return http.StatusBadGateway, "Evidence retrieval failed"
	case errors.Is(err, model.ErrSynthesis):
		return http.StatusBadGateway, "AI verification failed"
	case errors.Is(err, model.ErrMapping):
		return http.StatusBadGateway, "AI verification returned invalid citations"
	default:
		return http.StatusInternalServerError, "Verification failed"
	}
}

func (s *Server) Transcribe(c *gin.Context) {
	if s.Transcriber == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Transcription is not configured"})
		return
	}

	header, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No audio file provided"})
		return
	}
	language := c.DefaultPostForm("language", "en")

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No audio file provided"})
		return
	}
	defer f.Close()

	s.logger.Info("Transcribing audio", zap.Int64("size", header.Size), zap.String("language", language))

	out, err := s.Transcriber.Transcribe(c.Request.Context(), header.Filename, f, language)
	if err != nil {
		s.logger.Error("Error in transcribe", zap.String("request_id", c.GetString(requestIDKey)), zap.Error(err))

		status := http.StatusInternalServerError
		var statusErr *llm.StatusError
		if errors.As(err, &statusErr) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, out)
}
