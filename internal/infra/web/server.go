package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"voice-chat/internal/application"
)

type Config struct {
	Addr           string
	Title          string
	AboutURL       string
	CaptureMode    string
	AllowedOrigins []string
	RateLimit      int
	RateWindow     time.Duration
	MaxUploadBytes int64
	MaxClips       int
}

type Deps struct {
	Assistant *application.Assistant
	Sessions  SessionStore
	// Microphone is used for turns when CaptureMode is microphone.
	Microphone application.AudioSource
}

type Server struct {
	cfg     Config
	engine  *gin.Engine
	limiter *RateLimiter
	server  *http.Server
	logger  *slog.Logger
	mu      sync.Mutex
	running bool
}

func NewServer(cfg Config, deps Deps, logger *slog.Logger) (*Server, error) {
	if cfg.CaptureMode == "" {
		cfg.CaptureMode = CaptureUpload
	}
	if cfg.CaptureMode != CaptureUpload && cfg.CaptureMode != CaptureMicrophone {
		return nil, fmt.Errorf("unknown capture mode %q", cfg.CaptureMode)
	}
	if cfg.CaptureMode == CaptureMicrophone && deps.Microphone == nil {
		return nil, fmt.Errorf("capture mode microphone requires a microphone source")
	}

	page, err := parsePage()
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	engine := gin.New()
	engine.SetHTMLTemplate(page)
	engine.Use(gin.Recovery(), accessLog(logger))

	if len(cfg.AllowedOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	if cfg.MaxUploadBytes > 0 {
		engine.MaxMultipartMemory = cfg.MaxUploadBytes
	}

	var microphone application.AudioSource
	if deps.Microphone != nil {
		microphone = newExclusiveSource(deps.Microphone)
	}

	ctl := &Controller{
		cfg:        cfg,
		assistant:  deps.Assistant,
		sessions:   deps.Sessions,
		microphone: microphone,
		clips:      NewClipStore(cfg.MaxClips),
		hub:        NewHub(logger),
		logger:     logger,
	}
	limiter := NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	registerRoutes(engine, ctl, limiter)

	return &Server{
		cfg:     cfg,
		engine:  engine,
		limiter: limiter,
		logger:  logger,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves in the background. The rate limiter janitor runs until ctx
// is done.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.limiter.StartJanitor(ctx)

	s.server = &http.Server{
		Addr:        s.cfg.Addr,
		Handler:     s.engine,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		s.logger.Info("web server starting", "addr", s.cfg.Addr, "capture", s.cfg.CaptureMode)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("web server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
			if err := s.server.Close(); err != nil {
				return fmt.Errorf("closing server: %w", err)
			}
		}
	}

	s.running = false
	return nil
}
