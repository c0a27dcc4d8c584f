package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/AgentOS/preview/internal/api/http"
	"github.com/GriffinCanCode/AgentOS/preview/internal/api/middleware"
	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/session"
	"github.com/GriffinCanCode/AgentOS/preview/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/preview/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/preview/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/preview/internal/providers/render"
	"github.com/GriffinCanCode/AgentOS/preview/internal/providers/theme"
	"github.com/GriffinCanCode/AgentOS/preview/internal/shared/types"
	"github.com/GriffinCanCode/AgentOS/preview/internal/shared/utils"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	session *session.Session
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewSession builds a preview session from configuration.
// Shared by the server and one-shot rendering.
func NewSession(cfg config.PreviewConfig, metrics *monitoring.Metrics, logger *logging.Logger) (*session.Session, error) {
	// Capabilities sign absolute paths only
	var err error
	if cfg.ProjectRoot, err = absolute(cfg.ProjectRoot); err != nil {
		return nil, err
	}
	if cfg.ImagesDir, err = absolute(cfg.ImagesDir); err != nil {
		return nil, err
	}

	hash := utils.HashAlgorithm(cfg.Hash)
	if _, err := utils.NewHasher(hash).New(); err != nil {
		return nil, err
	}

	themes, err := theme.NewProvider(cfg.Theme, cfg.Dark)
	if err != nil {
		return nil, err
	}

	var opts []render.MarkdownOption
	if cfg.Sanitize {
		opts = append(opts, render.WithSanitizer(render.SanitizePolicy()))
	}

	project := types.Project{
		Name:     cfg.ProjectName,
		URL:      cfg.ProjectURL,
		BasePath: cfg.ProjectRoot,
	}
	if project.Name == "" && project.BasePath != "" {
		project.Name = filepath.Base(project.BasePath)
	}

	s, err := session.New(session.Options{
		SourceExt:  cfg.SourceExt,
		Hash:       hash,
		ImagesDir:  cfg.ImagesDir,
		Project:    project,
		Extensions: cfg.Extensions,
	}, render.NewMarkdown(opts...), themes, logger.Component("session").Logger)
	if err != nil {
		return nil, err
	}
	return s.WithMetrics(metrics), nil
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing preview server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("document", cfg.Preview.Document),
		zap.String("project_root", cfg.Preview.ProjectRoot),
	)

	document, err := absolute(cfg.Preview.Document)
	if err != nil {
		return nil, err
	}

	metrics := monitoring.NewMetrics()

	sess, err := NewSession(cfg.Preview, metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create preview session: %w", err)
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Component("http").Logger))
	router.Use(monitoring.Middleware(metrics))
	if len(cfg.CORS.Origins) > 0 {
		router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORS.Origins...)))
	}
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(sess, document, logger.Component("handlers").Logger)
	handlers.Register(router)

	// Theme scripts and stylesheets referenced by injected assets
	router.StaticFS(theme.StaticPrefix, http.FS(theme.Static()))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	s := &Server{
		router:  router,
		session: sess,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}
	s.http = &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: s.Handler(),
	}

	logger.Info("Server initialized successfully", zap.String("session_id", sess.ID().String()))
	return s, nil
}

// Handler returns the compressed router
func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(s.router)
}

// Session returns the preview session served by this server
func (s *Server) Session() *session.Session {
	return s.session
}

// Metrics returns the server's metrics collector
func (s *Server) Metrics() *monitoring.Metrics {
	return s.metrics
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close gracefully shuts down the server and releases the session
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shut down HTTP server", zap.Error(err))
		errs = append(errs, fmt.Errorf("failed to shut down http server: %w", err))
	}
	if err := s.session.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close session: %w", err))
	}

	// Sync logger before exit
	_ = s.logger.Sync()

	return errors.Join(errs...)
}

// absolute resolves a configured path against the working directory; empty stays empty
func absolute(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	return abs, nil
}
