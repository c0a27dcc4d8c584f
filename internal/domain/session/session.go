package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/capability"
	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/classify"
	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/fingerprint"
	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/resource"
	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/rewrite"
	"github.com/GriffinCanCode/AgentOS/preview/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/preview/internal/providers/render"
	"github.com/GriffinCanCode/AgentOS/preview/internal/providers/theme"
	"github.com/GriffinCanCode/AgentOS/preview/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/preview/internal/shared/paths"
	"github.com/GriffinCanCode/AgentOS/preview/internal/shared/types"
	"github.com/GriffinCanCode/AgentOS/preview/internal/shared/utils"
)

// ErrRenderFailed wraps every failure of GetHTML; no partial HTML is returned
var ErrRenderFailed = errors.New("render failed")

// Options configures a preview session
type Options struct {
	SourceExt  string              // Convertible-document extension
	Hash       utils.HashAlgorithm // Fingerprint algorithm
	ImagesDir  string              // Existing scratch directory; a temp dir is created when empty
	Project    types.Project       // Project the previewed documents belong to
	Extensions []string            // Renderer extensions enabled for every document
}

// Session owns the signing key and scratch directory for one preview surface.
// Capability URLs it issues are only honoured by its own facade.
type Session struct {
	id      id.SessionID
	opts    Options
	logger  *zap.Logger
	metrics *monitoring.Metrics

	signer        *capability.Signer
	classifier    *classify.Classifier
	fingerprinter *fingerprint.Fingerprinter
	rewriter      *rewrite.Rewriter
	facade        *resource.Facade

	renderer render.Renderer
	themes   *theme.Provider
	notifier render.Notifier

	imagesDir     string
	ownsImagesDir bool
	closeOnce     sync.Once
	closeErr      error
}

// New creates a session. themes may be nil, in which case no assets are injected.
func New(opts Options, renderer render.Renderer, themes *theme.Provider, logger *zap.Logger) (*Session, error) {
	if renderer == nil {
		return nil, errors.New("renderer required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Hash == "" {
		opts.Hash = utils.SHA256
	}

	signer, err := capability.NewSigner()
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:       id.NewSessionID(),
		opts:     opts,
		signer:   signer,
		renderer: renderer,
		themes:   themes,
	}
	s.logger = logger.With(zap.String("session_id", s.id.String()))
	s.notifier = render.NewLogNotifier(s.logger)

	s.imagesDir = opts.ImagesDir
	if s.imagesDir == "" {
		dir, err := paths.CreateTempImagesDir("")
		if err != nil {
			return nil, err
		}
		s.imagesDir = dir
		s.ownsImagesDir = true
	}

	s.classifier = classify.New(classify.Options{SourceExt: opts.SourceExt, ImagesDir: s.imagesDir})
	s.fingerprinter = fingerprint.New(opts.Hash, s.logger)
	s.rewriter = rewrite.New(s.classifier, s.signer, s.fingerprinter, s.logger)
	s.facade = resource.New(s.signer, s, s.logger)

	s.logger.Info("preview session started",
		zap.String("images_dir", s.imagesDir),
		zap.String("source_ext", s.classifier.SourceExt()),
		zap.String("hash", string(opts.Hash)))

	return s, nil
}

// WithMetrics attaches a metrics collector to the session and its components
func (s *Session) WithMetrics(metrics *monitoring.Metrics) *Session {
	s.metrics = metrics
	s.fingerprinter.WithMetrics(metrics)
	s.rewriter.WithMetrics(metrics)
	s.facade.WithMetrics(metrics)
	return s
}

// WithNotifier replaces the notifier that receives render diagnostics
func (s *Session) WithNotifier(n render.Notifier) *Session {
	if n != nil {
		s.notifier = n
	}
	return s
}

// ID returns the session identifier
func (s *Session) ID() id.SessionID {
	return s.id
}

// ImagesDir returns the scratch directory renderers materialise images into
func (s *Session) ImagesDir() string {
	return s.imagesDir
}

// Project returns the session's project
func (s *Session) Project() types.Project {
	return s.opts.Project
}

// Facade returns the capability server bound to this session's key
func (s *Session) Facade() *resource.Facade {
	return s.facade
}

// GetHTML renders the document at path to a complete, mediated HTML page
func (s *Session) GetHTML(ctx context.Context, path string, project types.Project) (string, error) {
	timer := monitoring.NewTimer(s.metrics)
	project = s.resolveProject(project)

	html, err := s.render(ctx, path, project)
	if err != nil {
		return "", s.fail(ctx, path, timer, err)
	}

	html = rewrite.Wrap(html)
	html, err = s.rewriter.Rewrite(html, types.NewDocumentContext(path, project))
	if err != nil {
		return "", s.fail(ctx, path, timer, err)
	}

	if s.themes != nil {
		assets := s.themes.Assets()
		html = rewrite.Inject(html, assets.Stylesheet, assets.Scripts)
	}

	elapsed := timer.Stop("success")
	s.logger.Debug("document rendered",
		zap.String("file", path),
		zap.Duration("duration", elapsed))
	return html, nil
}

func (s *Session) render(ctx context.Context, path string, project types.Project) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	dir := filepath.Dir(path)

	config, err := render.LoadConfig(dir, project.BasePath)
	if err != nil {
		return "", err
	}

	extensions := append([]string(nil), s.opts.Extensions...)
	settings, err := render.LoadSettings(project.BasePath)
	if err != nil {
		s.notifier.Notify(ctx, render.Notification{
			Level:   render.LevelWarning,
			Title:   "Invalid project settings",
			Message: err.Error(),
		})
	}
	extensions = append(extensions, settings.Extensions...)

	html, err := s.renderer.Render(ctx, render.Request{
		Text:        render.DecodeText(data),
		Config:      config,
		Extensions:  extensions,
		Notifier:    s.notifier,
		Format:      render.FormatHTML,
		BaseDir:     dir,
		ImagesDir:   s.imagesDir,
		FileName:    filepath.Base(path),
		ProjectBase: project.BasePath,
	})
	if err != nil {
		return "", err
	}

	if s.themes != nil {
		html = s.themes.StripInlineColors(html)
	}
	return html, nil
}

func (s *Session) fail(ctx context.Context, path string, timer *monitoring.Timer, err error) error {
	s.logger.Error("failed to render preview", zap.String("file", path), zap.Error(err))
	s.notifier.Notify(ctx, render.Notification{
		Level:   render.LevelError,
		Title:   "Error rendering preview",
		Message: fmt.Sprintf("%s: %v", filepath.Base(path), err),
	})
	timer.Stop("error")
	return fmt.Errorf("%w: %s: %w", ErrRenderFailed, path, err)
}

// resolveProject fills in the session project when the request names it or names none
func (s *Session) resolveProject(p types.Project) types.Project {
	if p == (types.Project{}) || s.opts.Project.Matches(p.URL, p.Name) {
		return s.opts.Project
	}
	return types.Project{Name: p.Name, URL: p.URL}
}

// Close removes the scratch directory if the session created it.
// Requests still in flight fail with resource.ErrDenied or a "none" fingerprint.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if !s.ownsImagesDir {
			return
		}
		if err := paths.RemoveTempImagesDir(s.imagesDir); err != nil {
			s.logger.Warn("could not remove temp folder", zap.Error(err))
			s.closeErr = err
			return
		}
		s.logger.Info("preview session closed")
	})
	return s.closeErr
}
