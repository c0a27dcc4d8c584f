// Package resource is the inbound half of mediation: it verifies capability
// requests issued by the embedded browser and serves their content.
package resource

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/capability"
	"github.com/GriffinCanCode/AgentOS/preview/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/preview/internal/shared/types"
)

// ErrDenied is returned for every refused request. A bad signature and an
// unreadable file are indistinguishable to the caller.
var ErrDenied = errors.New("resource denied")

// Serve results recorded in metrics
const (
	resultServed = "served"
	resultDenied = "denied"
	resultFailed = "failed"
)

// SourceRenderer re-renders a convertible document to mediated HTML
type SourceRenderer interface {
	GetHTML(ctx context.Context, path string, project types.Project) (string, error)
}

// Facade verifies capability requests and serves their content
type Facade struct {
	signer   *capability.Signer
	renderer SourceRenderer
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// New creates a facade. renderer may be nil, in which case source requests are denied.
func New(signer *capability.Signer, renderer SourceRenderer, logger *zap.Logger) *Facade {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Facade{
		signer:   signer,
		renderer: renderer,
		logger:   logger,
	}
}

// WithMetrics attaches a metrics collector
func (f *Facade) WithMetrics(metrics *monitoring.Metrics) *Facade {
	f.metrics = metrics
	return f
}

// ServeImage returns the bytes at path if mac is a valid image capability for it
func (f *Facade) ServeImage(path, mac string) ([]byte, error) {
	return f.serveImage(capability.URL{Kind: capability.Image, Path: path, Signature: mac})
}

// ServeSource re-renders path within project if mac is a valid source capability for it
func (f *Facade) ServeSource(ctx context.Context, path, mac string, project types.Project) (string, error) {
	return f.serveSource(ctx, capability.URL{Kind: capability.Source, Path: path, Signature: mac}, project)
}

// Serve dispatches a parsed capability URL to the endpoint its kind names
func (f *Facade) Serve(ctx context.Context, u capability.URL) ([]byte, error) {
	switch u.Kind {
	case capability.Image:
		return f.serveImage(u)
	case capability.Source:
		project := types.Project{Name: u.Param(capability.ParamProjectName), URL: u.Param(capability.ParamProjectURL)}
		html, err := f.serveSource(ctx, u, project)
		if err != nil {
			return nil, err
		}
		return []byte(html), nil
	default:
		return nil, ErrDenied
	}
}

func (f *Facade) serveImage(u capability.URL) ([]byte, error) {
	endpoint := capability.Image.Endpoint()
	if !u.Verify(f.signer) {
		return nil, f.deny(endpoint, u.Path)
	}

	data, err := os.ReadFile(u.Path)
	if err != nil {
		f.logger.Debug("capability file unreadable", zap.String("file", u.Path), zap.Error(err))
		f.metrics.RecordServe(endpoint, resultFailed)
		return nil, ErrDenied
	}

	f.metrics.RecordServe(endpoint, resultServed)
	return data, nil
}

func (f *Facade) serveSource(ctx context.Context, u capability.URL, project types.Project) (string, error) {
	endpoint := capability.Source.Endpoint()
	if !u.Verify(f.signer) {
		return "", f.deny(endpoint, u.Path)
	}
	if f.renderer == nil {
		f.metrics.RecordServe(endpoint, resultFailed)
		return "", ErrDenied
	}

	html, err := f.renderer.GetHTML(ctx, u.Path, project)
	if err != nil {
		f.logger.Debug("capability source render failed", zap.String("file", u.Path), zap.Error(err))
		f.metrics.RecordServe(endpoint, resultFailed)
		return "", ErrDenied
	}

	f.metrics.RecordServe(endpoint, resultServed)
	return html, nil
}

func (f *Facade) deny(endpoint, path string) error {
	f.logger.Warn("wrong signature when retrieving file",
		zap.String("endpoint", endpoint),
		zap.String("file", path))
	f.metrics.RecordServe(endpoint, resultDenied)
	return ErrDenied
}
