package resource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/capability"
	"github.com/GriffinCanCode/AgentOS/preview/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/preview/internal/shared/types"
)

type stubRenderer struct {
	calls   int
	project types.Project
	err     error
}

func (s *stubRenderer) GetHTML(_ context.Context, path string, project types.Project) (string, error) {
	s.calls++
	s.project = project
	if s.err != nil {
		return "", s.err
	}
	return "<html>" + filepath.Base(path) + "</html>", nil
}

func newFacade(t *testing.T, renderer SourceRenderer) (*Facade, *capability.Signer, *observer.ObservedLogs, *monitoring.Metrics) {
	t.Helper()
	signer, err := capability.NewSigner()
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	metrics := monitoring.NewMetrics()
	return New(signer, renderer, zap.New(core)).WithMetrics(metrics), signer, logs, metrics
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestServeImage(t *testing.T) {
	f, signer, _, metrics := newFacade(t, nil)
	path := writeFile(t, "logo.png", "png-bytes")

	data, err := f.ServeImage(path, signer.SignKind(capability.Image, path))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ServeTotal.WithLabelValues("image", resultServed)))
}

func TestServeImageDeniesForgery(t *testing.T) {
	f, signer, logs, metrics := newFacade(t, nil)
	path := writeFile(t, "logo.png", "png-bytes")
	secret := writeFile(t, "secret.txt", "secret")

	tests := []struct {
		name string
		path string
		mac  string
	}{
		{"empty mac", path, ""},
		{"garbage mac", path, "badmac"},
		{"mac for other file", secret, signer.SignKind(capability.Image, path)},
		{"source capability", path, signer.SignKind(capability.Source, path)},
		{"unbound signature", path, signer.Sign(path)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := f.ServeImage(tt.path, tt.mac)
			assert.Nil(t, data)
			assert.ErrorIs(t, err, ErrDenied)
		})
	}

	assert.Equal(t, len(tests), logs.FilterMessage("wrong signature when retrieving file").Len())
	assert.Equal(t, float64(len(tests)), testutil.ToFloat64(metrics.ServeTotal.WithLabelValues("image", resultDenied)))
}

func TestServeImageDenialSymmetry(t *testing.T) {
	f, signer, _, _ := newFacade(t, nil)
	missing := filepath.Join(t.TempDir(), "missing.png")
	dir := t.TempDir()

	_, badMAC := f.ServeImage(writeFile(t, "a.png", "x"), "00")
	_, gone := f.ServeImage(missing, signer.SignKind(capability.Image, missing))
	_, isDir := f.ServeImage(dir, signer.SignKind(capability.Image, dir))

	assert.Same(t, badMAC, gone)
	assert.Same(t, badMAC, isDir)
	assert.Equal(t, badMAC.Error(), gone.Error())
}

func TestServeSource(t *testing.T) {
	renderer := &stubRenderer{}
	f, signer, _, _ := newFacade(t, renderer)
	path := "/docs/guide.md"
	project := types.Project{Name: "docs"}

	html, err := f.ServeSource(context.Background(), path, signer.SignKind(capability.Source, path), project)
	require.NoError(t, err)
	assert.Equal(t, "<html>guide.md</html>", html)
	assert.Equal(t, project, renderer.project)
}

func TestServeSourceDenied(t *testing.T) {
	renderer := &stubRenderer{}
	f, signer, _, _ := newFacade(t, renderer)
	path := "/docs/guide.md"

	_, err := f.ServeSource(context.Background(), path, signer.SignKind(capability.Image, path), types.Project{})
	assert.ErrorIs(t, err, ErrDenied)
	assert.Zero(t, renderer.calls, "renderer must not run for a refused capability")
}

func TestServeSourceRenderFailure(t *testing.T) {
	renderer := &stubRenderer{err: errors.New("boom")}
	f, signer, _, metrics := newFacade(t, renderer)
	path := "/docs/guide.md"

	html, err := f.ServeSource(context.Background(), path, signer.SignKind(capability.Source, path), types.Project{})
	assert.Empty(t, html)
	assert.Same(t, ErrDenied, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ServeTotal.WithLabelValues("source", resultFailed)))
}

func TestServeSourceWithoutRenderer(t *testing.T) {
	f, signer, _, _ := newFacade(t, nil)
	path := "/docs/guide.md"

	_, err := f.ServeSource(context.Background(), path, signer.SignKind(capability.Source, path), types.Project{})
	assert.ErrorIs(t, err, ErrDenied)
}

func TestServeDispatch(t *testing.T) {
	renderer := &stubRenderer{}
	f, signer, _, _ := newFacade(t, renderer)
	img := writeFile(t, "a.png", "bytes")

	data, err := f.Serve(context.Background(), capability.Issue(signer, capability.Image, img))
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), data)

	u := capability.Issue(signer, capability.Source, "/docs/guide.md").
		WithParam(capability.ParamProjectURL, "/work/docs")
	data, err = f.Serve(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, "<html>guide.md</html>", string(data))
	assert.Equal(t, "/work/docs", renderer.project.URL)

	_, err = f.Serve(context.Background(), capability.URL{Kind: capability.AlreadyMediated})
	assert.ErrorIs(t, err, ErrDenied)
}
