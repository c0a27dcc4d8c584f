package server

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/preview/internal/api/middleware"
	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/capability"
	"github.com/GriffinCanCode/AgentOS/preview/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/preview/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/preview/internal/shared/utils"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()

	root := t.TempDir()
	doc := filepath.Join(root, "README.md")
	body := "# Guide\n\n![diagram](diagram.png)\n\n" + strings.Repeat("Some prose about the project.\n\n", 100)
	require.NoError(t, os.WriteFile(doc, []byte(body), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "diagram.png"), []byte("\x89PNG\r\n\x1a\n"), 0o644))

	cfg := config.Default()
	cfg.Logging.Development = true
	cfg.RateLimit.Enabled = false
	cfg.Preview.Document = doc
	cfg.Preview.ProjectRoot = root
	if mutate != nil {
		mutate(cfg)
	}

	s, err := NewServer(cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestPreviewIsCompressed(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/preview", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := serve(s, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	html, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(html), `src="image?file=`)
	assert.Contains(t, string(html), `/static/js/links.js`)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/static/js/links.js", "/static/js/scroll.js", "/static/css/preview.css"} {
		t.Run(path, func(t *testing.T) {
			w := serve(s, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.NotZero(t, w.Body.Len())
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	serve(s, httptest.NewRequest(http.MethodGet, "/preview", nil))
	serve(s, httptest.NewRequest(http.MethodGet, "/image?file=/etc/passwd&mac=00", nil))

	w := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `preview_renders_total{status="success"} 1`)
	assert.Contains(t, body, `preview_serve_total{endpoint="image",result="denied"} 1`)
	assert.Contains(t, body, `preview_http_requests_total{method="GET",path="/preview",status="200"} 1`)
}

func TestCORSOnlyWithOrigins(t *testing.T) {
	origin := "http://localhost:3000"

	without := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", origin)
	assert.Empty(t, serve(without, req).Header().Get("Access-Control-Allow-Origin"))

	with := newTestServer(t, func(cfg *config.Config) { cfg.CORS.Origins = []string{origin} })
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", origin)
	assert.Equal(t, origin, serve(with, req).Header().Get("Access-Control-Allow-Origin"))
}

func TestCloseRemovesOwnedImagesDir(t *testing.T) {
	s := newTestServer(t, nil)
	dir := s.Session().ImagesDir()
	require.DirExists(t, dir)

	require.NoError(t, s.Close())
	assert.NoDirExists(t, dir)
}

func TestRelativeConfigPathsAreResolved(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		root := cfg.Preview.ProjectRoot
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(root))
		t.Cleanup(func() { _ = os.Chdir(wd) })
		cfg.Preview.Document = "README.md"
		cfg.Preview.ProjectRoot = "."
		cfg.Preview.ImagesDir = "."
	})
	assert.True(t, filepath.IsAbs(s.Session().ImagesDir()))
	assert.True(t, filepath.IsAbs(s.Session().Project().BasePath))

	w := serve(s, httptest.NewRequest(http.MethodGet, "/preview", nil))
	require.Equal(t, http.StatusOK, w.Code)

	d, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	src := d.Find("img").AttrOr("src", "")
	q, err := url.ParseQuery(strings.TrimPrefix(src, capability.ImagePrefix))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(q.Get(capability.ParamFile)), q.Get(capability.ParamFile))

	img := serve(s, httptest.NewRequest(http.MethodGet, "/"+src, nil))
	assert.Equal(t, http.StatusOK, img.Code)
	assert.Equal(t, "image/png", img.Header().Get("Content-Type"))
}

func TestNewSessionRejectsUnknownHash(t *testing.T) {
	cfg := config.Default().Preview
	cfg.Hash = "crc32"

	_, err := NewSession(cfg, nil, logging.NewNop())
	assert.ErrorIs(t, err, utils.ErrUnsupportedAlgorithm)
}

func TestNewSessionDerivesProjectName(t *testing.T) {
	cfg := config.Default().Preview
	cfg.ProjectRoot = filepath.Join(t.TempDir(), "handbook")

	s, err := NewSession(cfg, nil, logging.NewNop())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "handbook", s.Project().Name)
}
