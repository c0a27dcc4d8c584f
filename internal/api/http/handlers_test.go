package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/capability"
	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/session"
	"github.com/GriffinCanCode/AgentOS/preview/internal/providers/render"
	"github.com/GriffinCanCode/AgentOS/preview/internal/providers/theme"
	"github.com/GriffinCanCode/AgentOS/preview/internal/shared/types"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type fixture struct {
	dir     string
	doc     string
	session *session.Session
	router  *gin.Engine
}

func setupTestRouter(t *testing.T, document string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{dir: t.TempDir()}
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "logo.png"), pngHeader, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "other.md"), []byte("# Other\n"), 0o644))
	f.doc = filepath.Join(f.dir, "README.md")
	require.NoError(t, os.WriteFile(f.doc, []byte("# Title\n\n![logo](logo.png)\n\n[other](other)\n"), 0o644))

	themes, err := theme.NewProvider(theme.Light, false)
	require.NoError(t, err)
	f.session, err = session.New(session.Options{Project: types.Project{Name: "docs"}}, render.NewMarkdown(), themes, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.session.Close() })

	if document == "" {
		document = f.doc
	}
	if document == "-" {
		document = ""
	}

	f.router = gin.New()
	NewHandlers(f.session, document, nil).Register(f.router)
	return f
}

func (f *fixture) get(target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func (f *fixture) preview(t *testing.T) *goquery.Document {
	t.Helper()
	w := f.get("/preview")
	require.Equal(t, http.StatusOK, w.Code)
	d, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return d
}

func TestPreview(t *testing.T) {
	f := setupTestRouter(t, "")

	w := f.get("/preview")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentTypeHTML, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `<h1 id="title">Title</h1>`)
	assert.Contains(t, w.Body.String(), `src="image?file=`)
}

func TestImageRoundTrip(t *testing.T) {
	f := setupTestRouter(t, "")
	src := f.preview(t).Find("img").AttrOr("src", "")
	require.True(t, strings.HasPrefix(src, capability.ImagePrefix))

	w := f.get("/" + src)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pngHeader, w.Body.Bytes())
}

func TestSourceRoundTrip(t *testing.T) {
	f := setupTestRouter(t, "")
	href := f.preview(t).Find("a").AttrOr("href", "")
	require.True(t, strings.HasPrefix(href, capability.SourcePrefix), href)
	assert.Contains(t, href, "projectName=docs")

	w := f.get("/" + href)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentTypeHTML, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `<h1 id="other">Other</h1>`)
}

func TestDenialsAreIndistinguishable(t *testing.T) {
	f := setupTestRouter(t, "")
	src := f.preview(t).Find("img").AttrOr("src", "")
	valid := f.get("/" + src)
	require.Equal(t, http.StatusOK, valid.Code)

	require.NoError(t, os.Remove(filepath.Join(f.dir, "logo.png")))

	tests := []struct {
		name   string
		target string
	}{
		{"deleted file with valid mac", "/" + src},
		{"wrong mac", "/image?file=" + filepath.Join(f.dir, "other.md") + "&mac=" + strings.Repeat("0", 64)},
		{"garbage mac", "/image?file=/etc/passwd&mac=badmac"},
		{"no params", "/image"},
		{"source without mac", "/source?file=" + f.doc},
		{"image capability at source", "/source" + strings.TrimPrefix(src, "image")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.get(tt.target)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, notFoundBody, w.Body.String())
		})
	}
}

func TestPreviewRenderFailure(t *testing.T) {
	f := setupTestRouter(t, filepath.Join(t.TempDir(), "missing.md"))

	w := f.get("/preview")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, renderError, w.Body.String())
}

func TestPreviewWithoutDocument(t *testing.T) {
	f := setupTestRouter(t, "-")

	w := f.get("/preview")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	f := setupTestRouter(t, "")

	w := f.get("/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, f.session.ID().String(), body["session_id"])
	assert.Equal(t, true, body["document"])
}

func TestRoot(t *testing.T) {
	f := setupTestRouter(t, "")

	w := f.get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "online")
}
