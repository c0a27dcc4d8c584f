package http

import (
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/capability"
	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/session"
	"github.com/GriffinCanCode/AgentOS/preview/internal/shared/utils"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"

	// Every refusal carries the same body so callers learn nothing about the file
	notFoundBody = "not found"
	renderError  = "failed to render preview"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	session  *session.Session
	document string
	logger   *zap.Logger
}

// NewHandlers creates a new handler set. document is the file served at /preview.
func NewHandlers(s *session.Session, document string, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		session:  s,
		document: document,
		logger:   logger,
	}
}

// Register mounts the preview routes
func (h *Handlers) Register(r gin.IRoutes) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/preview", h.Preview)
	r.GET("/"+capability.Image.Endpoint(), h.Image)
	r.GET("/"+capability.Source.Endpoint(), h.Source)
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Document Preview",
		"version": "0.1.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"session_id": h.session.ID(),
		"document":   h.document != "",
	})
}

// Image serves the bytes behind an image capability
func (h *Handlers) Image(c *gin.Context) {
	data, ok := h.serve(c, capability.Image)
	if !ok {
		return
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
}

// Source re-renders the document behind a source capability
func (h *Handlers) Source(c *gin.Context) {
	html, ok := h.serve(c, capability.Source)
	if !ok {
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentTypeHTML, html)
}

// serve parses the request into a capability of the endpoint's kind and hands
// it to the session facade. Every refusal has already been answered when ok is false.
func (h *Handlers) serve(c *gin.Context, kind capability.Kind) (data []byte, ok bool) {
	u := capability.ParseQuery(kind, c.Request.URL.Query())

	err := utils.ValidateResourceQuery(u.Path, u.Signature)
	if err == nil {
		err = utils.ValidateProject(u.Param(capability.ParamProjectURL), u.Param(capability.ParamProjectName))
	}
	if err != nil {
		h.logger.Debug("malformed capability request", zap.String("endpoint", kind.Endpoint()), zap.Error(err))
		notFound(c)
		return nil, false
	}

	data, err = h.session.Facade().Serve(c.Request.Context(), u)
	if err != nil {
		notFound(c)
		return nil, false
	}
	return data, true
}

// Preview renders the configured document
func (h *Handlers) Preview(c *gin.Context) {
	if h.document == "" {
		notFound(c)
		return
	}

	html, err := h.session.GetHTML(c.Request.Context(), h.document, h.session.Project())
	if err != nil {
		c.String(http.StatusInternalServerError, renderError)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentTypeHTML, []byte(html))
}

func notFound(c *gin.Context) {
	c.String(http.StatusNotFound, notFoundBody)
}
