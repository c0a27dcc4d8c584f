package render

import (
	"context"
	"errors"
)

// FormatHTML is the only output format the preview consumes
const FormatHTML = "html"

// ErrUnsupportedFormat is returned when a request asks for anything but HTML
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Request carries everything a renderer needs for one document
type Request struct {
	Text        string   // Document text, already decoded to UTF-8
	Config      string   // Collected configuration prepended to the text
	Extensions  []string // Named extensions to enable
	Notifier    Notifier // Receives render diagnostics, may be nil
	Format      string   // Output format, empty means HTML
	BaseDir     string   // Directory of the document
	ImagesDir   string   // Scratch directory for generated images
	FileName    string   // Base name of the document
	ProjectBase string   // Root of the enclosing project, may be empty
}

// Renderer converts document text to an HTML fragment.
// Implementations must be safe for concurrent use.
type Renderer interface {
	Render(ctx context.Context, req Request) (string, error)
}

// Func adapts an ordinary function to the Renderer interface
type Func func(ctx context.Context, req Request) (string, error)

// Render calls f
func (f Func) Render(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

func checkFormat(format string) error {
	if format != "" && format != FormatHTML {
		return ErrUnsupportedFormat
	}
	return nil
}
