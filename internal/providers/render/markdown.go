package render

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Extension names accepted in Request.Extensions and project settings
var markdownExtensions = map[string]goldmark.Extender{
	"gfm":             extension.GFM,
	"table":           extension.Table,
	"strikethrough":   extension.Strikethrough,
	"linkify":         extension.Linkify,
	"tasklist":        extension.TaskList,
	"footnote":        extension.Footnote,
	"typographer":     extension.Typographer,
	"definition-list": extension.DefinitionList,
}

// MarkdownExtensions lists the extension names the Markdown renderer understands
func MarkdownExtensions() []string {
	names := make([]string, 0, len(markdownExtensions))
	for name := range markdownExtensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Markdown renders CommonMark documents with goldmark
type Markdown struct {
	sanitizer *bluemonday.Policy
}

// MarkdownOption configures the Markdown renderer
type MarkdownOption func(*Markdown)

// WithSanitizer filters rendered HTML through policy
func WithSanitizer(policy *bluemonday.Policy) MarkdownOption {
	return func(m *Markdown) {
		m.sanitizer = policy
	}
}

// NewMarkdown creates a Markdown renderer
func NewMarkdown(opts ...MarkdownOption) *Markdown {
	m := &Markdown{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SanitizePolicy returns a UGC policy that keeps everything the rewriter mediates
func SanitizePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class", "id").Globally()
	p.AllowAttrs("data", "type", "width", "height").OnElements("object")
	p.AllowElements("object")
	return p
}

// Render converts req.Text, prefixed by req.Config, to an HTML fragment
func (m *Markdown) Render(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkFormat(req.Format); err != nil {
		return "", fmt.Errorf("failed to render %s as %q: %w", req.FileName, req.Format, err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(m.extensions(ctx, req)...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	source := req.Text
	if req.Config != "" {
		source = strings.TrimRight(req.Config, "\n") + "\n\n" + req.Text
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", req.FileName, err)
	}

	if m.sanitizer != nil {
		return m.sanitizer.SanitizeReader(&buf).String(), nil
	}
	return buf.String(), nil
}

func (m *Markdown) extensions(ctx context.Context, req Request) []goldmark.Extender {
	exts := make([]goldmark.Extender, 0, len(req.Extensions))
	seen := make(map[string]bool, len(req.Extensions))

	for _, name := range req.Extensions {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		ext, ok := markdownExtensions[key]
		if !ok {
			notify(ctx, req.Notifier, LevelWarning, "Unknown extension",
				fmt.Sprintf("extension %q is not available for %s", name, req.FileName))
			continue
		}
		exts = append(exts, ext)
	}
	return exts
}
