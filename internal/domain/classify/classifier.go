// Package classify decides which kind of capability a raw reference needs
// and which file on disk it resolves to.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/capability"
	"github.com/GriffinCanCode/AgentOS/preview/internal/shared/paths"
)

// DefaultSourceExt is the convertible-document extension used when none is configured
const DefaultSourceExt = ".md"

const htmlExt = ".html"

// Options configures a Classifier
type Options struct {
	SourceExt string // Convertible-document extension, including the dot
	ImagesDir string // Scratch directory for renderer-generated images, may be empty
}

// Resolution is the outcome of classifying one reference
type Resolution struct {
	Kind      capability.Kind
	Reference string // Reference after extension fallbacks
	Path      string // File the capability is issued for
	TempImage bool   // Path lies in the scratch images directory
}

// Classifier resolves decoded references against the filesystem
type Classifier struct {
	sourceExt string
	imagesDir string
}

// New creates a classifier
func New(opts Options) *Classifier {
	ext := opts.SourceExt
	if ext == "" {
		ext = DefaultSourceExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Classifier{
		sourceExt: ext,
		imagesDir: opts.ImagesDir,
	}
}

// SourceExt returns the convertible-document extension
func (c *Classifier) SourceExt() string {
	return c.sourceExt
}

// ImagesDir returns the scratch images directory
func (c *Classifier) ImagesDir() string {
	return c.imagesDir
}

// ClassifyLink applies the full resolution policy to a hyperlink target:
// mediated, source extension, stale .html sibling, bare-name sibling, image.
func (c *Classifier) ClassifyLink(ref, base string) Resolution {
	if capability.IsMediated(ref) {
		return Resolution{Kind: capability.AlreadyMediated, Reference: ref}
	}

	switch {
	case strings.HasSuffix(ref, c.sourceExt):
		return c.source(ref, base)
	case strings.HasSuffix(ref, htmlExt):
		if !paths.Exists(paths.Resolve(base, ref)) {
			sibling := paths.ReplaceExt(ref, htmlExt, c.sourceExt)
			if paths.Exists(paths.Resolve(base, sibling)) {
				return c.source(sibling, base)
			}
		}
	case paths.Exists(paths.Resolve(base, ref+c.sourceExt)):
		return c.source(ref+c.sourceExt, base)
	}

	return Resolution{Kind: capability.Image, Reference: ref, Path: paths.Resolve(base, ref)}
}

// ClassifyImage resolves an image source. Renderer-generated images in the
// scratch directory take precedence over files beside the document.
func (c *Classifier) ClassifyImage(ref, base string) Resolution {
	if capability.IsMediated(ref) {
		return Resolution{Kind: capability.AlreadyMediated, Reference: ref}
	}
	if tmp, ok := c.findTempImage(ref); ok {
		return Resolution{Kind: capability.Image, Reference: ref, Path: tmp, TempImage: true}
	}
	return Resolution{Kind: capability.Image, Reference: ref, Path: paths.Resolve(base, ref)}
}

// ClassifyObject resolves embedded object data, which is always served as bytes
func (c *Classifier) ClassifyObject(ref, base string) Resolution {
	if capability.IsMediated(ref) {
		return Resolution{Kind: capability.AlreadyMediated, Reference: ref}
	}
	return Resolution{Kind: capability.Image, Reference: ref, Path: paths.Resolve(base, ref)}
}

func (c *Classifier) source(ref, base string) Resolution {
	return Resolution{Kind: capability.Source, Reference: ref, Path: paths.Resolve(base, ref)}
}

// findTempImage looks the reference up in the scratch directory.
// Lookups that would leave the directory are ignored.
func (c *Classifier) findTempImage(ref string) (string, bool) {
	if c.imagesDir == "" || ref == "" || filepath.IsAbs(ref) {
		return "", false
	}
	candidate := filepath.Join(c.imagesDir, ref)
	if !paths.Within(c.imagesDir, candidate) || !paths.IsFile(candidate) {
		return "", false
	}
	return candidate, true
}
