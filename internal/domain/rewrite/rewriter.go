package rewrite

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
	xhtml "golang.org/x/net/html"

	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/capability"
	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/classify"
	"github.com/GriffinCanCode/AgentOS/preview/internal/domain/fingerprint"
	"github.com/GriffinCanCode/AgentOS/preview/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/preview/internal/shared/types"
)

// Attribute values containing a colon carry a scheme (http:, data:) and never match
var (
	imagePattern  = regexp.MustCompile(`<img src="([^:"]*)"`)
	linkPattern   = regexp.MustCompile(`<a ([^>]*)href="([^:"]*)"`)
	objectPattern = regexp.MustCompile(`<object ([^>]*)data="([^:"]*)"`)
)

// Element names used in logs and metrics
const (
	ElementImage  = "img"
	ElementLink   = "a"
	ElementObject = "object"
)

// EncodingError reports a reference whose percent-encoding is malformed.
// It aborts the whole rewrite; no partially mediated HTML is returned.
type EncodingError struct {
	Element   string
	Reference string
	Err       error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to decode %s reference %q: %v", e.Element, e.Reference, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Rewriter replaces local references in rendered HTML with capability URLs
type Rewriter struct {
	classifier    *classify.Classifier
	signer        *capability.Signer
	fingerprinter *fingerprint.Fingerprinter
	logger        *zap.Logger
	metrics       *monitoring.Metrics
}

// New creates a rewriter
func New(classifier *classify.Classifier, signer *capability.Signer, fingerprinter *fingerprint.Fingerprinter, logger *zap.Logger) *Rewriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rewriter{
		classifier:    classifier,
		signer:        signer,
		fingerprinter: fingerprinter,
		logger:        logger,
	}
}

// WithMetrics attaches a metrics collector
func (r *Rewriter) WithMetrics(metrics *monitoring.Metrics) *Rewriter {
	r.metrics = metrics
	return r
}

// Rewrite runs the image, link and object passes in that order.
// Rewriting already mediated HTML returns it unchanged.
func (r *Rewriter) Rewrite(html string, doc types.DocumentContext) (string, error) {
	out, err := scan(html, imagePattern, func(g []string) (string, error) {
		return r.image(g, doc)
	})
	if err != nil {
		return "", err
	}

	out, err = scan(out, linkPattern, func(g []string) (string, error) {
		return r.link(g, doc)
	})
	if err != nil {
		return "", err
	}

	return scan(out, objectPattern, func(g []string) (string, error) {
		return r.object(g, doc)
	})
}

func (r *Rewriter) image(g []string, doc types.DocumentContext) (string, error) {
	raw := g[1]
	if capability.IsMediated(raw) {
		return g[0], nil
	}

	ref, err := decode(ElementImage, raw)
	if err != nil {
		return "", err
	}

	res := r.classifier.ClassifyImage(ref, doc.BaseDir)
	if res.Kind == capability.AlreadyMediated {
		return g[0], nil
	}

	u := capability.Issue(r.signer, capability.Image, res.Path).
		WithHash(r.fingerprinter.Fingerprint(res.Path))
	r.record(ElementImage, res)

	return `<img src="` + u.String() + `"`, nil
}

func (r *Rewriter) link(g []string, doc types.DocumentContext) (string, error) {
	attrs, raw := g[1], g[2]
	if raw == "" || strings.HasPrefix(raw, "#") || capability.IsMediated(raw) {
		return g[0], nil
	}

	raw, fragment, _ := strings.Cut(raw, "#")
	ref, err := decode(ElementLink, raw)
	if err != nil {
		return "", err
	}

	res := r.classifier.ClassifyLink(ref, doc.BaseDir)
	if res.Kind == capability.AlreadyMediated {
		return g[0], nil
	}

	u := capability.Issue(r.signer, res.Kind, res.Path)
	if res.Kind == capability.Source {
		u = withProject(u, doc.Project)
	}
	u.Fragment = fragment
	r.record(ElementLink, res)

	return `<a ` + attrs + `href="` + u.String() + `"`, nil
}

func (r *Rewriter) object(g []string, doc types.DocumentContext) (string, error) {
	attrs, raw := g[1], g[2]
	if capability.IsMediated(raw) {
		return g[0], nil
	}

	ref, err := decode(ElementObject, raw)
	if err != nil {
		return "", err
	}

	res := r.classifier.ClassifyObject(ref, doc.BaseDir)
	if res.Kind == capability.AlreadyMediated {
		return g[0], nil
	}

	u := capability.Issue(r.signer, capability.Image, res.Path)
	r.record(ElementObject, res)

	return `<object ` + attrs + `data="` + u.String() + `"`, nil
}

func (r *Rewriter) record(element string, res classify.Resolution) {
	r.logger.Debug("reference mediated",
		zap.String("element", element),
		zap.String("kind", res.Kind.String()),
		zap.String("reference", res.Reference),
		zap.Bool("temp_image", res.TempImage))
	r.metrics.RecordMediated(element, res.Kind.String())
}

// withProject appends the advisory project parameter, preferring the display URL
func withProject(u capability.URL, project types.Project) capability.URL {
	switch {
	case project.URL != "":
		return u.WithParam(capability.ParamProjectURL, project.URL)
	case project.Name != "":
		return u.WithParam(capability.ParamProjectName, project.Name)
	default:
		return u
	}
}

// decode undoes the attribute's character references, then its percent-encoding.
// '+' decodes to a space, as form decoding does.
func decode(element, raw string) (string, error) {
	ref, err := url.QueryUnescape(xhtml.UnescapeString(raw))
	if err != nil {
		return "", &EncodingError{Element: element, Reference: raw, Err: err}
	}
	return ref, nil
}

// scan makes one left-to-right pass over html, replacing every match of re
// with the output of fn. Matches are located once against the pass input so
// replacement text is never rescanned.
func scan(html string, re *regexp.Regexp, fn func(groups []string) (string, error)) (string, error) {
	matches := re.FindAllStringSubmatchIndex(html, -1)
	if len(matches) == 0 {
		return html, nil
	}

	var b strings.Builder
	b.Grow(len(html) + len(matches)*128)

	last := 0
	for _, loc := range matches {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = html[loc[2*i]:loc[2*i+1]]
			}
		}

		replacement, err := fn(groups)
		if err != nil {
			return "", err
		}

		b.WriteString(html[last:loc[0]])
		b.WriteString(replacement)
		last = loc[1]
	}
	b.WriteString(html[last:])

	return b.String(), nil
}
