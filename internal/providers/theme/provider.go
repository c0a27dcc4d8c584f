package theme

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed assets
var assetsFS embed.FS

// Theme names beyond the built-in palettes
const (
	Auto    = "auto"
	Light   = "light"
	Dark    = "dark"
	Default = Light
)

// StaticPrefix is the route the embedded assets are served under
const StaticPrefix = "/static"

var scripts = []string{"js/links.js", "js/scroll.js"}

// ErrThemeNotFound is returned for unknown theme IDs
var ErrThemeNotFound = errors.New("theme not found")

// Coderay-style inline colours are barely readable on dark backgrounds
var (
	inlineColor      = regexp.MustCompile(`<span style="color:#[a-zA-Z0-9]*;?`)
	inlineBackground = regexp.MustCompile(`<span style="background-color:#[a-zA-Z0-9]*;?`)
)

// Theme represents a preview palette
type Theme struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Type        string            `json:"type"` // "dark", "light"
	Colors      map[string]string `json:"colors"`
	Fonts       map[string]string `json:"fonts,omitempty"`
}

// IsDark reports whether the palette has a dark background
func (t Theme) IsDark() bool {
	return t.Type == Dark
}

// Assets are the blocks injected into every preview document
type Assets struct {
	Stylesheet string // Goes after <head>
	Scripts    string // Goes before </body>
}

// Provider implements theme lookup for the preview
type Provider struct {
	themes   sync.Map
	mu       sync.RWMutex
	current  string
	darkHint bool
	baseCSS  string
	darkCSS  string
}

// NewProvider creates a theme provider. darkHint resolves the auto theme.
func NewProvider(name string, darkHint bool) (*Provider, error) {
	base, err := fs.ReadFile(assetsFS, "assets/css/preview.css")
	if err != nil {
		return nil, fmt.Errorf("failed to load preview stylesheet: %w", err)
	}
	dark, err := fs.ReadFile(assetsFS, "assets/css/dark.css")
	if err != nil {
		return nil, fmt.Errorf("failed to load dark stylesheet: %w", err)
	}

	p := &Provider{
		current:  Default,
		darkHint: darkHint,
		baseCSS:  string(base),
		darkCSS:  string(dark),
	}

	// Initialize with default themes
	p.initializeDefaults()

	if name != "" {
		if err := p.Set(name); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Provider) initializeDefaults() {
	fonts := map[string]string{
		"sans": "Inter, system-ui, sans-serif",
		"mono": "JetBrains Mono, monospace",
	}

	// Dark theme
	dark := Theme{
		ID:          Dark,
		Name:        "Dark",
		Description: "Default dark theme",
		Type:        Dark,
		Colors: map[string]string{
			"background": "#1a1a1a",
			"surface":    "#252525",
			"primary":    "#3b82f6",
			"secondary":  "#8b5cf6",
			"accent":     "#10b981",
			"text":       "#ffffff",
			"textMuted":  "#a0a0a0",
			"border":     "#404040",
		},
		Fonts: fonts,
	}

	// Light theme
	light := Theme{
		ID:          Light,
		Name:        "Light",
		Description: "Default light theme",
		Type:        Light,
		Colors: map[string]string{
			"background": "#ffffff",
			"surface":    "#f5f5f5",
			"primary":    "#3b82f6",
			"secondary":  "#8b5cf6",
			"accent":     "#10b981",
			"text":       "#1a1a1a",
			"textMuted":  "#666666",
			"border":     "#e0e0e0",
		},
		Fonts: fonts,
	}

	// High contrast theme
	highContrast := Theme{
		ID:          "high-contrast",
		Name:        "High Contrast",
		Description: "High contrast theme for accessibility",
		Type:        Dark,
		Colors: map[string]string{
			"background": "#000000",
			"surface":    "#1a1a1a",
			"primary":    "#00ffff",
			"secondary":  "#ff00ff",
			"accent":     "#00ff00",
			"text":       "#ffffff",
			"textMuted":  "#cccccc",
			"border":     "#ffffff",
		},
		Fonts: fonts,
	}

	p.themes.Store(dark.ID, dark)
	p.themes.Store(light.ID, light)
	p.themes.Store(highContrast.ID, highContrast)
}

// List returns every known theme ordered by ID
func (p *Provider) List() []Theme {
	var themes []Theme
	p.themes.Range(func(_, value interface{}) bool {
		themes = append(themes, value.(Theme))
		return true
	})
	sort.Slice(themes, func(i, j int) bool { return themes[i].ID < themes[j].ID })
	return themes
}

// Get returns a theme by ID
func (p *Provider) Get(id string) (Theme, error) {
	val, ok := p.themes.Load(id)
	if !ok {
		return Theme{}, fmt.Errorf("%w: %s", ErrThemeNotFound, id)
	}
	return val.(Theme), nil
}

// Set selects the active theme. "auto" follows the dark hint.
func (p *Provider) Set(id string) error {
	if id != Auto {
		if _, err := p.Get(id); err != nil {
			return err
		}
	}
	p.mu.Lock()
	p.current = id
	p.mu.Unlock()
	return nil
}

// Current returns the active theme with auto resolved
func (p *Provider) Current() Theme {
	p.mu.RLock()
	id := p.current
	p.mu.RUnlock()

	if id == Auto {
		id = Light
		if p.darkHint {
			id = Dark
		}
	}
	t, err := p.Get(id)
	if err != nil {
		t, _ = p.Get(Default)
	}
	return t
}

// Dark reports whether the active theme has a dark background
func (p *Provider) Dark() bool {
	return p.Current().IsDark()
}

// Assets renders the stylesheet and script blocks for the active theme
func (p *Provider) Assets() Assets {
	t := p.Current()

	var css strings.Builder
	css.WriteString("<style>\n")
	writeVariables(&css, t)
	css.WriteString(p.baseCSS)
	if t.IsDark() {
		css.WriteString(p.darkCSS)
	}
	css.WriteString("</style>\n")

	var js strings.Builder
	for _, script := range scripts {
		fmt.Fprintf(&js, "<script src=\"%s/%s\"></script>\n", StaticPrefix, script)
	}

	return Assets{Stylesheet: css.String(), Scripts: js.String()}
}

// StripInlineColors removes inline span colours when the active theme is dark
func (p *Provider) StripInlineColors(html string) string {
	if !p.Dark() {
		return html
	}
	html = inlineColor.ReplaceAllString(html, `<span style="`)
	return inlineBackground.ReplaceAllString(html, `<span style="`)
}

// Static exposes the embedded css/ and js/ trees
func Static() fs.FS {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

func writeVariables(b *strings.Builder, t Theme) {
	b.WriteString(":root {\n")
	for _, key := range sortedKeys(t.Colors) {
		fmt.Fprintf(b, "  --%s: %s;\n", kebab(key), t.Colors[key])
	}
	for _, key := range sortedKeys(t.Fonts) {
		fmt.Fprintf(b, "  --font-%s: %s;\n", kebab(key), t.Fonts[key])
	}
	b.WriteString("}\n")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// kebab converts camelCase palette keys to CSS custom property names
func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
