// Package theme provides the preview palettes and the stylesheet and script
// blocks injected into every mediated document.
//
// Built-in themes: light, dark, high-contrast. The auto theme resolves to
// light or dark from a hint supplied at construction.
package theme
