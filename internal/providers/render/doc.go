// Package render is the boundary to the document renderer.
//
// A Renderer is a pure function from document text plus configuration to an
// HTML fragment. The bundled Markdown renderer is built on goldmark and can
// optionally pass its output through a bluemonday policy.
//
// Supporting helpers:
//   - LoadConfig: collects .previewconfig files from the project root down
//   - LoadSettings: reads .preview.yaml or .preview.toml at the project root
//   - DecodeText: normalises document bytes to UTF-8 (chardet detection)
//   - LogNotifier: forwards render diagnostics to zap
package render
