// Package session ties mediation together for one preview surface.
//
// A Session owns the signing key, the scratch images directory and the
// renderer. GetHTML produces a complete page:
//
//  1. Read the document and normalise it to UTF-8
//  2. Collect .previewconfig files and project settings
//  3. Render to an HTML fragment
//  4. Strip inline colours for dark themes
//  5. Wrap in <html><head></head><body>...</body></html>
//  6. Rewrite local references to capability URLs
//  7. Inject theme stylesheet and scripts
//
// Any failure yields ErrRenderFailed and a single error notification.
//
// Example Usage:
//
//	s, err := session.New(opts, render.NewMarkdown(), themes, logger)
//	defer s.Close()
//	html, err := s.GetHTML(ctx, "/docs/guide.md", types.Project{})
//	data, err := s.Facade().ServeImage(file, mac)
package session
