// Package http exposes a preview session over gin.
//
// Routes:
//   - GET /image?file=&mac=&hash=       image capability
//   - GET /source?file=&mac=&project*=  source capability, re-rendered
//   - GET /preview                      the configured document
//   - GET /health
//
// Every refused capability answers 404 with the same body, whether the
// signature was wrong or the file is gone.
package http
