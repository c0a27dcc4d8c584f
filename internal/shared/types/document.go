package types

import "path/filepath"

// Project identifies the workspace a document is rendered within
type Project struct {
	Name     string `json:"name"`
	URL      string `json:"url,omitempty"` // Presentable URL, preferred over Name when set
	BasePath string `json:"base_path,omitempty"`
}

// DocumentContext carries the per-render state needed to mediate references
type DocumentContext struct {
	BaseDir string // Directory containing the rendered document
	Project Project
}

// NewDocumentContext builds a context for the document at path.
// An empty path yields an empty base directory.
func NewDocumentContext(path string, project Project) DocumentContext {
	base := ""
	if path != "" {
		base = filepath.Dir(path)
	}
	return DocumentContext{BaseDir: base, Project: project}
}

// Matches reports whether the project is identified by the given URL or name.
func (p Project) Matches(url, name string) bool {
	if url != "" {
		return p.URL != "" && p.URL == url
	}
	return name != "" && p.Name == name
}
