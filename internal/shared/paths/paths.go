package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TempImagesPrefix names the scratch directory renderers materialise images into
const TempImagesPrefix = "preview-images-"

// Exists reports whether path names an existing filesystem entry.
// Any stat error, including permission errors, counts as "does not exist".
func Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// IsFile reports whether path names an existing regular file
func IsFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Resolve joins a document-relative reference onto base.
// An empty base leaves the reference relative.
func Resolve(base, ref string) string {
	if base == "" {
		return filepath.Clean(ref)
	}
	return filepath.Join(base, ref)
}

// Within reports whether path stays inside root after cleaning
func Within(root, path string) bool {
	if root == "" {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ReplaceExt swaps the trailing extension of name for ext
func ReplaceExt(name, oldExt, newExt string) string {
	return strings.TrimSuffix(name, oldExt) + newExt
}

// CreateTempImagesDir creates a fresh scratch directory under dir (or the OS temp dir)
func CreateTempImagesDir(dir string) (string, error) {
	path, err := os.MkdirTemp(dir, TempImagesPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp images dir: %w", err)
	}
	return path, nil
}

// RemoveTempImagesDir recursively deletes a scratch directory.
// Removing a directory that is already gone is not an error.
func RemoveTempImagesDir(path string) error {
	if path == "" {
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove temp images dir %s: %w", path, err)
	}
	return nil
}
