// Package paths provides filesystem path helpers for reference resolution.
//
// All existence checks treat I/O errors as "does not exist" so callers can
// fall back to a default classification instead of failing a render.
//
// # Usage
//
//	abs := paths.Resolve(baseDir, "images/logo.png")
//	if paths.Within(imagesDir, candidate) && paths.IsFile(candidate) {
//	    // renderer-generated image
//	}
package paths
