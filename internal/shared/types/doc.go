// Package types provides shared data structures for the preview backend.
//
// Core Types:
//   - Project: Workspace a document belongs to (name, presentable URL, root)
//   - DocumentContext: Base directory and project for one render pass
//
// Example Usage:
//
//	doc := types.NewDocumentContext("/work/guide/index.md", types.Project{
//	    Name:     "guide",
//	    BasePath: "/work/guide",
//	})
package types
