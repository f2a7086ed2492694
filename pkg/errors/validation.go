package errors

import (
	"strings"
	"unicode"
)

// maxModuleIDLength bounds canonical module ids read from graph files.
const maxModuleIDLength = 1024

// ValidateModuleID validates a canonical module id read from an external graph.
//
// Module ids are opaque to graphshake, so the rules only reject values that
// cannot be a usable map key or an import path in emitted code:
//   - No empty ids
//   - No control characters or null bytes
//   - No quote characters (ids are printed inside import statements)
//   - Maximum length of 1024 characters
func ValidateModuleID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "module id cannot be empty")
	}

	if len(id) > maxModuleIDLength {
		return New(ErrCodeInvalidGraph, "module id too long (max %d characters)", maxModuleIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "module id %q contains control characters", id)
		}
	}

	if strings.ContainsAny(id, "\"'`") {
		return New(ErrCodeInvalidGraph, "module id %q contains quote characters", id)
	}

	return nil
}

// ValidatePath validates a source file path referenced by a graph file.
// Paths are resolved relative to the graph file's directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
