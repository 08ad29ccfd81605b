package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateGroupID validates a socket group or drag session identifier.
// IDs are opaque but must be short and free of control characters and path
// separators, since the file store and cache use them in file names.
func ValidateGroupID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id contains invalid control characters")
		}
	}
	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "id contains invalid characters")
	}
	return nil
}

// ValidateProjectPath validates a project file path and returns its
// lower-cased extension (".json" or ".toml").
func ValidateProjectPath(path string) (string, error) {
	if path == "" {
		return "", New(ErrCodeInvalidPath, "path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' {
			return "", New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json", ".toml":
		return ext, nil
	default:
		return "", New(ErrCodeInvalidFormat, "unsupported project file extension %q (must be .json or .toml)", ext)
	}
}
