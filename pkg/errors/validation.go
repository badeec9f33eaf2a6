package errors

import (
	"strings"
	"unicode"
)

// maxPatternLength bounds include, exclude, abstract and highlight patterns.
const maxPatternLength = 256

// ValidatePattern validates a path substring pattern.
//
// Validation rules:
//   - Pattern cannot be empty (an empty substring would match every path)
//   - Maximum length of 256 characters
//   - No control characters
func ValidatePattern(kind, pattern string) error {
	if pattern == "" {
		return New(ErrCodeInvalidInput, "%s pattern cannot be empty", kind)
	}
	if len(pattern) > maxPatternLength {
		return New(ErrCodeInvalidInput, "%s pattern too long (max %d characters)", kind, maxPatternLength)
	}
	for _, r := range pattern {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s pattern contains invalid control characters", kind)
		}
	}
	return nil
}

// ValidatePatterns runs [ValidatePattern] over every pattern.
func ValidatePatterns(kind string, patterns []string) error {
	for _, p := range patterns {
		if err := ValidatePattern(kind, p); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRootDir validates the directory that click links point into.
func ValidateRootDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return New(ErrCodeInvalidPath, "root directory cannot be empty when links are enabled")
	}
	for _, r := range dir {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "root directory contains invalid characters")
		}
	}
	if strings.ContainsRune(dir, '"') {
		return New(ErrCodeInvalidPath, "root directory cannot contain quotes")
	}
	return nil
}

// ValidateGraphPath validates the path of a graph document inside a
// request. It prevents path traversal out of the served directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
func ValidateGraphPath(path string) error {
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

	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`) {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	for _, seg := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateRedisURL validates a redis connection URL.
// It ensures the URL uses the redis or rediss scheme.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "redis URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidInput, "redis URL must use the redis or rediss scheme")
	}
	return nil
}
