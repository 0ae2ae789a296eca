package errors

import (
	"math"
	"slices"
	"strings"
	"unicode"
)

// Formats lists the drawing and report formats understood by gdcross.
var Formats = []string{"json", "geojson", "dot", "svg", "table"}

// ValidateFormat checks name against [Formats].
func ValidateFormat(name string) error {
	if !slices.Contains(Formats, name) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateAlgorithm checks for one of the crossing detection algorithms.
// The empty name selects the default.
func ValidateAlgorithm(name string) error {
	switch name {
	case "", "sweep", "quadratic":
		return nil
	}
	return New(ErrCodeInvalidAlgorithm, "unknown algorithm %q (want sweep or quadratic)", name)
}

// ValidateTolerance rejects negative, NaN and infinite tolerances, and
// tolerances too coarse to separate distinct coordinates of a unit drawing.
func ValidateTolerance(tol float64) error {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		return New(ErrCodeInvalidOptions, "tolerance must be finite and non-negative, got %v", tol)
	}
	if tol >= 1 {
		return New(ErrCodeInvalidOptions, "tolerance %v is too coarse (must be below 1)", tol)
	}
	return nil
}

// ValidateNodeID checks a node identifier read from user input.
//
// Validation rules:
//   - ID cannot be empty
//   - Maximum length of 256 characters
//   - No control characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node id too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id %q contains control characters", id)
		}
	}
	return nil
}

// ValidatePath validates a relative file path taken from a batch manifest
// or an API request. It prevents path traversal and ensures reasonable
// path length.
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

	if slices.Contains(strings.Split(path, "/"), "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
