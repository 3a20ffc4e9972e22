package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identRegex matches valid dimension, function and symbol names: an ASCII
// letter or underscore followed by letters, digits or underscores.
var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateName validates a dimension, function or symbol name.
// Names appear in equation text and report JSON, so the rules are
// intentionally conservative.
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidModel, "name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidModel, "name too long (max 64 characters): %q", name)
	}

	if !identRegex.MatchString(name) {
		return New(ErrCodeInvalidModel, "invalid name: %q", name)
	}

	return nil
}

// ValidateModelName validates a model's display name.
// Display names are looser than identifiers but still reject control
// characters and unreasonable lengths.
func ValidateModelName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidModel, "model name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidModel, "model name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidModel, "model name contains control characters")
		}
	}

	return nil
}

// ValidateOutputPath validates a path the CLI is asked to write to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}

	return nil
}

// ValidateFormat validates an output format name against the allowed set.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (expected one of: %s)",
		format, strings.Join(allowed, ", "))
}
