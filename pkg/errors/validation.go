package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxMaterialNameLength matches shader.MaxNameLength, the limit applied when
// a library is loaded.
const maxMaterialNameLength = 63

// ValidateMaterialName validates that a material was actually selected.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 63 characters
func ValidateMaterialName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeNoMaterialSelected, "no shader selected, please select a material")
	}

	if len(name) > maxMaterialNameLength {
		return New(ErrCodeInvalidInput, "material name too long (max %d characters)", maxMaterialNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "material name contains invalid control characters")
		}
	}

	return nil
}

// ValidateOutputPath validates the destination of a documentation report.
//
// Validation rules:
//   - Path cannot be empty (NO_OUTPUT_PATH_GIVEN)
//   - "-" is accepted and means standard output
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Must name a file, not a directory (no trailing separator)
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeNoOutputPathGiven, "no output path specified, please choose a directory and filename")
	}
	if path == "-" {
		return nil
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path %q names a directory, not a file", path)
	}

	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}
