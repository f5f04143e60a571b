package io

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/shaderdoc/pkg/errors"
)

// Format is a library file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

// ParseFormat validates a user-supplied format name. "yml" is accepted as
// an alias for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.ValidateFormat(s, "json", "yaml", "toml")
}

// FormatFromPath derives the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer library format of %s: no file extension", path)
	}
	return ParseFormat(ext)
}
