// Package pipeline provides the documentation pipeline shared by the CLI and
// the HTTP server.
//
// # Architecture
//
// A run has three stages:
//
//  1. Load: read a shader library file ([io.ImportLibrary]) or take one
//     that is already in memory
//  2. Prepare: validate options, select the material and resolve the node
//     the report starts from
//  3. Render: stream the text report to a line sink, or draw a node-link
//     diagram, consulting the cache first
//
// Validation and root resolution always finish before any output is
// opened, so a failed run never leaves a header-only report behind.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Library:  "scene.json",
//	    Material: "Wood",
//	    Output:   "docs/wood.txt",
//	})
//
// Render an in-memory library to any sink:
//
//	result, err := runner.Document(ctx, lib, opts, document.NewWriterSink(w))
//
// [io.ImportLibrary]: github.com/matzehuels/shaderdoc/pkg/io.ImportLibrary
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shaderdoc/pkg/cache"
	"github.com/matzehuels/shaderdoc/pkg/document"
	"github.com/matzehuels/shaderdoc/pkg/errors"
	"github.com/matzehuels/shaderdoc/pkg/shader"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// RendererVersion is part of every cache key. Bump it whenever the report
// or diagram output changes.
const RendererVersion = "1"

// Cache lifetimes. Reports are keyed by library content, so they only go
// stale when the renderer changes.
const (
	TTLReport = 7 * 24 * time.Hour
	TTLGraph  = 7 * 24 * time.Hour
	// TTLRemote bounds how long a downloaded library is reused.
	TTLRemote = time.Hour
)

// StdoutPath is the output path that selects standard output.
const StdoutPath = "-"

// Format constants for node-link diagrams.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// DefaultGraphFormat is the diagram format used when none is given.
const DefaultGraphFormat = FormatSVG

// ValidGraphFormats is the set of supported diagram formats.
var ValidGraphFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input
	Library  string `json:"library,omitempty"` // library file path, used by Execute
	Material string `json:"material"`

	// Report output
	Output string `json:"output,omitempty"` // file path or "-" for stdout

	// Diagram options
	Format       string `json:"format,omitempty"`
	Detailed     bool   `json:"detailed,omitempty"`
	ExpandGroups bool   `json:"expand_groups,omitempty"`

	// Refresh bypasses cache reads; fresh results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Stdout io.Writer   `json:"-"` // destination for "-"; defaults to os.Stdout

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a report run.
type Result struct {
	// Material is the documented material.
	Material string

	// Root is the node the report starts from.
	Root *shader.Node

	// Output is the destination path, "-" for stdout, or empty when the
	// caller supplied the sink.
	Output string

	// LibraryHash is the content hash of the library, empty when the
	// library cannot be hashed.
	LibraryHash string

	// Stats contains line counts and timing.
	Stats Stats

	// CacheHit reports whether the report was replayed from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	document.Stats
	Duration time.Duration
}

// GraphResult contains the outputs of a diagram run.
type GraphResult struct {
	Material string
	Format   string
	Data     []byte
	Duration time.Duration
	CacheHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateGraphFormat checks that a diagram format is valid.
func ValidateGraphFormat(format string) error {
	if !ValidGraphFormats[format] {
		return errors.ValidateFormat(format, FormatDOT, FormatSVG)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateMaterialName(o.Material); err != nil {
		return err
	}
	if o.Format == "" {
		o.Format = DefaultGraphFormat
	}
	if err := ValidateGraphFormat(o.Format); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateForExecute additionally checks the fields [Runner.Execute] needs.
func (o *Options) ValidateForExecute() error {
	if err := o.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Library == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no library file given")
	}
	return errors.ValidateOutputPath(o.Output)
}

// ReportKeyOpts returns cache key options for reports.
func (o *Options) ReportKeyOpts() cache.ReportKeyOpts {
	return cache.ReportKeyOpts{Version: RendererVersion}
}

// GraphKeyOpts returns cache key options for diagrams.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Format:   o.Format + "/" + RendererVersion,
		Detailed: o.Detailed,
		Expand:   o.ExpandGroups,
	}
}
