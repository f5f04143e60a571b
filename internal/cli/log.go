// Package cli implements the shaderdoc command-line interface.
//
// This package provides commands for documenting the node graphs of shader
// materials, listing the materials of a library, drawing node-link
// diagrams, serving the pipeline over HTTP and managing the report cache.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - document: Write the text report of one material
//   - list: Show every material and the node its report starts from
//   - graph: Render a material's node tree as DOT or SVG
//   - serve: Run the HTTP API
//   - cache: Manage the report cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Log output
// goes to stderr so reports written to stdout stay clean.
//
// # Configuration
//
// Defaults for the output directory, cache backend and server address are
// read from $XDG_CONFIG_HOME/shaderdoc/config.toml when it exists.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Documented Wood (12ms)"
func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
