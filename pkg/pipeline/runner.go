package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shaderdoc/pkg/cache"
	"github.com/matzehuels/shaderdoc/pkg/document"
	"github.com/matzehuels/shaderdoc/pkg/errors"
	"github.com/matzehuels/shaderdoc/pkg/httputil"
	libio "github.com/matzehuels/shaderdoc/pkg/io"
	"github.com/matzehuels/shaderdoc/pkg/observability"
	"github.com/matzehuels/shaderdoc/pkg/render/nodelink"
	"github.com/matzehuels/shaderdoc/pkg/shader"
)

// Cache key types reported to observability hooks.
const (
	keyTypeReport = "report"
	keyTypeGraph  = "graph"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Remote fetches libraries given as http(s) URLs.
	Remote *httputil.Client
	// TTL overrides the lifetime of cached reports and diagrams when set.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Remote: httputil.NewClient(c, TTLRemote, nil),
	}
}

// Execute loads opts.Library, documents opts.Material and writes the report
// to opts.Output. Missing parent directories of the output are created.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForExecute(); err != nil {
		return nil, err
	}

	lib, err := r.LoadLibrary(ctx, opts.Library, opts.Refresh)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("loaded library", "library", opts.Library, "materials", len(lib.Materials()))

	mat, root, err := Prepare(lib, opts.Material)
	if err != nil {
		return nil, err
	}

	sink, err := openOutput(opts)
	if err != nil {
		return nil, err
	}
	result, err := r.render(ctx, lib, mat, root, opts, sink)
	if result != nil {
		result.Output = opts.Output
	}
	return result, err
}

// Document writes the report of opts.Material in lib to sink. The sink is
// closed on every path, including validation failures.
func (r *Runner) Document(ctx context.Context, lib *shader.Library, opts Options, sink document.LineSink) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		sink.Close()
		return nil, err
	}

	mat, root, err := Prepare(lib, opts.Material)
	if err != nil {
		sink.Close()
		return nil, err
	}
	return r.render(ctx, lib, mat, root, opts, sink)
}

// LoadLibrary reads a library from a file path or an http(s) URL. The
// format is derived from the extension of the path. refresh bypasses the
// cached copy of a remote library.
func (r *Runner) LoadLibrary(ctx context.Context, ref string, refresh bool) (*shader.Library, error) {
	if !httputil.IsRemote(ref) {
		return libio.ImportLibrary(ref)
	}
	format, err := libio.FormatFromPath(httputil.PathOf(ref))
	if err != nil {
		return nil, err
	}
	remote := r.Remote
	if remote == nil {
		remote = httputil.NewClient(r.Cache, TTLRemote, nil)
	}
	data, err := remote.Fetch(ctx, ref, refresh)
	if err != nil {
		return nil, err
	}
	return libio.ReadLibrary(bytes.NewReader(data), format)
}

// Prepare selects a material and resolves the node its report starts from.
//
// Errors: NO_MATERIAL_SELECTED for an empty name, MATERIAL_NOT_FOUND,
// MATERIAL_HAS_NO_NODE_GRAPH and NO_OUTPUT_NODE.
func Prepare(lib *shader.Library, name string) (*shader.Material, *shader.Node, error) {
	mat, err := SelectMaterial(lib, name)
	if err != nil {
		return nil, nil, err
	}
	root, err := shader.ResolveOutput(mat.Tree)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeNoOutputNode, err, "could not find a suitable output node")
	}
	return mat, root, nil
}

// SelectMaterial looks up a material that has a node graph.
func SelectMaterial(lib *shader.Library, name string) (*shader.Material, error) {
	if err := errors.ValidateMaterialName(name); err != nil {
		return nil, err
	}
	mat, ok := lib.Material(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeMaterialNotFound, "material %q not found", name)
	}
	if !mat.HasNodeGraph() {
		return nil, errors.New(errors.ErrCodeMaterialHasNoNodeGraph, "material %q does not use nodes", name)
	}
	return mat, nil
}

// render produces the report, replaying it from the cache when possible.
// sink is always closed.
func (r *Runner) render(ctx context.Context, lib *shader.Library, mat *shader.Material, root *shader.Node, opts Options, sink document.LineSink) (*Result, error) {
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnDocumentStart(ctx, mat.Name)

	result := &Result{Material: mat.Name, Root: root, LibraryHash: r.libraryHash(lib, opts.Logger)}
	finish := func(err error) (*Result, error) {
		result.Stats.Duration = time.Since(start)
		hooks.OnDocumentComplete(ctx, mat.Name, result.Stats.Lines, result.Stats.Duration, err)
		if err != nil {
			return result, err
		}
		opts.Logger.Info("documented material",
			"material", mat.Name,
			"root", root.Name,
			"lines", result.Stats.Lines,
			"cached", result.CacheHit,
			"duration", result.Stats.Duration)
		return result, nil
	}

	var key string
	if result.LibraryHash != "" {
		key = r.Keyer.ReportKey(result.LibraryHash, mat.Name, opts.ReportKeyOpts())
	}

	if key != "" && !opts.Refresh {
		if lines, ok := r.cachedReport(ctx, key, opts.Logger); ok {
			result.CacheHit = true
			result.Stats.Lines = len(lines)
			err := document.Replay(sink, lines)
			if cerr := sink.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				err = errors.Wrap(errors.ErrCodeWriteFailure, err, "write cached report")
			}
			return finish(err)
		}
	}

	var collected document.Lines
	out := sink
	if key != "" {
		out = document.Tee(sink, &collected)
	}
	stats, err := document.Document(out, mat.Name, mat.Tree, root)
	result.Stats.Stats = stats
	if err != nil {
		return finish(err)
	}

	if key != "" {
		data := []byte(collected.String())
		if err := r.Cache.Set(ctx, key, data, r.ttl(TTLReport)); err != nil {
			opts.Logger.Warn("cache write failed", "key_type", keyTypeReport, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeReport, len(data))
		}
	}
	return finish(nil)
}

func (r *Runner) cachedReport(ctx context.Context, key string, logger *log.Logger) ([]string, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "key_type", keyTypeReport, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeReport)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeReport)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n"), true
}

// Graph draws the node-link diagram of opts.Material in opts.Format.
func (r *Runner) Graph(ctx context.Context, lib *shader.Library, opts Options) (*GraphResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	mat, err := SelectMaterial(lib, opts.Material)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnGraphStart(ctx, mat.Name, opts.Format)
	result := &GraphResult{Material: mat.Name, Format: opts.Format}

	var key string
	if h := r.libraryHash(lib, opts.Logger); h != "" {
		key = r.Keyer.GraphKey(h, mat.Name, opts.GraphKeyOpts())
	}
	if key != "" && !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err == nil && hit {
			observability.Cache().OnCacheHit(ctx, keyTypeGraph)
			result.Data, result.CacheHit = data, true
			result.Duration = time.Since(start)
			hooks.OnGraphComplete(ctx, mat.Name, opts.Format, result.Duration, nil)
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeGraph)
	}

	dot := nodelink.ToDOT(mat.Tree, nodelink.Options{Detailed: opts.Detailed, ExpandGroups: opts.ExpandGroups})
	data := []byte(dot)
	if opts.Format == FormatSVG {
		data, err = nodelink.RenderSVG(ctx, dot)
		if err != nil {
			err = errors.Wrap(errors.ErrCodeInternal, err, "render diagram")
			result.Duration = time.Since(start)
			hooks.OnGraphComplete(ctx, mat.Name, opts.Format, result.Duration, err)
			return nil, err
		}
	}
	result.Data = data
	result.Duration = time.Since(start)
	hooks.OnGraphComplete(ctx, mat.Name, opts.Format, result.Duration, nil)

	if key != "" {
		if err := r.Cache.Set(ctx, key, data, r.ttl(TTLGraph)); err != nil {
			opts.Logger.Warn("cache write failed", "key_type", keyTypeGraph, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeGraph, len(data))
		}
	}

	opts.Logger.Info("rendered diagram",
		"material", mat.Name,
		"format", opts.Format,
		"bytes", len(data),
		"duration", result.Duration)
	return result, nil
}

// libraryHash hashes the canonical JSON encoding of lib. Libraries that
// cannot be encoded (non-finite defaults) are not cached.
func (r *Runner) libraryHash(lib *shader.Library, logger *log.Logger) string {
	var buf bytes.Buffer
	if err := libio.WriteLibrary(lib, &buf, libio.FormatJSON); err != nil {
		logger.Debug("library not cacheable", "error", err)
		return ""
	}
	return cache.Hash(buf.Bytes())
}

// openOutput creates the report destination, including missing parent
// directories. "-" selects opts.Stdout.
func openOutput(opts Options) (document.LineSink, error) {
	if opts.Output == StdoutPath {
		w := opts.Stdout
		if w == nil {
			w = os.Stdout
		}
		return document.NewWriterSink(w), nil
	}

	dir := filepath.Dir(opts.Output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutputDirectoryUnwritable, err, "could not create directory %s", dir)
	}
	f, err := os.Create(opts.Output)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutputDirectoryUnwritable, err, "could not create %s", opts.Output)
	}
	opts.Logger.Debug("opened output", "path", opts.Output)
	return document.NewFileSink(f), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// MaterialSummary describes one material of a library for listings.
type MaterialSummary struct {
	Name     string
	UseNodes bool
	Nodes    int
	Links    int
	Root     string // resolved start node; empty when unresolved
	Err      error  // why the material cannot be documented
}

// Summarize lists every material of lib in library order together with
// the node its report would start from.
func Summarize(lib *shader.Library) []MaterialSummary {
	mats := lib.Materials()
	out := make([]MaterialSummary, 0, len(mats))
	for _, m := range mats {
		s := MaterialSummary{Name: m.Name, UseNodes: m.UseNodes}
		if m.Tree != nil {
			s.Nodes = m.Tree.NodeCount()
			s.Links = m.Tree.LinkCount()
		}
		if _, root, err := Prepare(lib, m.Name); err != nil {
			s.Err = err
		} else {
			s.Root = fmt.Sprintf("%s (%s)", root.Name, root.Type)
		}
		out = append(out, s)
	}
	return out
}
