// Package pkg provides the core libraries of shaderdoc, a documenter for
// shader node graphs.
//
// # Overview
//
// shaderdoc walks a material's node graph upstream from its output node and
// writes an indented, line-oriented text report of every node, input and
// link it reaches. The pkg directory is organized into these areas:
//
//  1. [shader] - Domain model (libraries, materials, node graphs, sockets)
//  2. [io] - Library files in JSON, YAML and TOML
//  3. [document] - The report walker, value formatting and line sinks
//  4. [render/nodelink] - Graphviz diagrams of the same graphs
//  5. [pipeline] - Orchestration (load → select → document or draw)
//  6. [cache], [httputil], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Library file or URL
//	         ↓
//	    [io] / [httputil] (decode or download)
//	         ↓
//	    [shader] (materials, nodes, links)
//	         ↓
//	    [document] (walk from the output node)
//	         ↓
//	    text report (file, stdout, HTTP body)
//
// # Quick Start
//
//	lib, _ := io.ImportLibrary("scene.json")
//	mat, root, _ := pipeline.Prepare(lib, "Wood")
//	stats, err := document.Document(document.NewWriterSink(os.Stdout), mat.Name, mat.Tree, root)
//
// Or through the runner, which adds caching and file output:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), cache.NewDefaultKeyer(), logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Library:  "scene.json",
//	    Material: "Wood",
//	    Output:   "wood.txt",
//	})
//
// # Main Packages
//
// [shader] - Libraries, materials, node graphs and node groups. Links are
// resolved by socket index; a group node exposes its subgraph as a Source.
//
// [io] - Decoding and encoding of library files with a single schema shared
// by all three formats.
//
// [document] - The documenter: visited-set traversal, group expansion and
// the exact report line format.
//
// [render/nodelink] - DOT and SVG diagrams built with go-graphviz.
//
// [pipeline] - Options, validation and the Runner used by both the CLI and
// the HTTP server.
//
// [cache] - Content-addressed cache for reports, diagrams and downloads with
// null, file and Redis backends.
//
// [httputil] - Cached, retrying fetcher for remote library URLs.
//
// [observability] - Hooks for pipeline, cache and HTTP events, with a
// Prometheus implementation in observability/metrics.
//
// [errors] - Error codes shared by every layer.
//
// [shader]: https://pkg.go.dev/github.com/matzehuels/shaderdoc/pkg/shader
// [io]: https://pkg.go.dev/github.com/matzehuels/shaderdoc/pkg/io
// [document]: https://pkg.go.dev/github.com/matzehuels/shaderdoc/pkg/document
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/shaderdoc/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/shaderdoc/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/shaderdoc/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/shaderdoc/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/shaderdoc/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/shaderdoc/pkg/errors
package pkg
