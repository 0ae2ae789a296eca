// Package pkg provides the libraries behind gdcross, a crossing detector for
// straight-line graph drawings.
//
// # Overview
//
// A drawing is a graph whose nodes have plane coordinates and whose edges are
// straight segments. gdcross finds every place where edges cross, overlap or
// pass through nodes, and derives metrics from the result. The pkg directory
// is organized into four main areas:
//
//  1. [geom] and [core] - Geometry, the drawing model and the crossing engine
//  2. [graph] - Serialization of drawings and reports (JSON, GeoJSON)
//  3. [pipeline] - Orchestration (load → detect → measure → render)
//  4. [cache], [store], [api] - Infrastructure for the CLI and the server
//
// # Architecture
//
// The typical data flow through gdcross:
//
//	drawing.json / drawing.geojson
//	         ↓
//	    [graph] package (decode into a drawing)
//	         ↓
//	    [core/crossings] package (sweep or quadratic detection)
//	         ↓
//	    metrics, planarization, rendering
//	         ↓
//	    table / JSON report / SVG / DOT
//
// # Quick Start
//
// Detect the crossings of a drawing file:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/gdcross/pkg/core/crossings"
//	    "github.com/matzehuels/gdcross/pkg/graph"
//	)
//
//	d, _ := graph.ReadFile("drawing.json")
//	list, _ := crossings.Detect(context.Background(), d, crossings.DefaultOptions())
//	fmt.Println(crossings.Count(list))
//
// # Main Packages
//
// ## Core Domain Logic
//
// [geom] - Vectors, angles, segments and the tolerance every comparison is
// made with.
//
// [core/drawing] - Undirected graph with node positions. Self-loops are
// allowed, multi-edges are not.
//
// [core/avl] - Order-maintenance tree whose ordering is supplied by a
// strategy object, used as the sweep-line status.
//
// [core/crossings] - Bentley-Ottmann sweep, quadratic reference detector,
// crossing count, density, angles, angular resolution and planarization.
//
// ## Serialization
//
// [graph] - JSON node-link format for drawings, crossing reports and GeoJSON
// import and export.
//
// ## Visualization
//
// [render/nodelink] - DOT export with pinned node positions and highlighted
// crossings, rendered through Graphviz.
//
// [render] - Format helpers (SVG to PDF/PNG).
//
// ## Infrastructure
//
// [pipeline] - Validated options, cached detection, metrics, planarization,
// rendering and batch analysis shared by CLI and API.
//
// [cache] - Result cache with file, Redis and no-op backends.
//
// [store] - Saved crossing reports in memory, on disk or in MongoDB.
//
// [api] - HTTP JSON API on chi.
//
// [config] - TOML configuration file.
//
// [errors] - Error codes shared by CLI exit codes and HTTP statuses.
//
// [observability] - Hooks for load, detect, render, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/core/crossings/...     # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/gdcross/pkg/geom
// [core]: https://pkg.go.dev/github.com/matzehuels/gdcross/pkg/core
// [core/drawing]: https://pkg.go.dev/github.com/matzehuels/gdcross/pkg/core/drawing
// [core/avl]: https://pkg.go.dev/github.com/matzehuels/gdcross/pkg/core/avl
// [core/crossings]: https://pkg.go.dev/github.com/matzehuels/gdcross/pkg/core/crossings
// [graph]: https://pkg.go.dev/github.com/matzehuels/gdcross/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/gdcross/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/gdcross/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gdcross/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/gdcross/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/gdcross/pkg/store
// [api]: https://pkg.go.dev/github.com/matzehuels/gdcross/pkg/api
// [config]: https://pkg.go.dev/github.com/matzehuels/gdcross/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/gdcross/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/gdcross/pkg/observability
package pkg
