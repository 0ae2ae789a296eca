// Package pipeline provides the crossing analysis pipeline for gdcross.
//
// This package implements the load → detect → measure → render pipeline
// shared by the CLI and the API server. By centralizing this logic, both
// entry points validate, cache and log in the same way.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read a drawing from a JSON or GeoJSON file
//  2. Detect: Find every crossing with the sweep or the quadratic algorithm
//  3. Measure: Derive count, density and angular resolution
//  4. Render: Draw the drawing with its crossings highlighted (SVG, DOT, PDF, PNG)
//
// Planarization is available as a separate stage.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Analyze(ctx, d, pipeline.Options{IncludeNodeCrossings: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Metrics.Count)
//
// Many files can be analysed concurrently with [Runner.Batch].
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gdcross/pkg/cache"
	"github.com/matzehuels/gdcross/pkg/core/crossings"
	"github.com/matzehuels/gdcross/pkg/core/drawing"
	gderrors "github.com/matzehuels/gdcross/pkg/errors"
	"github.com/matzehuels/gdcross/pkg/graph"
	"github.com/matzehuels/gdcross/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTolerance is the absolute precision of coordinate comparisons.
	DefaultTolerance = 1e-9

	// DefaultAlgorithm is the detection algorithm.
	DefaultAlgorithm = string(crossings.AlgorithmSweep)

	// DefaultRenderFormat is the render output format.
	DefaultRenderFormat = render.FormatSVG

	// DefaultScale is the render scale in inches per drawing unit.
	DefaultScale = 1.0

	// DefaultJobs is the number of drawings analysed concurrently by Batch.
	DefaultJobs = 4
)

// RenderFormats is the set of supported render formats.
var RenderFormats = []string{render.FormatSVG, render.FormatDOT, render.FormatPDF, render.FormatPNG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Detection options
	Tolerance            float64 `json:"tolerance,omitempty"`
	IncludeNodeCrossings bool    `json:"include_node_crossings,omitempty"`
	IncludeSingletons    bool    `json:"include_singletons,omitempty"`
	Algorithm            string  `json:"algorithm,omitempty"`
	Refresh              bool    `json:"refresh,omitempty"` // bypass cached results

	// Metric options
	TighterBound bool `json:"tighter_bound,omitempty"`
	Degrees      bool `json:"degrees,omitempty"`

	// Render options
	Format   string  `json:"format,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Labels   bool    `json:"labels,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. Errors
// carry INVALID_OPTIONS, INVALID_ALGORITHM or INVALID_FORMAT codes.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := gderrors.ValidateTolerance(o.Tolerance); err != nil {
		return err
	}
	if err := gderrors.ValidateAlgorithm(o.Algorithm); err != nil {
		return err
	}
	if o.IncludeSingletons && !o.IncludeNodeCrossings {
		return gderrors.Wrap(gderrors.ErrCodeInvalidOptions, crossings.ErrSingletonsWithoutNodes,
			"include_singletons requires include_node_crossings")
	}
	if o.Format != "" && !slices.Contains(RenderFormats, o.Format) {
		return gderrors.New(gderrors.ErrCodeInvalidFormat, "unsupported render format %q", o.Format)
	}

	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if o.Format == "" {
		o.Format = DefaultRenderFormat
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// CrossingOptions converts to the options of the crossings package.
func (o *Options) CrossingOptions() crossings.Options {
	return crossings.Options{
		Tolerance:            o.Tolerance,
		IncludeNodeCrossings: o.IncludeNodeCrossings,
		IncludeSingletons:    o.IncludeSingletons,
		Algorithm:            crossings.Algorithm(o.Algorithm),
		TighterBound:         o.TighterBound,
		Degrees:              o.Degrees,
		Logger:               o.Logger,
	}
}

// CrossingsKeyOpts returns cache key options for detection results.
func (o *Options) CrossingsKeyOpts() cache.CrossingsKeyOpts {
	return cache.CrossingsKeyOpts{
		Tolerance:            o.Tolerance,
		IncludeNodeCrossings: o.IncludeNodeCrossings,
		IncludeSingletons:    o.IncludeSingletons,
		Algorithm:            o.Algorithm,
	}
}

// ArtifactKeyOpts returns cache key options for rendering list. The
// highlighted crossings enter the key as a digest, so lists detected with
// different options never share an artifact.
func (o *Options) ArtifactKeyOpts(list []crossings.Crossing) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:   o.Format,
		Scale:    o.Scale,
		Labels:   o.Labels,
		Detailed: o.Detailed,
	}
	if len(list) > 0 {
		// Crossings hold strings and finite coordinates only.
		data, _ := json.Marshal(graph.FromCrossings(list))
		opts.Crossings = cache.Hash(data)
	}
	return opts
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of an analysis run.
type Result struct {
	// Drawing is the analysed drawing.
	Drawing *drawing.Drawing

	// DrawingHash is the content hash of the drawing.
	DrawingHash string

	// Crossings are the detected crossings in canonical order.
	Crossings []crossings.Crossing

	// Metrics are the derived measures.
	Metrics graph.Metrics

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the crossings came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	DetectTime time.Duration
}

// Report converts the result into its persisted form.
func (r *Result) Report(source string, opts Options) graph.Report {
	return graph.Report{
		Source:      source,
		DrawingHash: r.DrawingHash,
		Options:     graph.FromOptions(opts.CrossingOptions()),
		Crossings:   graph.FromCrossings(r.Crossings),
		Metrics:     r.Metrics,
	}
}

// =============================================================================
// Error Classification
// =============================================================================

// classify attaches an error code to errors from the core packages so
// callers can map them to exit codes and HTTP statuses.
func classify(err error) error {
	if err == nil || gderrors.GetCode(err) != "" {
		return err
	}
	switch {
	case errors.Is(err, crossings.ErrUnknownAlgorithm):
		return gderrors.Wrap(gderrors.ErrCodeInvalidAlgorithm, err, "invalid options")
	case errors.Is(err, crossings.ErrSingletonsWithoutNodes), errors.Is(err, crossings.ErrInvalidTolerance):
		return gderrors.Wrap(gderrors.ErrCodeInvalidOptions, err, "invalid options")
	case errors.Is(err, drawing.ErrMultiEdge):
		return gderrors.Wrap(gderrors.ErrCodeMultiEdge, err, "invalid drawing")
	case errors.Is(err, drawing.ErrUnknownNode):
		return gderrors.Wrap(gderrors.ErrCodeUnknownNode, err, "invalid drawing")
	case errors.Is(err, drawing.ErrInvalidPosition):
		return gderrors.Wrap(gderrors.ErrCodeInvalidInput, err, "invalid drawing")
	case errors.Is(err, context.DeadlineExceeded):
		return gderrors.Wrap(gderrors.ErrCodeTimeout, err, "analysis timed out")
	}
	return err
}
