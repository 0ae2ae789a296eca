package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gdcross/pkg/cache"
	"github.com/matzehuels/gdcross/pkg/core/crossings"
	"github.com/matzehuels/gdcross/pkg/core/drawing"
	"github.com/matzehuels/gdcross/pkg/graph"
	"github.com/matzehuels/gdcross/pkg/observability"
	"github.com/matzehuels/gdcross/pkg/render/nodelink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so results are cached and logged the same way.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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
	}
}

// Load reads a drawing file. The format is chosen by extension.
func (r *Runner) Load(ctx context.Context, path string) (*drawing.Drawing, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	d, err := graph.ReadFile(path)
	if err != nil {
		err = classify(err)
		hooks.OnLoadComplete(ctx, path, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, path, d.NodeCount(), d.EdgeCount(), time.Since(start), nil)
	r.Logger.Debug("loaded drawing", "path", path, "nodes", d.NodeCount(), "edges", d.EdgeCount())
	return d, nil
}

// Analyze detects the crossings of d and derives all metrics.
func (r *Runner) Analyze(ctx context.Context, d *drawing.Drawing, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hash, err := graph.Hash(d)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Drawing:     d,
		DrawingHash: hash,
		Stats:       Stats{NodeCount: d.NodeCount(), EdgeCount: d.EdgeCount()},
	}

	start := time.Now()
	list, hit, err := r.detect(ctx, d, hash, opts)
	if err != nil {
		return nil, err
	}
	result.Crossings = list
	result.CacheHit = hit
	result.Stats.DetectTime = time.Since(start)
	result.Metrics = Metrics(d, list, opts)

	r.Logger.Info("detected crossings",
		"crossings", result.Metrics.Count,
		"cached", hit,
		"duration", result.Stats.DetectTime)
	return result, nil
}

// Detect returns the crossings of d, from the cache when possible.
func (r *Runner) Detect(ctx context.Context, d *drawing.Drawing, opts Options) ([]crossings.Crossing, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hash, err := graph.Hash(d)
	if err != nil {
		return nil, false, err
	}
	return r.detect(ctx, d, hash, opts)
}

func (r *Runner) detect(ctx context.Context, d *drawing.Drawing, hash string, opts Options) ([]crossings.Crossing, bool, error) {
	key := r.Keyer.CrossingsKey(hash, opts.CrossingsKeyOpts())
	copts := opts.CrossingOptions()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			list, derr := decodeCrossings(data, copts)
			if derr == nil {
				observability.Cache().OnCacheHit(ctx, "crossings")
				return list, true, nil
			}
			r.Logger.Warn("ignoring cached crossings", "key", key, "err", fmt.Errorf("%w: %v", cache.ErrCorrupt, derr))
			_ = r.Cache.Delete(ctx, key)
		} else if err != nil {
			r.Logger.Warn("cache lookup failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "crossings")
	}

	hooks := observability.Pipeline()
	hooks.OnDetectStart(ctx, opts.Algorithm, d.EdgeCount())
	start := time.Now()
	list, err := crossings.Detect(ctx, d, copts)
	err = classify(err)
	hooks.OnDetectComplete(ctx, opts.Algorithm, len(list), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(graph.FromCrossings(list)); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.CrossingsTTL); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "crossings", len(data))
		}
	}
	return list, false, nil
}

func decodeCrossings(data []byte, opts crossings.Options) ([]crossings.Crossing, error) {
	var wire []graph.Crossing
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	return graph.ToCrossings(wire, opts.Tol())
}

// Metrics derives count, bound, density and angular resolution from a
// crossing list of d.
func Metrics(d *drawing.Drawing, list []crossings.Crossing, opts Options) graph.Metrics {
	copts := opts.CrossingOptions()
	return graph.Metrics{
		Count:             crossings.Count(list),
		MaxCrossings:      crossings.MaxCrossings(d, opts.TighterBound),
		Density:           crossings.Density(d, list, copts),
		AngularResolution: crossings.AngularResolution(d, list, copts),
	}
}

// Angles returns the crossing angles of every crossing in list, in the unit
// selected by opts.Degrees.
func Angles(d *drawing.Drawing, list []crossings.Crossing, opts Options) [][]float64 {
	copts := opts.CrossingOptions()
	out := make([][]float64, len(list))
	for i, c := range list {
		out[i] = crossings.Angles(d, c, copts)
	}
	return out
}

// planarized is the cached form of a planarization.
type planarized struct {
	Drawing       graph.Drawing    `json:"drawing"`
	Crossings     []graph.Crossing `json:"crossings"`
	AddedNodes    []string         `json:"added_nodes"`
	RemovedNodes  []string         `json:"removed_nodes"`
	ReplacedEdges int              `json:"replaced_edges"`
}

// Planarize returns a planarized copy of d together with what changed. d is
// not modified.
func (r *Runner) Planarize(ctx context.Context, d *drawing.Drawing, opts Options) (*drawing.Drawing, crossings.PlanarizeResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, crossings.PlanarizeResult{}, err
	}
	copts := opts.CrossingOptions()

	hash, err := graph.Hash(d)
	if err != nil {
		return nil, crossings.PlanarizeResult{}, err
	}
	key := r.Keyer.PlanarizeKey(hash, opts.CrossingsKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if out, res, err := decodePlanarized(data, copts); err == nil {
				observability.Cache().OnCacheHit(ctx, "planarize")
				return out, res, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "planarize")
	}

	out := d.Clone()
	start := time.Now()
	res, err := crossings.Planarize(ctx, out, copts)
	if err != nil {
		return nil, crossings.PlanarizeResult{}, classify(err)
	}
	r.Logger.Info("planarized drawing",
		"crossings", len(res.Crossings),
		"added_nodes", len(res.AddedNodes),
		"replaced_edges", res.ReplacedEdges,
		"duration", time.Since(start))

	data, err := json.Marshal(planarized{
		Drawing:       graph.FromDrawing(out),
		Crossings:     graph.FromCrossings(res.Crossings),
		AddedNodes:    res.AddedNodes,
		RemovedNodes:  res.RemovedNodes,
		ReplacedEdges: res.ReplacedEdges,
	})
	if err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.PlanarizeTTL)
	}
	return out, res, nil
}

func decodePlanarized(data []byte, opts crossings.Options) (*drawing.Drawing, crossings.PlanarizeResult, error) {
	var p planarized
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, crossings.PlanarizeResult{}, err
	}
	d, err := graph.ToDrawing(p.Drawing)
	if err != nil {
		return nil, crossings.PlanarizeResult{}, err
	}
	list, err := graph.ToCrossings(p.Crossings, opts.Tol())
	if err != nil {
		return nil, crossings.PlanarizeResult{}, err
	}
	return d, crossings.PlanarizeResult{
		Crossings:     list,
		AddedNodes:    p.AddedNodes,
		RemovedNodes:  p.RemovedNodes,
		ReplacedEdges: p.ReplacedEdges,
	}, nil
}

// Render draws d in opts.Format with the crossings in list highlighted.
// Pass a nil list to draw without highlighting.
func (r *Runner) Render(ctx context.Context, d *drawing.Drawing, list []crossings.Crossing, opts Options) ([]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hash, err := graph.Hash(d)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(list))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()

	dot := nodelink.ToDOT(d, list, nodelink.Options{
		Scale:    opts.Scale,
		Labels:   opts.Labels,
		Detailed: opts.Detailed,
	})
	data, err := nodelink.Render(dot, opts.Format, 2.0)
	hooks.OnRenderComplete(ctx, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}

	_ = r.Cache.Set(ctx, key, data, cache.ArtifactTTL)
	r.Logger.Debug("rendered drawing", "format", opts.Format, "bytes", len(data))
	return data, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
