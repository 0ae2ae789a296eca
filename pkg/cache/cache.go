// Package cache stores detection results, planarized drawings and rendered
// artifacts so repeated runs over an unchanged drawing skip the sweep.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for the API server
//   - [NullCache]: disables caching
//
// # Keys
//
// A [Keyer] derives keys from the drawing hash (see graph.Hash) and the
// options that influence the cached value. [ScopedKeyer] prefixes every key,
// for example to separate tenants sharing one Redis instance.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Default lifetimes for cached values. Results are pure functions of the
// drawing and the options, so they only expire to bound disk usage.
const (
	CrossingsTTL = 7 * 24 * time.Hour
	PlanarizeTTL = 7 * 24 * time.Hour
	ArtifactTTL  = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with per-entry expiration.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or an expired
	// entry; err is reserved for backend failures.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// CrossingsKeyOpts are the detection options that change a crossing list.
type CrossingsKeyOpts struct {
	Tolerance            float64 `json:"tolerance"`
	IncludeNodeCrossings bool    `json:"node_crossings"`
	IncludeSingletons    bool    `json:"singletons"`
	Algorithm            string  `json:"algorithm"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Scale     float64 `json:"scale"`
	Labels    bool    `json:"labels"`
	Detailed  bool    `json:"detailed"`
	Crossings string  `json:"crossings"` // digest of the highlighted crossings, empty for none
}

// Keyer generates cache keys.
type Keyer interface {
	// CrossingsKey is the key of the crossing list of a drawing.
	CrossingsKey(drawingHash string, opts CrossingsKeyOpts) string

	// PlanarizeKey is the key of the planarized drawing.
	PlanarizeKey(drawingHash string, opts CrossingsKeyOpts) string

	// ArtifactKey is the key of a rendered drawing.
	ArtifactKey(drawingHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "kind:sha256(inputs)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// CrossingsKey implements [Keyer].
func (DefaultKeyer) CrossingsKey(drawingHash string, opts CrossingsKeyOpts) string {
	return hashKey("crossings", drawingHash, opts)
}

// PlanarizeKey implements [Keyer].
func (DefaultKeyer) PlanarizeKey(drawingHash string, opts CrossingsKeyOpts) string {
	return hashKey("planarize", drawingHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(drawingHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", drawingHash, opts)
}

// New builds the cache for backend: "file" (in dir), "redis" (at addr) or
// "none".
func New(ctx context.Context, backend, dir, addr string) (Cache, error) {
	switch backend {
	case "", "file":
		return NewFileCache(dir)
	case "redis":
		return NewRedisCache(ctx, RedisConfig{Addr: addr})
	case "none":
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", backend)
}
