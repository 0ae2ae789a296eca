package crossings

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gdcross/pkg/geom"
)

var (
	// ErrSingletonsWithoutNodes is returned when IncludeSingletons is set
	// without IncludeNodeCrossings.
	ErrSingletonsWithoutNodes = errors.New("singletons require node crossings")

	// ErrInvalidTolerance is returned for a negative, NaN or infinite tolerance.
	ErrInvalidTolerance = errors.New("tolerance must be finite and non-negative")

	// ErrUnknownAlgorithm is returned for an algorithm name other than
	// "sweep" or "quadratic".
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// Algorithm selects the detection strategy.
type Algorithm string

const (
	// AlgorithmSweep is the Bentley-Ottmann plane sweep.
	AlgorithmSweep Algorithm = "sweep"
	// AlgorithmQuadratic checks every pair of edges.
	AlgorithmQuadratic Algorithm = "quadratic"
)

// Algorithms lists the supported algorithm names.
var Algorithms = []Algorithm{AlgorithmSweep, AlgorithmQuadratic}

// Options configures detection and the derived metrics.
type Options struct {
	// Tolerance is the absolute precision of every comparison.
	// Zero means [geom.DefaultTolerance].
	Tolerance float64 `json:"tolerance,omitempty" toml:"tolerance"`

	// IncludeNodeCrossings reports nodes lying on edges and edges ending at
	// a crossing point.
	IncludeNodeCrossings bool `json:"include_node_crossings,omitempty" toml:"include_node_crossings"`

	// IncludeSingletons reports isolated nodes touching edges or each other.
	// Requires IncludeNodeCrossings.
	IncludeSingletons bool `json:"include_singletons,omitempty" toml:"include_singletons"`

	// Algorithm selects the detection strategy. Empty means sweep.
	Algorithm Algorithm `json:"algorithm,omitempty" toml:"algorithm"`

	// TighterBound makes [Density] subtract crossings that triangles and
	// 4-cycles make impossible.
	TighterBound bool `json:"tighter_bound,omitempty" toml:"tighter_bound"`

	// Degrees makes [Angles] report degrees instead of radians.
	Degrees bool `json:"degrees,omitempty" toml:"degrees"`

	// Logger receives debug statistics. Nil disables logging.
	Logger *log.Logger `json:"-" toml:"-"`
}

// DefaultOptions returns the sweep algorithm with the default tolerance.
func DefaultOptions() Options {
	return Options{
		Tolerance: float64(geom.DefaultTolerance),
		Algorithm: AlgorithmSweep,
	}
}

// Tol returns the tolerance as a [geom.Tolerance], substituting the default
// for zero.
func (o Options) Tol() geom.Tolerance {
	if o.Tolerance == 0 {
		return geom.DefaultTolerance
	}
	return geom.Tolerance(o.Tolerance)
}

// Validate reports inconsistent options.
func (o Options) Validate() error {
	if !geom.Tolerance(o.Tolerance).Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidTolerance, o.Tolerance)
	}
	if o.IncludeSingletons && !o.IncludeNodeCrossings {
		return ErrSingletonsWithoutNodes
	}
	switch o.Algorithm {
	case "", AlgorithmSweep, AlgorithmQuadratic:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, o.Algorithm)
	}
	return nil
}

// ParseAlgorithm converts a user-supplied name into an [Algorithm].
func ParseAlgorithm(name string) (Algorithm, error) {
	for _, a := range Algorithms {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

func (o Options) debug(msg string, keyvals ...any) {
	if o.Logger != nil {
		o.Logger.Debug(msg, keyvals...)
	}
}
