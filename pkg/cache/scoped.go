package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments or tenants
// can share one backend without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// CrossingsKey generates a prefixed key for crossing lists.
func (k *ScopedKeyer) CrossingsKey(drawingHash string, opts CrossingsKeyOpts) string {
	return k.prefix + k.inner.CrossingsKey(drawingHash, opts)
}

// PlanarizeKey generates a prefixed key for planarized drawings.
func (k *ScopedKeyer) PlanarizeKey(drawingHash string, opts CrossingsKeyOpts) string {
	return k.prefix + k.inner.PlanarizeKey(drawingHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(drawingHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(drawingHash, opts)
}
