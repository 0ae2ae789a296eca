package store

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/gdcross/pkg/graph"
)

// MemoryStore keeps reports in a map. Reports are copied on the way in and
// out so callers cannot mutate stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]graph.Report
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]graph.Report)}
}

func (s *MemoryStore) Save(ctx context.Context, r *graph.Report) (string, error) {
	prepare(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = clone(*r)
	return r.ID, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*graph.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := clone(r)
	return &out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return ErrNotFound
	}
	delete(s.reports, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]*graph.Report, error) {
	s.mu.RLock()
	out := make([]*graph.Report, 0, len(s.reports))
	for _, r := range s.reports {
		c := clone(r)
		out = append(out, &c)
	}
	s.mu.RUnlock()
	return newestFirst(out, limit), nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

func clone(r graph.Report) graph.Report {
	r.Crossings = slices.Clone(r.Crossings)
	for i, c := range r.Crossings {
		r.Crossings[i].Edges = slices.Clone(c.Edges)
		r.Crossings[i].Line = slices.Clone(c.Line)
		r.Crossings[i].Singletons = slices.Clone(c.Singletons)
		if c.Point != nil {
			p := *c.Point
			r.Crossings[i].Point = &p
		}
	}
	return r
}

// newestFirst sorts by CreatedAt descending, ties by ID, and truncates.
func newestFirst(list []*graph.Report, limit int) []*graph.Report {
	slices.SortFunc(list, func(a, b *graph.Report) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
