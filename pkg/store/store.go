// Package store persists crossing reports.
//
// Implementations:
//   - [MemoryStore]: in-process map, for tests and a single API instance
//   - [FileStore]: one JSON file per report, for the CLI
//   - [MongoStore]: MongoDB collection, for multi-instance deployments
//
// Reports are identified by random UUIDs assigned on first save:
//
//	r := graph.Report{DrawingHash: h, Crossings: wire}
//	id, err := st.Save(ctx, &r)
//	got, err := st.Get(ctx, id)
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/gdcross/pkg/graph"
)

// ErrNotFound is returned by Get and Delete for an unknown report ID.
var ErrNotFound = errors.New("report not found")

// Store is the interface for report storage backends.
type Store interface {
	// Save stores r, assigning ID and CreatedAt when they are empty, and
	// returns the ID. Saving an existing ID replaces the report.
	Save(ctx context.Context, r *graph.Report) (string, error)

	// Get retrieves a report. Returns ErrNotFound for an unknown ID.
	Get(ctx context.Context, id string) (*graph.Report, error)

	// Delete removes a report. Returns ErrNotFound for an unknown ID.
	Delete(ctx context.Context, id string) error

	// List returns the most recent reports, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*graph.Report, error)

	// Close releases backend resources.
	Close() error
}

// NewID returns a fresh report ID.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id has the form produced by [NewID].
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// prepare fills in ID and CreatedAt.
func prepare(r *graph.Report) {
	if r.ID == "" {
		r.ID = NewID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}

// New opens the store for backend: "memory", "file" (in dir) or "mongo"
// (at uri, in database).
func New(ctx context.Context, backend, dir, uri, database string) (Store, error) {
	switch backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		fs, err := NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case "mongo":
		ms, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: database})
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}
