// Package store holds the persistence sinks: an Elasticsearch vector index,
// a Neo4j document graph and a document store for finished analyses.
package store

import (
	"context"
	"errors"

	"github.com/ppiankov/aletheia/internal/model"
)

// ErrNotConfigured is returned by sinks that have no backend configured
var ErrNotConfigured = errors.New("store not configured")

// DefaultListLimit is used when List is called with a non-positive limit
const DefaultListLimit = 100

// DocumentStore persists analysis records
type DocumentStore interface {
	// Insert stores rec and returns its id
	Insert(ctx context.Context, rec model.AnalysisRecord) (string, error)

	// List returns records newest first
	List(ctx context.Context, limit, skip int) ([]model.AnalysisRecord, error)

	// Close releases the backend connection
	Close(ctx context.Context) error
}

func listBounds(limit, skip int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if skip < 0 {
		skip = 0
	}
	return limit, skip
}
