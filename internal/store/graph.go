package store

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ppiankov/aletheia/internal/model"
)

// MaxGraphTextChars limits the text stored on a Document node
const MaxGraphTextChars = 2000

const upsertDocumentQuery = "MERGE (d:Document {id: $id}) SET d.text = $text"

type cypherRunner func(ctx context.Context, query string, params map[string]any) error

// GraphStore writes one Document node per analyzed text
type GraphStore struct {
	driver neo4j.DriverWithContext
	run    cypherRunner
}

// NewGraphStore connects lazily to Neo4j. Missing URI, user or password
// leaves the store unconfigured.
func NewGraphStore(cfg model.GraphConfig) (*GraphStore, error) {
	if cfg.URI == "" || cfg.User == "" || cfg.Password == "" {
		return &GraphStore{}, nil
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	database := cfg.Database
	run := func(ctx context.Context, query string, params map[string]any) error {
		_, err := neo4j.ExecuteQuery(ctx, driver, query, params,
			neo4j.EagerResultTransformer,
			neo4j.ExecuteQueryWithDatabase(database),
			neo4j.ExecuteQueryWithWritersRouting(),
		)
		return err
	}

	return &GraphStore{driver: driver, run: run}, nil
}

// Configured reports whether writes reach a database
func (s *GraphStore) Configured() bool {
	return s != nil && s.run != nil
}

// UpsertDocument merges a Document node by id and sets its text
func (s *GraphStore) UpsertDocument(ctx context.Context, id, text string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	params := map[string]any{
		"id":   id,
		"text": truncateRunes(text, MaxGraphTextChars),
	}
	if err := s.run(ctx, upsertDocumentQuery, params); err != nil {
		return fmt.Errorf("upsert document node: %w", err)
	}
	return nil
}

// Close closes the driver
func (s *GraphStore) Close(ctx context.Context) error {
	if s == nil || s.driver == nil {
		return nil
	}
	return s.driver.Close(ctx)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
