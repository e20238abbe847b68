package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/ppiankov/aletheia/internal/model"
)

// VectorStore upserts embeddings into an Elasticsearch dense_vector index
type VectorStore struct {
	client *elasticsearch.Client
	index  string
}

type vectorDocument struct {
	DocID     string    `json:"doc_id"`
	Values    []float32 `json:"values"`
	UpdatedAt time.Time `json:"updated_at"`
}

type bulkAction struct {
	Index bulkMeta `json:"index"`
}

type bulkMeta struct {
	ID string `json:"_id"`
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

// NewVectorStore creates a vector store. With no addresses configured the
// store is returned unconfigured and Upsert reports ErrNotConfigured.
func NewVectorStore(cfg model.VectorConfig) (*VectorStore, error) {
	index := cfg.Index
	if index == "" {
		index = "aletheia"
	}
	if len(cfg.Addresses) == 0 {
		return &VectorStore{index: index}, nil
	}

	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
		APIKey:    cfg.APIKey,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &VectorStore{client: client, index: index}, nil
}

// Configured reports whether a cluster address was given
func (s *VectorStore) Configured() bool {
	return s != nil && s.client != nil
}

// Index returns the target index name
func (s *VectorStore) Index() string {
	return s.index
}

// EnsureIndex creates the index with a dense_vector mapping if it is missing
func (s *VectorStore) EnsureIndex(ctx context.Context) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", s.index, err)
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("check index %s: %s", s.index, res.Status())
	}

	mapping := fmt.Sprintf(`{
  "mappings": {
    "properties": {
      "doc_id": {"type": "keyword"},
      "values": {"type": "dense_vector", "dims": %d, "index": true, "similarity": "cosine"},
      "updated_at": {"type": "date"}
    }
  }
}`, model.EmbeddingDimensions)

	res, err = s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithBody(strings.NewReader(mapping)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", s.index, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("create index %s: %s", s.index, res.String())
	}
	return nil
}

// Upsert writes vectors keyed by their id. An empty batch is a no-op.
func (s *VectorStore) Upsert(ctx context.Context, vectors []model.EmbeddingVector) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	if len(vectors) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	now := time.Now().UTC()
	for _, v := range vectors {
		if err := enc.Encode(bulkAction{Index: bulkMeta{ID: v.ID}}); err != nil {
			return fmt.Errorf("encode bulk action: %w", err)
		}
		if err := enc.Encode(vectorDocument{DocID: v.ID, Values: v.Values, UpdatedAt: now}); err != nil {
			return fmt.Errorf("encode vector %s: %w", v.ID, err)
		}
	}

	res, err := s.client.Bulk(
		&buf,
		s.client.Bulk.WithIndex(s.index),
		s.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("bulk upsert: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("bulk upsert: %s", res.String())
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read bulk response: %w", err)
	}
	var parsed bulkResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if parsed.Errors {
		return fmt.Errorf("bulk upsert: %s", firstBulkError(parsed))
	}
	return nil
}

func firstBulkError(r bulkResponse) string {
	for _, item := range r.Items {
		for _, result := range item {
			if result.Error != nil {
				return result.Error.Type + ": " + result.Error.Reason
			}
		}
	}
	return "unknown item failure"
}
