package store

import (
	"context"
	"strings"

	"github.com/ppiankov/aletheia/internal/model"
)

// OpenDocumentStore picks a backend from the URL scheme:
// mongodb:// and mongodb+srv:// use MongoDB, sqlite:// or a plain path use
// SQLite. An empty URL returns ErrNotConfigured.
func OpenDocumentStore(ctx context.Context, cfg model.DocumentConfig) (DocumentStore, error) {
	url := strings.TrimSpace(cfg.URL)
	switch {
	case url == "":
		return nil, ErrNotConfigured

	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		s, err := NewMongoStore(ctx, url, cfg.Database, cfg.Collection)
		if err != nil {
			return nil, err
		}
		return s, nil

	default:
		s, err := NewSQLiteStore(ctx, strings.TrimPrefix(url, "sqlite://"))
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
