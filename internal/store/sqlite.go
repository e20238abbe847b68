package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ppiankov/aletheia/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS analysis_records (
	id TEXT PRIMARY KEY,
	input_type TEXT NOT NULL,
	payload TEXT NOT NULL,
	result TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_records_input_type ON analysis_records(input_type);
CREATE INDEX IF NOT EXISTS idx_analysis_records_created_at ON analysis_records(created_at);
`

// SQLiteStore keeps analysis records in a local SQLite file
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore opens or creates the database at path
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

// Insert stores rec under a new UUID
func (s *SQLiteStore) Insert(ctx context.Context, rec model.AnalysisRecord) (string, error) {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}

	id := uuid.NewString()
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO analysis_records (id, input_type, payload, result, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(rec.InputType), string(payload), string(result), rec.CreatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	return id, nil
}

// List returns records sorted by created_at descending
func (s *SQLiteStore) List(ctx context.Context, limit, skip int) ([]model.AnalysisRecord, error) {
	limit, skip = listBounds(limit, skip)

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, input_type, payload, result, created_at FROM analysis_records
		 ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		limit, skip,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]model.AnalysisRecord, 0)
	for rows.Next() {
		var rec model.AnalysisRecord
		var inputType, payload, result string
		var createdAtNanos int64
		if err := rows.Scan(&rec.ID, &inputType, &payload, &result, &createdAtNanos); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &rec.Payload); err != nil {
			return nil, fmt.Errorf("decode payload of %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(result), &rec.Result); err != nil {
			return nil, fmt.Errorf("decode result of %s: %w", rec.ID, err)
		}
		rec.InputType = model.InputKind(inputType)
		rec.CreatedAt = time.Unix(0, createdAtNanos).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close(_ context.Context) error {
	return s.conn.Close()
}
