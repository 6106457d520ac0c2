package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps every document as a JSON blob keyed by (collection, id).
// Filters are evaluated in Go after loading the collection.
// Writes and their watcher notifications are serialized by mu.
type SQLiteStore struct {
	db  *sql.DB
	hub *watchHub
	mu  sync.Mutex
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("empty sqlite path")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, hub: newWatchHub()}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			data TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (collection, id)
		)`,
	}
	for _, stmt := range migrations {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	data, err := decodeJSONDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return &Document{ID: id, Data: data}, nil
}

func (s *SQLiteStore) Set(ctx context.Context, collection, id string, data map[string]interface{}, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := data
	if merge {
		existing, err := s.Get(ctx, collection, id)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if existing != nil {
			next = existing.Data
			for k, v := range data {
				next[k] = v
			}
		}
	}
	return s.write(ctx, collection, id, next)
}

func (s *SQLiteStore) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	id := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	return id, s.write(ctx, collection, id, data)
}

func (s *SQLiteStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	for k, v := range fields {
		existing.Data[k] = v
	}
	return s.write(ctx, collection, id, existing.Data)
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	s.hub.publish(collection, id, nil)
	return nil
}

func (s *SQLiteStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = ? ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		data, err := decodeJSONDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		if matches(data, filters) {
			out = append(out, Document{ID: id, Data: data})
		}
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Watch(ctx context.Context, collection, id string) (<-chan *Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	initial, err := s.Get(ctx, collection, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.hub.subscribe(ctx, collection, id, initial), nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// write stores data and notifies watchers. Callers hold mu.
func (s *SQLiteStore) write(ctx context.Context, collection, id string, data map[string]interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(collection, id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", collection, id, err)
	}

	snapshot, err := decodeJSONDocument(string(raw))
	if err == nil {
		s.hub.publish(collection, id, &Document{ID: id, Data: snapshot})
	}
	return nil
}

func decodeJSONDocument(raw string) (map[string]interface{}, error) {
	data := map[string]interface{}{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}
