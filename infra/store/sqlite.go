package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gomexpay/edenred/provider"
)

// SQLiteStore persists one row per gateway operation. It implements
// provider.OperationStore and backs the service's operation listing.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if necessary) the operation log database at
// dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// WAL keeps readers from blocking the writer; busy_timeout covers the
	// occasional concurrent write.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=20000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	s := &SQLiteStore{db: db, path: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS operations (
		id TEXT PRIMARY KEY,
		provider TEXT NOT NULL,
		operation TEXT NOT NULL,
		card_token TEXT,
		identifier TEXT,
		amount INTEGER,
		success INTEGER NOT NULL,
		error_message TEXT,
		duration_ms INTEGER,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_operations_provider ON operations(provider, created_at);
	`

	_, err := s.db.Exec(query)
	return err
}

// SaveOperation inserts one operation record
func (s *SQLiteStore) SaveOperation(ctx context.Context, entry provider.OperationLog) error {
	query := `
		INSERT INTO operations (id, provider, operation, card_token, identifier, amount, success, error_message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.Provider, entry.Operation, entry.CardToken, entry.Identifier,
		entry.Amount, entry.Success, entry.ErrorMessage, entry.DurationMs,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save operation: %w", err)
	}
	return nil
}

// ListOperations returns the most recent operations, optionally filtered by
// provider name. limit <= 0 defaults to 100.
func (s *SQLiteStore) ListOperations(ctx context.Context, providerName string, limit int) ([]provider.OperationLog, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, provider, operation, card_token, identifier, amount, success, error_message, duration_ms, created_at
		FROM operations
	`
	args := []any{}
	if providerName != "" {
		query += " WHERE provider = ?"
		args = append(args, providerName)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	var entries []provider.OperationLog
	for rows.Next() {
		var entry provider.OperationLog
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.Provider, &entry.Operation, &entry.CardToken, &entry.Identifier,
			&entry.Amount, &entry.Success, &entry.ErrorMessage, &entry.DurationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			entry.CreatedAt = ts
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Ping checks the underlying database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
