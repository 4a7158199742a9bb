package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteRepository implements Repository using SQLite storage.
// Database location: ~/.goblocks/goblocks.db
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository at the default database location
func NewSQLiteRepository() (*SQLiteRepository, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return NewSQLiteRepositoryWithPath(filepath.Join(homeDir, ".goblocks", "goblocks.db"))
}

// NewSQLiteRepositoryWithPath creates a repository with a custom database
// path. Useful for testing.
func NewSQLiteRepositoryWithPath(dbPath string) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := InitializeDatabase(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Save persists a workspace document. An existing document with the same
// name is replaced, keeping its ID and creation time.
func (r *SQLiteRepository) Save(sw *SavedWorkspace) error {
	if sw == nil {
		return fmt.Errorf("cannot save nil workspace")
	}
	if sw.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}

	now := time.Now().UTC()
	if sw.ID == "" {
		sw.ID = uuid.New().String()
	}
	if sw.CreatedAt.IsZero() {
		sw.CreatedAt = now
	}
	sw.ModifiedAt = now

	query := `
		INSERT INTO workspaces (id, name, xml, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			xml = excluded.xml,
			modified_at = excluded.modified_at
	`
	if _, err := r.db.Exec(query, sw.ID, sw.Name, sw.XML, sw.CreatedAt, sw.ModifiedAt); err != nil {
		return fmt.Errorf("failed to save workspace: %w", err)
	}
	return nil
}

// Load retrieves a saved workspace by name.
func (r *SQLiteRepository) Load(name string) (*SavedWorkspace, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidName)
	}

	query := `
		SELECT id, name, xml, created_at, modified_at
		FROM workspaces
		WHERE name = ?
	`
	var sw SavedWorkspace
	err := r.db.QueryRow(query, name).Scan(&sw.ID, &sw.Name, &sw.XML, &sw.CreatedAt, &sw.ModifiedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	return &sw, nil
}

// List returns all saved workspaces, newest first, without XML payloads.
func (r *SQLiteRepository) List() ([]*SavedWorkspace, error) {
	query := `
		SELECT id, name, created_at, modified_at
		FROM workspaces
		ORDER BY modified_at DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*SavedWorkspace
	for rows.Next() {
		var sw SavedWorkspace
		if err := rows.Scan(&sw.ID, &sw.Name, &sw.CreatedAt, &sw.ModifiedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workspace row: %w", err)
		}
		out = append(out, &sw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workspace rows: %w", err)
	}
	return out, nil
}

// Delete removes a saved workspace by name.
func (r *SQLiteRepository) Delete(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	res, err := r.db.Exec("DELETE FROM workspaces WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrWorkspaceNotFound, name)
	}
	return nil
}
