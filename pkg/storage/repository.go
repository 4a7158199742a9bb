// Package storage persists serialized workspaces. The SQLite repository is
// the default backend; a filesystem repository stores plain XML files for
// workflows that want documents on disk.
package storage

import (
	"errors"
	"time"
)

// Common repository errors
var (
	// ErrWorkspaceNotFound is returned when no saved workspace has the
	// requested name
	ErrWorkspaceNotFound = errors.New("saved workspace not found")
	// ErrInvalidName is returned for empty or unusable workspace names
	ErrInvalidName = errors.New("invalid workspace name")
)

// SavedWorkspace is one persisted workspace document
type SavedWorkspace struct {
	ID         string
	Name       string
	XML        []byte
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Repository stores and retrieves saved workspaces by name
type Repository interface {
	// Save persists a workspace document, replacing any existing document
	// with the same name
	Save(sw *SavedWorkspace) error
	// Load retrieves a saved workspace by name
	Load(name string) (*SavedWorkspace, error)
	// List returns all saved workspaces, newest first, without XML payloads
	List() ([]*SavedWorkspace, error)
	// Delete removes a saved workspace by name
	Delete(name string) error
	// Close releases backend resources
	Close() error
}
