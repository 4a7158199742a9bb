package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/goblocks/pkg/validation"
)

// FilesystemRepository implements Repository using filesystem storage.
// Workspaces are stored as XML files in ~/.goblocks/workspaces/
type FilesystemRepository struct {
	baseDir string
	paths   *validation.PathValidator
}

// NewFilesystemRepository creates a filesystem-based workspace repository.
// It ensures the workspaces directory exists.
func NewFilesystemRepository() (*FilesystemRepository, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return NewFilesystemRepositoryWithPath(filepath.Join(homeDir, ".goblocks"))
}

// NewFilesystemRepositoryWithPath creates a repository under a custom base
// directory. Useful for testing or custom configurations.
func NewFilesystemRepositoryWithPath(baseDir string) (*FilesystemRepository, error) {
	workspacesDir, err := filepath.Abs(filepath.Join(baseDir, "workspaces"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspaces directory: %w", err)
	}
	if err := os.MkdirAll(workspacesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspaces directory: %w", err)
	}
	paths, err := validation.NewPathValidator(workspacesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}
	return &FilesystemRepository{baseDir: workspacesDir, paths: paths}, nil
}

// Save persists a workspace document as an XML file named after the
// workspace. The write is atomic via temp file + rename.
func (r *FilesystemRepository) Save(sw *SavedWorkspace) error {
	if sw == nil {
		return fmt.Errorf("cannot save nil workspace")
	}
	if err := validateName(sw.Name); err != nil {
		return err
	}
	if sw.ID == "" {
		sw.ID = uuid.New().String()
	}

	filePath, err := r.workspacePath(sw.Name)
	if err != nil {
		return err
	}
	tempPath := filePath + ".tmp"

	if err := os.WriteFile(tempPath, sw.XML, 0644); err != nil {
		return fmt.Errorf("failed to write workspace file: %w", err)
	}
	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to save workspace file: %w", err)
	}
	return nil
}

// Load retrieves a saved workspace by name.
func (r *FilesystemRepository) Load(name string) (*SavedWorkspace, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	filePath, err := r.workspacePath(name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat workspace file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace file: %w", err)
	}

	return &SavedWorkspace{
		Name:       name,
		XML:        data,
		ModifiedAt: info.ModTime(),
	}, nil
}

// List returns all saved workspaces, newest first, without XML payloads.
func (r *FilesystemRepository) List() ([]*SavedWorkspace, error) {
	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspaces directory: %w", err)
	}

	out := make([]*SavedWorkspace, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, &SavedWorkspace{
			Name:       strings.TrimSuffix(entry.Name(), ".xml"),
			ModifiedAt: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ModifiedAt.After(out[j].ModifiedAt)
	})
	return out, nil
}

// Delete removes a saved workspace by name.
func (r *FilesystemRepository) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	filePath, err := r.workspacePath(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrWorkspaceNotFound, name)
	}
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete workspace file: %w", err)
	}
	return nil
}

// Close is a no-op for the filesystem backend.
func (r *FilesystemRepository) Close() error {
	return nil
}

// validateName rejects names that are empty or would escape the repository
// directory
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if !validation.IsValidWorkspaceName(name) {
		return fmt.Errorf("%w: %s", ErrInvalidName, name)
	}
	return nil
}

// workspacePath returns the validated filesystem path for a workspace name.
func (r *FilesystemRepository) workspacePath(name string) (string, error) {
	p, err := r.paths.Validate(name + ".xml")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidName, name)
	}
	return p, nil
}
