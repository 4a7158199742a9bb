package validation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathValidator validates user-provided file names against a base directory
// to prevent directory traversal.
//
// It performs lexical validation only: reject absolute paths and "..", then
// verify the cleaned, joined path stays within the base directory. Callers
// that need symlink resolution should resolve the base before constructing
// the validator.
type PathValidator struct {
	basePath string
}

// ValidationError represents a path validation failure.
type ValidationError struct {
	UserPath string // Original user input that was rejected
	Reason   string // Human-readable reason for rejection
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("path validation failed: %s (input: %s)", e.Reason, e.UserPath)
}

// NewPathValidator creates a path validator for the given base directory.
// The base directory must be an absolute path.
func NewPathValidator(basePath string) (*PathValidator, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if !filepath.IsAbs(basePath) {
		return nil, fmt.Errorf("base path must be absolute: %s", basePath)
	}
	return &PathValidator{basePath: filepath.Clean(basePath)}, nil
}

// Validate checks that userPath is safe to access within the base directory
// and returns the full absolute path if it is.
func (v *PathValidator) Validate(userPath string) (string, error) {
	if userPath == "" {
		return "", &ValidationError{UserPath: userPath, Reason: "path cannot be empty"}
	}

	// filepath.IsLocal rejects absolute paths, paths starting with "..",
	// and Windows reserved names
	if !filepath.IsLocal(userPath) {
		return "", &ValidationError{UserPath: userPath, Reason: "path escapes allowed directory"}
	}

	fullPath := filepath.Join(v.basePath, filepath.Clean(userPath))

	relPath, err := filepath.Rel(v.basePath, fullPath)
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", &ValidationError{UserPath: userPath, Reason: "resolved path escapes base directory"}
	}
	return fullPath, nil
}
