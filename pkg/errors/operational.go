package errors

import (
	"fmt"
	"time"
)

// OperationalError represents enhanced error information for debugging.
//
// It wraps errors with operational context including workspace ID and block
// ID. This enables better error tracking when diagnosing failed workspace
// edits and import/export operations.
type OperationalError struct {
	Operation   string                 // What operation was being performed
	WorkspaceID string                 // Which workspace
	BlockID     string                 // Which block (if applicable)
	Timestamp   time.Time              // When error occurred
	Attributes  map[string]interface{} // Additional context (optional)
	Cause       error                  // Underlying error
}

// NewOperationalError creates an OperationalError wrapping an error.
//
// Returns nil if cause is nil (no error to wrap).
//
// Example:
//
//	if err != nil {
//	    return NewOperationalError("connecting blocks", workspaceID, blockID, err)
//	}
func NewOperationalError(operation, workspaceID, blockID string, cause error) *OperationalError {
	if cause == nil {
		return nil
	}

	return &OperationalError{
		Operation:   operation,
		WorkspaceID: workspaceID,
		BlockID:     blockID,
		Timestamp:   time.Now(),
		Attributes:  nil,
		Cause:       cause,
	}
}

// NewOperationalErrorWithAttrs creates an OperationalError with additional attributes.
//
// Returns nil if cause is nil (no error to wrap).
func NewOperationalErrorWithAttrs(operation, workspaceID, blockID string, cause error, attrs map[string]interface{}) *OperationalError {
	if cause == nil {
		return nil
	}

	return &OperationalError{
		Operation:   operation,
		WorkspaceID: workspaceID,
		BlockID:     blockID,
		Timestamp:   time.Now(),
		Attributes:  attrs,
		Cause:       cause,
	}
}

// Error implements the error interface.
//
// Format: "[timestamp] operation: workspace={id} block={id}: {cause}"
// If block ID is empty, it's omitted from the message.
func (e *OperationalError) Error() string {
	if e == nil {
		return "<nil OperationalError>"
	}

	timestamp := e.Timestamp.Format(time.RFC3339)

	var msg string
	if e.BlockID != "" {
		msg = fmt.Sprintf("[%s] %s: workspace=%s block=%s: %v",
			timestamp,
			e.Operation,
			e.WorkspaceID,
			e.BlockID,
			e.Cause)
	} else {
		msg = fmt.Sprintf("[%s] %s: workspace=%s: %v",
			timestamp,
			e.Operation,
			e.WorkspaceID,
			e.Cause)
	}

	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *OperationalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
