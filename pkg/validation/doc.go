// Package validation provides input validation shared by the workspace and
// storage layers.
//
// # Identifier Validation
//
// Variable names flow verbatim into generated code, and workspace names
// become filenames or database keys. IsValidVariableName and
// IsValidWorkspaceName enforce the rules once so every layer agrees on them.
//
// # Path Validation
//
// PathValidator prevents directory traversal when workspace names are
// turned into file paths by the filesystem storage backend:
//
//	validator, err := validation.NewPathValidator("/home/user/.goblocks/workspaces")
//	if err != nil {
//	    return err
//	}
//	safePath, err := validator.Validate(name + ".xml")
//	if err != nil {
//	    return fmt.Errorf("invalid workspace name: %w", err)
//	}
//	data, err := os.ReadFile(safePath)
//
// Validation is lexical: absolute paths, ".." components, and anything that
// would resolve outside the base directory are rejected.
package validation
