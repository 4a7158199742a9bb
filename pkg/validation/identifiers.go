package validation

// IsValidVariableName reports whether a string is acceptable as a workspace
// variable name.
//
// Variable names must start with a letter and may continue with letters,
// digits, or underscores. Generated code uses variable names verbatim, so
// the rule matches what expression evaluation accepts as an identifier.
//
// Valid: "x", "counter", "item_2"
// Invalid: "", "9lives", "my-var", "a b"
func IsValidVariableName(name string) bool {
	if name == "" {
		return false
	}
	for i, ch := range name {
		if isLetter(ch) {
			continue
		}
		if i > 0 && (isDigit(ch) || ch == '_') {
			continue
		}
		return false
	}
	return true
}

// IsValidWorkspaceName reports whether a string is acceptable as the name of
// a saved workspace.
//
// Workspace names become filenames in the filesystem backend and unique keys
// in the database backend, so path separators and the relative-directory
// names are rejected. Anything else, including spaces, is allowed.
func IsValidWorkspaceName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	for _, ch := range name {
		if ch == '/' || ch == '\\' || ch == 0 {
			return false
		}
	}
	return true
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
