package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidVariableName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"x", true},
		{"counter", true},
		{"item_2", true},
		{"CamelCase", true},
		{"a1b2", true},

		{"", false},
		{"9lives", false},
		{"_leading", false},
		{"my-var", false},
		{"a b", false},
		{"dot.ted", false},
		{"naïve", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidVariableName(tt.name), "name %q", tt.name)
	}
}

func TestIsValidWorkspaceName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"demo", true},
		{"my workspace", true},
		{"v1.2-draft", true},

		{"", false},
		{".", false},
		{"..", false},
		{"a/b", false},
		{`a\b`, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidWorkspaceName(tt.name), "name %q", tt.name)
	}
}
