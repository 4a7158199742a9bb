package validation

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathValidator(t *testing.T) {
	_, err := NewPathValidator("")
	assert.Error(t, err)

	_, err = NewPathValidator("relative/path")
	assert.Error(t, err)

	v, err := NewPathValidator(t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestPathValidatorAcceptsLocalPaths(t *testing.T) {
	base := t.TempDir()
	v, err := NewPathValidator(base)
	require.NoError(t, err)

	for _, p := range []string{"demo.xml", "sub/demo.xml", "./demo.xml"} {
		got, err := v.Validate(p)
		require.NoError(t, err, "path %q", p)
		assert.Equal(t, filepath.Join(base, filepath.Clean(p)), got)
	}
}

func TestPathValidatorRejectsEscapes(t *testing.T) {
	v, err := NewPathValidator(t.TempDir())
	require.NoError(t, err)

	for _, p := range []string{"", "..", "../escape.xml", "sub/../../escape.xml", "/etc/passwd"} {
		_, err := v.Validate(p)
		require.Error(t, err, "path %q", p)
		var verr *ValidationError
		if p != "" {
			assert.ErrorAs(t, err, &verr)
		}
	}
}
