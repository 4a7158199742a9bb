package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/goblocks/internal/testutil"
)

// runCommand executes the root command with the given args and returns its
// combined output
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func setupConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("GOBLOCKS_CONFIG_DIR", dir)
	return dir
}

func TestValidateCommand(t *testing.T) {
	setupConfigDir(t)

	defsPath := filepath.Join(t.TempDir(), "defs.json")
	require.NoError(t, os.WriteFile(defsPath, []byte(testutil.CounterDefinitionsJSON), 0644))

	out, err := runCommand(t, "validate", defsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "2 block definition(s) valid")
}

func TestValidateCommandRejectsBadDefinitions(t *testing.T) {
	setupConfigDir(t)

	defsPath := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(defsPath, []byte(`{"message0": "no type"}`), 0644))

	_, err := runCommand(t, "validate", defsPath)
	assert.Error(t, err)
}

func TestImportListGenExport(t *testing.T) {
	setupConfigDir(t)

	xmlPath := filepath.Join(t.TempDir(), "demo.xml")
	require.NoError(t, os.WriteFile(xmlPath, []byte(testutil.SimpleWorkspaceXML), 0644))

	out, err := runCommand(t, "import", xmlPath)
	require.NoError(t, err)
	assert.Contains(t, out, `imported "demo"`)

	out, err = runCommand(t, "workspaces", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "demo")

	out, err = runCommand(t, "gen", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "x = 7")
	assert.Contains(t, out, "print(x)")

	out, err = runCommand(t, "export", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "variables_set")

	out, err = runCommand(t, "workspaces", "rm", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, `deleted "demo"`)

	out, err = runCommand(t, "workspaces", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved workspaces")
}

func TestImportRejectsMalformedDocument(t *testing.T) {
	setupConfigDir(t)

	xmlPath := filepath.Join(t.TempDir(), "broken.xml")
	require.NoError(t, os.WriteFile(xmlPath, []byte(`<xml><block type="no_such_type"/></xml>`), 0644))

	_, err := runCommand(t, "import", xmlPath)
	assert.Error(t, err)

	out, err := runCommand(t, "workspaces", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved workspaces", "failed import must not be stored")
}

func TestNewCommandScaffoldsEmptyWorkspace(t *testing.T) {
	setupConfigDir(t)

	out, err := runCommand(t, "new", "fresh")
	require.NoError(t, err)
	assert.Contains(t, out, `created empty workspace "fresh"`)

	out, err = runCommand(t, "export", "fresh")
	require.NoError(t, err)
	assert.Contains(t, out, "<xml")
}

func TestGenUnknownWorkspace(t *testing.T) {
	setupConfigDir(t)

	_, err := runCommand(t, "gen", "missing")
	assert.Error(t, err)
}
