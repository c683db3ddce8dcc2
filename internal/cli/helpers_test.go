package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it wrote to
// stdout. Logs written to stderr are dropped.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// unsetEnv clears keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func dbPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "love.db")
}

const basicCatalog = `package catalog

reaction_type: {
	Like: weight:    1
	Dislike: weight: -1
}

entity_type: {
	"app.User": {alias: "user", reacterable: true}
	"blog.Article": {alias: "article", reactable: true}
}
`

// writeCatalog writes a one-file CUE catalog into a fresh directory.
func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.cue"), []byte(content), 0644))
	return dir
}

// seedDatabase applies basicCatalog and registers reacter 1 (a user) and
// reactants 1 and 2 (articles).
func seedDatabase(t *testing.T) string {
	t.Helper()
	db := dbPath(t)

	_, err := execute(t, "--db", db, "catalog", "apply", writeCatalog(t, basicCatalog))
	require.NoError(t, err)
	_, err = execute(t, "--db", db, "register", "reacter", "user")
	require.NoError(t, err)
	_, err = execute(t, "--db", db, "register", "reactant", "article")
	require.NoError(t, err)
	_, err = execute(t, "--db", db, "register", "reactant", "blog.Article")
	require.NoError(t, err)
	return db
}
