package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/love/internal/compiler"
)

func TestCatalogValidate_Valid(t *testing.T) {
	out, err := execute(t, "catalog", "validate", writeCatalog(t, basicCatalog))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Catalog valid: 2 reaction type(s), 2 entity type(s)")
}

func TestCatalogValidate_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "catalog", "validate", writeCatalog(t, basicCatalog))
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.ReactionTypes)
	assert.Equal(t, 2, resp.Data.EntityTypes)
}

func TestCatalogValidate_NoCapability(t *testing.T) {
	dir := writeCatalog(t, `package catalog

reaction_type: Like: weight: 1
entity_type: "blog.Tag": {alias: "tag"}
`)

	out, err := execute(t, "catalog", "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, compiler.ErrNoCapability)
}

func TestCatalogValidate_WeightOutOfRange(t *testing.T) {
	dir := writeCatalog(t, `package catalog

reaction_type: Huge: weight: 9999999999
`)

	out, err := execute(t, "--format", "json", "catalog", "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, compiler.ErrWeightOutOfRange, resp.Error.Code)
}

func TestCatalogValidate_MissingDirectory(t *testing.T) {
	out, err := execute(t, "catalog", "validate", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
}

func TestCatalogValidate_NoCUEFiles(t *testing.T) {
	_, err := execute(t, "catalog", "validate", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}

func TestCatalogApply(t *testing.T) {
	db := dbPath(t)
	dir := writeCatalog(t, basicCatalog)

	out, err := execute(t, "--db", db, "catalog", "apply", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Applied 2 reaction type(s), 2 entity type(s)")

	// Applying the same catalog again changes nothing.
	out, err = execute(t, "--db", db, "--format", "json", "catalog", "apply", dir)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   ApplyResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"Like", "Dislike"}, resp.Data.ReactionTypes)
	assert.Equal(t, []string{"app.User", "blog.Article"}, resp.Data.EntityTypes)
}

func TestCatalogApply_WeightChangeRejected(t *testing.T) {
	db := dbPath(t)
	_, err := execute(t, "--db", db, "catalog", "apply", writeCatalog(t, basicCatalog))
	require.NoError(t, err)

	changed := writeCatalog(t, `package catalog

reaction_type: Like: weight: 2
`)
	out, err := execute(t, "--db", db, "catalog", "apply", changed)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "REACTION_TYPE_IMMUTABLE")
}

func TestCatalogApply_InvalidCatalogTouchesNothing(t *testing.T) {
	db := dbPath(t)
	dir := writeCatalog(t, `package catalog

reaction_type: Like: weight: 1
entity_type: "blog.Tag": {}
`)

	_, err := execute(t, "--db", db, "catalog", "apply", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = execute(t, "--db", db, "register", "reactant", "blog.Tag")
	require.Error(t, err)
}
