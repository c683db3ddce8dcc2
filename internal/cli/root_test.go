package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "love", cmd.Use)
	assert.Contains(t, cmd.Long, "reaction counters")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"catalog"},
		{"catalog", "validate"},
		{"catalog", "apply"},
		{"register", "reactant"},
		{"register", "reacter"},
		{"react"},
		{"unreact"},
		{"show"},
		{"recount"},
		{"test"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	unsetEnv(t, "LOVE_DB", "LOVE_CONFLICT_POLICY", "LOVE_BUSY_RETRIES")

	cmd := NewRootCommand()
	flags := cmd.PersistentFlags()

	verboseFlag := flags.Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := flags.Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	policyFlag := flags.Lookup("policy")
	require.NotNil(t, policyFlag)
	assert.Equal(t, "accumulate", policyFlag.DefValue)

	retriesFlag := flags.Lookup("busy-retries")
	require.NotNil(t, retriesFlag)
	assert.Equal(t, "5", retriesFlag.DefValue)
}

func TestGlobalFlags_DefaultsFromEnvironment(t *testing.T) {
	t.Setenv("LOVE_DB", "/tmp/reactions.db")
	t.Setenv("LOVE_CONFLICT_POLICY", "replace")

	cmd := NewRootCommand()
	assert.Equal(t, "/tmp/reactions.db", cmd.PersistentFlags().Lookup("db").DefValue)
	assert.Equal(t, "replace", cmd.PersistentFlags().Lookup("policy").DefValue)
}

func TestRecountCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	recountCmd, _, err := cmd.Find([]string{"recount"})
	require.NoError(t, err)

	for _, name := range []string{"model", "type", "metrics-textfile"} {
		flag := recountCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "flag %s", name)
		assert.Equal(t, "", flag.DefValue)
	}
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
	assert.Equal(t, "", filterFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "show", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestInvalidPolicy(t *testing.T) {
	_, err := execute(t, "--db", dbPath(t), "--policy", "merge", "show", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInvalidEnvironment(t *testing.T) {
	t.Setenv("LOVE_BUSY_RETRIES", "many")

	_, err := execute(t, "--db", dbPath(t), "show", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid configuration")
}
