package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"validate", "resolve", "merge", "rank", "export", "serve", "runs"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "directory-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestResolveCommand_Flags(t *testing.T) {
	flag := resolveCmd.Flags().Lookup("max-per-city")
	require.NotNil(t, flag, "resolve command should have --max-per-city flag")
	assert.Equal(t, "0", flag.DefValue)

	require.NotNil(t, resolveCmd.Flags().Lookup("candidates"))
	require.NotNil(t, resolveCmd.Flags().Lookup("date"))
}

func TestMergeCommand_Flags(t *testing.T) {
	for _, name := range []string{"source", "base", "out", "dry-run", "strict", "no-store"} {
		assert.NotNil(t, mergeCmd.Flags().Lookup(name), "merge should have --%s flag", name)
	}
	assert.Equal(t, "false", mergeCmd.Flags().Lookup("dry-run").DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestExportCommand_Flags(t *testing.T) {
	flag := exportCmd.Flags().Lookup("out")
	require.NotNil(t, flag)
	assert.Equal(t, "directory-review.xlsx", flag.DefValue)
}

func TestRunsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range runsCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["list"])
	assert.True(t, names["stats"])
}
