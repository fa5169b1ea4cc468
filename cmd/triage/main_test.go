package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		cfgFile = ""
		inputPath = "issues.json"
		repo = ""
		outputDir = "."
	})
}

func TestInitConfigEnvWithoutConfigFile(t *testing.T) {
	resetGlobals(t)
	tmp := t.TempDir()
	t.Chdir(tmp)
	t.Setenv("HOME", tmp)
	t.Setenv("TRIAGE_INPUT", "from_env.json")
	t.Setenv("TRIAGE_REPO", "octo/widgets")
	t.Setenv("TRIAGE_OUTPUT_DIR", "reports")

	initConfig()

	assert.Equal(t, "from_env.json", inputPath)
	assert.Equal(t, "octo/widgets", repo)
	assert.Equal(t, "reports", outputDir)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "a1b2c3d4", shortID("a1b2c3d4-0000-0000-0000-000000000000"))
	assert.Equal(t, "run-a", shortID("run-a"))
	assert.Equal(t, "", shortID(""))
}

func TestInitConfigFile(t *testing.T) {
	resetGlobals(t)
	tmp := t.TempDir()
	t.Chdir(tmp)
	t.Setenv("HOME", tmp)
	require.NoError(t, os.WriteFile(".triage.yaml", []byte("input: from_file.json\n"), 0o644))

	initConfig()

	assert.Equal(t, "from_file.json", inputPath)
}
