package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, dataDir string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data", dataDir}, args...))
	require.NoError(t, root.Execute(), "inkstone %v", args)
	return out.String()
}

// quietConfig keeps log output off the test's stderr.
func quietConfig(t *testing.T, dataDir string) {
	t.Helper()
	raw := []byte("log:\n  mode: prod\n  level: error\n")
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "inkstone.yaml"), raw, 0o644))
}

func TestStatusBeforeStart(t *testing.T) {
	dataDir := t.TempDir()
	quietConfig(t, dataDir)

	out := runCLI(t, dataDir, "status")
	assert.Contains(t, out, "journey not started")
	assert.Contains(t, out, "stone today=0/2")
}

func TestStatusPrintsPhaseProgressAsPercent(t *testing.T) {
	dataDir := t.TempDir()
	quietConfig(t, dataDir)

	runCLI(t, dataDir, "journey", "start")
	runCLI(t, dataDir, "dev", "force-day", "3")
	out := runCLI(t, dataDir, "status")

	assert.Contains(t, out, "phase=Stone week=1 day=4 progress=43%")
	assert.Contains(t, out, "prompts unlock in week 2")
	assert.NotContains(t, out, "on request")
}

func TestStatusNamesPromptCadence(t *testing.T) {
	dataDir := t.TempDir()
	quietConfig(t, dataDir)

	runCLI(t, dataDir, "journey", "start")
	runCLI(t, dataDir, "dev", "force-day", "7")
	assert.Contains(t, runCLI(t, dataDir, "status"), "prompts every 5m0s")

	runCLI(t, dataDir, "dev", "force-day", "84")
	out := runCLI(t, dataDir, "status")
	assert.Contains(t, out, "phase=Autonomous")
	assert.Contains(t, out, "prompts on request only")
}

func TestStoneAndWritingAcrossInvocations(t *testing.T) {
	dataDir := t.TempDir()
	quietConfig(t, dataDir)

	runCLI(t, dataDir, "journey", "start")
	assert.Contains(t, runCLI(t, dataDir, "stone", "done", "300"), "today=1/2")
	assert.Contains(t, runCLI(t, dataDir, "write", "start"), "started in stone")
	assert.Contains(t, runCLI(t, dataDir, "write", "end", "--words", "250"), "250 words")
	assert.Contains(t, runCLI(t, dataDir, "write", "resonance", "8"), "resonance 8 recorded")

	out := runCLI(t, dataDir, "status")
	assert.Contains(t, out, "writing this_week=1 total=1")
	assert.NotContains(t, out, "active writing session")
}

func TestShowPromptRefusedInStoneWeek(t *testing.T) {
	dataDir := t.TempDir()
	quietConfig(t, dataDir)

	runCLI(t, dataDir, "journey", "start")
	runCLI(t, dataDir, "write", "start")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--data", dataDir, "prompt", "show"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompts not available yet")
}
