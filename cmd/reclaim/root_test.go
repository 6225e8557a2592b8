package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reclaim/internal/run"
)

// isolates config, profile and log lookups from the real home directory
func sandbox(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"RECLAIM_EXIFTOOL", "RECLAIM_FFMPEG", "RECLAIM_FILE", "RECLAIM_WORKERS"} {
		t.Setenv(key, "")
	}
	return home
}

func library(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("{}"), 0o644))
	}
	return root
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoot_DryRunWritesReport(t *testing.T) {
	home := sandbox(t)
	root := library(t, "a.jpg", "a.jpg.json", "orphan.jpg")
	reportPath := filepath.Join(t.TempDir(), "run.yaml")

	out, err := execute(t, "", root, "--dry-run", "--report", reportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 image files")

	report, err := run.ReadYAML(reportPath)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, run.KeepDryRun, report.Cleanup.Reason)
	assert.FileExists(t, filepath.Join(root, "a.jpg.json"))
	assert.FileExists(t, filepath.Join(home, ".reclaim", "logs", "reclaim.log"))
}

func TestRoot_FailExit(t *testing.T) {
	sandbox(t)
	root := library(t, "orphan.jpg")

	_, err := execute(t, "", root, "--dry-run", "--fail-exit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files failed")
}

func TestRoot_PromptsForDirectory(t *testing.T) {
	sandbox(t)
	root := library(t, "a.jpg", "a.jpg.json")

	out, err := execute(t, root+"\n", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Enter the path to the folder for recursive processing")
	assert.Contains(t, out, "Found 1 image files")
}

func TestRoot_InvalidDirectory(t *testing.T) {
	sandbox(t)

	out, err := execute(t, "", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
	assert.Contains(t, out, "Invalid directory. Please enter a valid path.")
	assert.NotContains(t, out, "Found")
}

func TestRoot_RejectsBadRetryPolicy(t *testing.T) {
	sandbox(t)
	root := library(t)

	_, err := execute(t, "", root, "--retry-policy", "sometimes")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	home := sandbox(t)

	out, err := execute(t, "", "config", "init")
	require.NoError(t, err)

	path := filepath.Join(home, ".reclaim", "config", "reclaim.toml")
	assert.FileExists(t, path)
	assert.Contains(t, out, path)

	_, err = execute(t, "", "config", "init")
	assert.Error(t, err)

	_, err = execute(t, "", "config", "init", "--force")
	assert.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	sandbox(t)
	cfgPath := filepath.Join(t.TempDir(), "reclaim.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("workers = 3\nretry_policy = \"classify\"\n"), 0o644))

	out, err := execute(t, "", "config", "show", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "workers = 3")
	assert.Contains(t, out, `retry_policy = "classify"`)
}
