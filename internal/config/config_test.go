package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, RetryAccept, cfg.RetryPolicy)
	assert.Equal(t, 10*time.Minute, cfg.Timeout.Duration)
	assert.True(t, cfg.Cleanup)
	assert.False(t, cfg.CountTranscodeFailures)
	assert.Equal(t, 2*time.Second, cfg.Watch.MinFileAge.Duration)
	assert.Equal(t, min(32, runtime.GOMAXPROCS(0)), cfg.PoolSize())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `
workers = 4
timeout = "30s"
retry_policy = "classify"
count_transcode_failures = true
timezone = "UTC"

[tools]
exiftool = "/opt/bin/exiftool"

[watch]
min_file_age = "5s"
`)

	cfg, source, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, source)
	assert.Equal(t, 4, cfg.PoolSize())
	assert.Equal(t, 30*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, RetryClassify, cfg.RetryPolicy)
	assert.True(t, cfg.CountTranscodeFailures)
	assert.Equal(t, "/opt/bin/exiftool", cfg.Tools.Exiftool)
	assert.Equal(t, "ffmpeg", cfg.Tools.Ffmpeg)
	assert.Equal(t, 5*time.Second, cfg.Watch.MinFileAge.Duration)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_InvalidRetryPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `retry_policy = "sometimes"`)

	_, _, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidRetryPolicy)
}

func TestLoad_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `timeout = "ten minutes"`)

	_, _, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RECLAIM_EXIFTOOL", "/env/exiftool")
	t.Setenv("RECLAIM_FFMPEG", "/env/ffmpeg")
	t.Setenv("RECLAIM_WORKERS", "7")

	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "workers = 2\n")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/env/exiftool", cfg.Tools.Exiftool)
	assert.Equal(t, "/env/ffmpeg", cfg.Tools.Ffmpeg)
	assert.Equal(t, 7, cfg.Workers)

	t.Setenv("RECLAIM_WORKERS", "many")
	_, _, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"negative timeout", func(c *Config) { c.Timeout.Duration = -time.Second }},
		{"unknown sniffer", func(c *Config) { c.Sniffer = "magic" }},
		{"unknown zone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Workers = 3
	require.NoError(t, Save(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `timeout = "10m0s"`))

	loaded, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Workers)
	assert.Equal(t, cfg.Timeout, loaded.Timeout)
}
