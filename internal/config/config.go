// BYZRA ⸻ internal/config/config.go
// config loading & management

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const FileName = "reclaim.toml"

// maximum pool size when workers is not set
const maxDefaultWorkers = 32

type RetryPolicy string

const (
	RetryAccept   RetryPolicy = "accept"   // retry result taken as is, failures flagged
	RetryClassify RetryPolicy = "classify" // retry result classified again
)

var ErrInvalidRetryPolicy = errors.New("invalid retry policy")

// time.Duration that reads and writes as "10m", "2s"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	Workers                int         `toml:"workers"`
	Timeout                Duration    `toml:"timeout"`
	RetryPolicy            RetryPolicy `toml:"retry_policy"`
	CountTranscodeFailures bool        `toml:"count_transcode_failures"`
	Cleanup                bool        `toml:"cleanup"`
	FailExit               bool        `toml:"fail_exit"`
	Verify                 bool        `toml:"verify"`
	Sniffer                string      `toml:"sniffer"`
	Timezone               string      `toml:"timezone"`
	LogFile                string      `toml:"log_file"`
	LogLevel               string      `toml:"log_level"`
	Report                 string      `toml:"report"`
	Profile                string      `toml:"profile"`

	Tools struct {
		Exiftool string `toml:"exiftool"`
		Ffmpeg   string `toml:"ffmpeg"`
		File     string `toml:"file"`
	} `toml:"tools"`

	Watch struct {
		MinFileAge Duration `toml:"min_file_age"`
		Dedupe     Duration `toml:"dedupe"`
	} `toml:"watch"`
}

// returns default config values
func Default() *Config {
	cfg := &Config{
		Timeout:     Duration{10 * time.Minute},
		RetryPolicy: RetryAccept,
		Cleanup:     true,
		Sniffer:     "file",
		Timezone:    "Local",
		LogLevel:    "info",
	}
	cfg.Tools.Exiftool = "exiftool"
	cfg.Tools.Ffmpeg = "ffmpeg"
	cfg.Tools.File = "file"
	cfg.Watch.MinFileAge = Duration{2 * time.Second}
	cfg.Watch.Dedupe = Duration{time.Minute}
	return cfg
}

func SearchPaths() []string {
	return []string{
		"./" + FileName,
		"config/" + FileName,
		filepath.Join(os.Getenv("HOME"), ".reclaim/config", FileName),
	}
}

// first existing path, empty when none
func find(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loads path, or the first config in the search paths when path is empty
//
// No config file at all is not an error: the defaults are returned with an
// empty source. Environment overrides are applied last.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	source := path
	if source == "" {
		source = find(SearchPaths())
	}

	if source != "" {
		if _, err := toml.DecodeFile(source, cfg); err != nil {
			return nil, source, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, source, err
	}

	return cfg, source, cfg.Validate()
}

// RECLAIM_* variables override the file
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("RECLAIM_EXIFTOOL"); v != "" {
		c.Tools.Exiftool = v
	}
	if v := os.Getenv("RECLAIM_FFMPEG"); v != "" {
		c.Tools.Ffmpeg = v
	}
	if v := os.Getenv("RECLAIM_FILE"); v != "" {
		c.Tools.File = v
	}
	if v := os.Getenv("RECLAIM_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RECLAIM_WORKERS %q: %w", v, err)
		}
		c.Workers = n
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.RetryPolicy {
	case RetryAccept, RetryClassify:
	default:
		return fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidRetryPolicy, c.RetryPolicy, RetryAccept, RetryClassify)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Timeout.Duration < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	switch c.Sniffer {
	case "file", "mime":
	default:
		return fmt.Errorf("unknown sniffer %q", c.Sniffer)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// configured workers, else min(32, GOMAXPROCS)
func (c *Config) PoolSize() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return min(maxDefaultWorkers, runtime.GOMAXPROCS(0))
}

func (c *Config) Location() (*time.Location, error) {
	switch strings.TrimSpace(c.Timezone) {
	case "", "Local", "local":
		return time.Local, nil
	case "UTC", "utc":
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// saves the configuration to a file
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	return Encode(f, cfg)
}

func Encode(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ~/.reclaim/config, created when missing
func SetupConfigDir() (string, error) {
	configDir := filepath.Join(os.Getenv("HOME"), ".reclaim/config")
	err := os.MkdirAll(configDir, 0o755)
	return configDir, err
}
