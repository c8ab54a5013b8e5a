package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	appDir      = "rss-list"
	configFile  = "config.toml"
	sourcesFile = "sources.txt"
)

// ErrNoConfigDir is returned when the environment gives no place to keep
// application state. There is deliberately no fallback location.
var ErrNoConfigDir = errors.New("unable to resolve a configuration directory")

type Config struct {
	Timeout           Duration          `toml:"timeout"`             // Per-request timeout
	UserAgent         string            `toml:"user_agent"`          // Sent with every request
	MaxBodyBytes      int64             `toml:"max_body_bytes"`      // Upper bound for feed and icon bodies
	MaxParallel       int               `toml:"max_parallel"`        // 0 means GOMAXPROCS
	RequestsPerSecond float64           `toml:"requests_per_second"` // 0 means unlimited
	Icons             bool              `toml:"icons"`               // Download feed icons
	Filters           map[string]Filter `toml:"filters"`             // Named filters that can be referenced by apply_filters
	ApplyFilters      []string          `toml:"apply_filters"`       // Names of filters applied to every reload
}

// Filter defines rules for hiding posts
type Filter struct {
	MinLength       int      `toml:"min_length"`       // Minimum character count (0 = no limit)
	MinWords        int      `toml:"min_words"`        // Minimum word count (0 = no limit)
	ExcludePatterns []string `toml:"exclude_patterns"` // Regex patterns to exclude
}

// Duration wraps time.Duration so it can be written as "30s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func Read(path string) (Config, error) {
	conf := Default()
	dat, err := os.ReadFile(path)
	if err != nil {
		return conf, err
	}
	_, err = toml.Decode(string(dat), &conf)
	if err != nil {
		return conf, fmt.Errorf("failed to decode config at %s with %w", path, err)
	}
	return conf, nil
}

func Write(cfgPath string, cfg Config) error {
	blob, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config with %w", err)
	}
	basePath := filepath.Dir(cfgPath)
	err = os.MkdirAll(basePath, os.ModePerm)
	if err != nil {
		return fmt.Errorf("failed to create base config directory at '%s' with %w", basePath, err)
	}
	err = os.WriteFile(cfgPath, blob, 0644)
	if err != nil {
		return fmt.Errorf("failed to write into config file at '%s' with %w", cfgPath, err)
	}
	slog.Info("config written", "at", cfgPath)
	return nil
}

func Default() Config {
	return Config{
		Timeout:      Duration{30 * time.Second},
		UserAgent:    "rss-list/1.0",
		MaxBodyBytes: 10 << 20,
		Icons:        true,
	}
}

// Dir returns the per-application configuration directory.
func Dir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, appDir), nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", appDir), nil
	}
	return "", ErrNoConfigDir
}

// CacheDir returns the per-application cache directory.
func CacheDir() (string, error) {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, appDir), nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".cache", appDir), nil
	}
	return "", ErrNoConfigDir
}

func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// SourcesPath is the location of the plain-text source list.
func SourcesPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sourcesFile), nil
}
