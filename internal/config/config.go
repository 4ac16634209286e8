package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"pt-autofill/internal/fetch"
	"pt-autofill/internal/form"
)

//go:embed sample_config.toml
var sampleConfig string

// Fetch configures access to live upload pages.
type Fetch struct {
	Cookie             string  `toml:"cookie"`
	UserAgent          string  `toml:"user_agent"`
	TimeoutSeconds     int     `toml:"timeout_seconds"`
	DialTimeoutSeconds int     `toml:"dial_timeout_seconds"`
	SizeCapBytes       int64   `toml:"size_cap_bytes"`
	RatePerSecond      float64 `toml:"rate_per_second"`
}

type Server struct {
	Addr         string `toml:"addr"`
	Concurrency  int    `toml:"concurrency"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values.
//
//   - Site: upload form selectors, fixed values and checkboxes
//   - Fetch: cookie and HTTP limits for fetching upload pages
//   - Server: ptfilld listen address and batch concurrency
//   - Logging: log level and format
type Config struct {
	Site    form.Profile `toml:"site"`
	Fetch   Fetch        `toml:"fetch"`
	Server  Server       `toml:"server"`
	Logging Logging      `toml:"logging"`
}

func Default() Config {
	return Config{
		Site: form.DefaultProfile(),
		Fetch: Fetch{
			UserAgent:          "pt-autofill/1.0",
			TimeoutSeconds:     15,
			DialTimeoutSeconds: 5,
			SizeCapBytes:       5 * 1024 * 1024,
			RatePerSecond:      1,
		},
		Server: Server{
			Addr:         ":8080",
			Concurrency:  10,
			MaxBodyBytes: 32 << 20,
		},
		Logging: Logging{Level: "info", Format: "text"},
	}
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/ptfill/config.toml")
}

// Load locates, parses, and validates a configuration file. Unset values
// fall back to Default. A missing file is not an error.
func Load(path string) (*Config, string, bool, error) {
	var cfg Config

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("ptfill.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func (c *Config) FetchOptions() fetch.Options {
	return fetch.Options{
		Timeout:       time.Duration(c.Fetch.TimeoutSeconds) * time.Second,
		DialTimeout:   time.Duration(c.Fetch.DialTimeoutSeconds) * time.Second,
		SizeCap:       c.Fetch.SizeCapBytes,
		UserAgent:     c.Fetch.UserAgent,
		Cookie:        c.Fetch.Cookie,
		RatePerSecond: c.Fetch.RatePerSecond,
	}
}
