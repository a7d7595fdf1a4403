// Package config loads browser settings from defaults, an optional YAML file,
// a .env file and DOCBROWSE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kyaoi/docbrowse/internal/docs"
)

const envPrefix = "DOCBROWSE_"

// Config holds everything the browser can be tuned with.
type Config struct {
	Condition docs.Condition `yaml:"documents"`
	TreeWidth int            `yaml:"tree_width"`
	Style     string         `yaml:"style"`
	Watch     bool           `yaml:"watch"`
	LogFile   string         `yaml:"log_file"`
	LogLevel  string         `yaml:"log_level"`
	LogFormat string         `yaml:"log_format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Condition: docs.DefaultCondition(),
		TreeWidth: 28,
		Style:     "tokyo-night",
		Watch:     true,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// DefaultPath returns the config file consulted when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "docbrowse", "config.yaml")
}

// Load reads the config file at path on top of the defaults and then applies
// the environment. A missing file is fine unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !required:
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookupEnv("TREE_WIDTH"); ok {
		width, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sTREE_WIDTH: %w", envPrefix, err)
		}
		c.TreeWidth = width
	}
	if v, ok := lookupEnv("WATCH"); ok {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sWATCH: %w", envPrefix, err)
		}
		c.Watch = watch
	}
	if v, ok := lookupEnv("STYLE"); ok {
		c.Style = v
	}
	if v, ok := lookupEnv("LOG_FILE"); ok {
		c.LogFile = v
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookupEnv("LOG_FORMAT"); ok {
		c.LogFormat = v
	}
	if v, ok := lookupEnv("EXTS"); ok {
		c.Condition.Includes.Exts = splitList(v)
	}
	if v, ok := lookupEnv("EXCLUDE_DIRS"); ok {
		c.Condition.Excludes.DirNames = splitList(v)
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
