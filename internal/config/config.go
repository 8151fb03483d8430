// Package config loads CLI defaults from a TOML file and OUTLINE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Format   string `toml:"format"`
	Pretty   bool   `toml:"pretty"`
	Snapshot string `toml:"snapshot"`
	View     string `toml:"view"`
	LogLevel string `toml:"log_level"`
}

func Default() Config {
	return Config{Format: "json", LogLevel: "warn"}
}

// Path returns the config file location, honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); dir != "" {
		return filepath.Join(dir, "outline-engine", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "outline-engine", "config.toml"), nil
}

// Load reads the config from path (or Path() when empty) and applies env overrides.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		p, err := Path()
		if err != nil {
			return FromEnv(Default(), os.LookupEnv)
		}
		path = p
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		return Config{}, err
	}
	return FromEnv(cfg, os.LookupEnv)
}

// LoadFromFile reads a TOML file over the defaults. A missing file yields the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv overlays OUTLINE_* variables on cfg.
func FromEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("OUTLINE_FORMAT", &cfg.Format)
	str("OUTLINE_SNAPSHOT", &cfg.Snapshot)
	str("OUTLINE_VIEW", &cfg.View)
	str("OUTLINE_LOG_LEVEL", &cfg.LogLevel)
	if v, ok := lookup("OUTLINE_PRETTY"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("OUTLINE_PRETTY: %w", err)
		}
		cfg.Pretty = b
	}
	return cfg, nil
}
