// Package config loads and saves cursorlog settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

type Config struct {
	// Output is the destination log path; the --output flag overrides it.
	Output string `json:"output"`
	// Dedupe collapses identical records in the aggregated output.
	Dedupe bool `json:"dedupe"`
	// ExtraKeyPatterns extends the built-in prompt key filter.
	ExtraKeyPatterns []string `json:"extra_key_patterns"`
	// WatchDebounceSeconds is the quiet period before a watch-mode re-run.
	WatchDebounceSeconds int `json:"watch_debounce_seconds"`
}

func DefaultConfig() Config {
	return Config{
		Output:               "cursor-prompts.log",
		Dedupe:               true,
		WatchDebounceSeconds: 2,
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "cursorlog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cursorlog")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Output == "" {
		cfg.Output = DefaultConfig().Output
	}
	if cfg.WatchDebounceSeconds <= 0 {
		cfg.WatchDebounceSeconds = DefaultConfig().WatchDebounceSeconds
	}

	return cfg, nil
}

func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// KeyPatterns merges the built-in prompt key filter with any extras from
// settings.
func (c Config) KeyPatterns(builtin []string) []string {
	if len(c.ExtraKeyPatterns) == 0 {
		return builtin
	}
	patterns := make([]string, 0, len(builtin)+len(c.ExtraKeyPatterns))
	patterns = append(patterns, builtin...)
	patterns = append(patterns, c.ExtraKeyPatterns...)
	return patterns
}
