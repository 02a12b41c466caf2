// Package config loads the host configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FetchConfig bounds extension-initiated HTTP requests.
type FetchConfig struct {
	TimeoutMS    int   `json:"timeout_ms"`
	MaxBodyBytes int64 `json:"max_body_bytes"`
}

// ClipboardConfig controls the host clipboard history.
type ClipboardConfig struct {
	HistorySize int `json:"history_size"`
}

// UIConfig selects the launcher appearance.
type UIConfig struct {
	Theme    string `json:"theme"`
	MaxItems int    `json:"max_items"`
}

// Config 是宿主配置;缺省值覆盖所有字段,配置文件只需写差异。
// Config is the host configuration. Defaults cover every field, so a config
// file only has to state the differences.
type Config struct {
	ExtensionsDir string          `json:"extensions_dir"`
	DataDir       string          `json:"data_dir"`
	Fetch         FetchConfig     `json:"fetch"`
	Clipboard     ClipboardConfig `json:"clipboard"`
	UI            UIConfig        `json:"ui"`

	// Preferences overrides extension preference defaults, keyed by
	// extension name then preference name.
	Preferences map[string]map[string]string `json:"preferences"`
}

// Default returns the built-in configuration.
func Default() Config {
	base := baseDir()
	return Config{
		ExtensionsDir: filepath.Join(base, "extensions"),
		DataDir:       filepath.Join(base, "data"),
		Fetch: FetchConfig{
			TimeoutMS:    30000,
			MaxBodyBytes: 10 << 20,
		},
		Clipboard: ClipboardConfig{HistorySize: 50},
		UI:        UIConfig{Theme: "dark", MaxItems: 9},
	}
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nova"
	}
	return filepath.Join(home, ".nova")
}

// Load reads the config at path, or the default location when path is empty.
// NOVA_CONFIG_PATH overrides both. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	resolved := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("NOVA_CONFIG_PATH")); envPath != "" {
		resolved = envPath
	}
	if resolved == "" {
		resolved = filepath.Join(baseDir(), "config.json")
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", resolved, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	normalize(&cfg)
	return cfg, nil
}

// normalize clamps out-of-range values back to the defaults.
func normalize(cfg *Config) {
	def := Default()
	if strings.TrimSpace(cfg.ExtensionsDir) == "" {
		cfg.ExtensionsDir = def.ExtensionsDir
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.Fetch.TimeoutMS <= 0 {
		cfg.Fetch.TimeoutMS = def.Fetch.TimeoutMS
	}
	if cfg.Fetch.MaxBodyBytes <= 0 {
		cfg.Fetch.MaxBodyBytes = def.Fetch.MaxBodyBytes
	}
	if cfg.Clipboard.HistorySize <= 0 {
		cfg.Clipboard.HistorySize = def.Clipboard.HistorySize
	}
	if cfg.UI.MaxItems <= 0 {
		cfg.UI.MaxItems = def.UI.MaxItems
	}
	if strings.TrimSpace(cfg.UI.Theme) == "" {
		cfg.UI.Theme = def.UI.Theme
	}
}

// DatabasePath returns the sqlite file location under the data dir.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "nova.db")
}
