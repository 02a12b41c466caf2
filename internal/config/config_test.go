package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Fetch.TimeoutMS != def.Fetch.TimeoutMS {
		t.Errorf("timeout = %d", cfg.Fetch.TimeoutMS)
	}
	if cfg.Clipboard.HistorySize != def.Clipboard.HistorySize {
		t.Errorf("history = %d", cfg.Clipboard.HistorySize)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	doc := `{"clipboard": {"history_size": 200}, "ui": {"theme": "light"}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Clipboard.HistorySize != 200 {
		t.Errorf("history = %d", cfg.Clipboard.HistorySize)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
	// untouched sections keep their defaults
	if cfg.Fetch.TimeoutMS != Default().Fetch.TimeoutMS {
		t.Errorf("timeout = %d", cfg.Fetch.TimeoutMS)
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNormalizeClampsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	doc := `{"fetch": {"timeout_ms": -5}, "clipboard": {"history_size": 0}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Fetch.TimeoutMS != Default().Fetch.TimeoutMS {
		t.Errorf("timeout = %d", cfg.Fetch.TimeoutMS)
	}
	if cfg.Clipboard.HistorySize != Default().Clipboard.HistorySize {
		t.Errorf("history = %d", cfg.Clipboard.HistorySize)
	}
}

func TestEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.json")
	if err := os.WriteFile(path, []byte(`{"ui": {"theme": "solarized"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NOVA_CONFIG_PATH", path)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UI.Theme != "solarized" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
}
