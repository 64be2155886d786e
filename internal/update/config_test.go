package update

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/taskmark/internal/store"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.DBPath != "taskmark.db" || cfg.SessionFile != ".taskmark_session.json" {
		t.Fatalf("unexpected path defaults: %+v", cfg)
	}
	if cfg.AutoLogin || cfg.DefaultFilter != store.FilterAll || cfg.LoadLimit != 500 {
		t.Fatalf("unexpected runtime defaults: %+v", cfg)
	}
	if cfg.LogFile != "" {
		t.Fatalf("logging must be off by default: %+v", cfg)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("TASKMARK_DB_PATH", "data/tasks.db")
	t.Setenv("TASKMARK_SESSION_FILE", "data/session.json")
	t.Setenv("TASKMARK_STATE_FILE", "state/custom.json")
	t.Setenv("TASKMARK_LOG_FILE", "taskmark.log")
	t.Setenv("TASKMARK_AUTO_LOGIN", "yes")
	t.Setenv("TASKMARK_DEFAULT_FILTER", "Pending")
	t.Setenv("TASKMARK_LOAD_LIMIT", "20")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DBPath != "data/tasks.db" || cfg.SessionFile != "data/session.json" || cfg.StateFile != "state/custom.json" {
		t.Fatalf("unexpected path overrides: %+v", cfg)
	}
	if cfg.LogFile != "taskmark.log" || !cfg.AutoLogin {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.DefaultFilter != store.FilterPending || cfg.LoadLimit != 20 {
		t.Fatalf("unexpected filter overrides: %+v", cfg)
	}
}

func TestRuntimeConfigFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("TASKMARK_AUTO_LOGIN", "maybe")
	t.Setenv("TASKMARK_LOAD_LIMIT", "lots")
	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.AutoLogin || cfg.LoadLimit != 500 {
		t.Fatalf("expected defaults kept, got %+v", cfg)
	}
}

func TestLoadRuntimeConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskmark.yaml")
	body := "db_path: from-file.db\nauto_login: true\ndefault_filter: completed\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TASKMARK_DB_PATH", "from-env.db")

	cfg, err := LoadRuntimeConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBPath != "from-env.db" {
		t.Fatalf("env must win over file, got %q", cfg.DBPath)
	}
	if !cfg.AutoLogin || cfg.DefaultFilter != store.FilterCompleted {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.SessionFile != ".taskmark_session.json" {
		t.Fatalf("defaults lost under file: %+v", cfg)
	}
}

func TestLoadRuntimeConfigMissingFileAndBadFilter(t *testing.T) {
	if _, err := LoadRuntimeConfig(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	t.Setenv("TASKMARK_DEFAULT_FILTER", "someday")
	if _, err := LoadRuntimeConfig(""); err == nil {
		t.Fatal("expected invalid filter error")
	}
}
