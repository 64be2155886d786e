package update

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/taskmark/internal/store"
)

type RuntimeConfig struct {
	DBPath        string       `yaml:"db_path"`
	SessionFile   string       `yaml:"session_file"`
	StateFile     string       `yaml:"state_file"`
	LogFile       string       `yaml:"log_file"`
	LogLevel      string       `yaml:"log_level"`
	AutoLogin     bool         `yaml:"auto_login"`
	DefaultFilter store.Filter `yaml:"default_filter"`

	// LoadLimit caps how many tasks are read back at startup; 0 loads all.
	LoadLimit int `yaml:"load_limit"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:        "taskmark.db",
		SessionFile:   ".taskmark_session.json",
		StateFile:     ".taskmark_state.json",
		LogLevel:      "info",
		AutoLogin:     false,
		DefaultFilter: store.FilterAll,
		LoadLimit:     500,
	}
}

// LoadRuntimeConfig layers the optional YAML file at path and then the
// TASKMARK_* environment over the defaults. A missing file is not an error.
func LoadRuntimeConfig(path string) (RuntimeConfig, error) {
	cfg, err := RuntimeConfigFromFile(DefaultRuntimeConfig(), path)
	if err != nil {
		return cfg, err
	}
	cfg = RuntimeConfigFromEnv(cfg)
	if !cfg.DefaultFilter.IsValid() {
		return cfg, fmt.Errorf("config: invalid default_filter %q", cfg.DefaultFilter)
	}
	return cfg, nil
}

func RuntimeConfigFromFile(base RuntimeConfig, path string) (RuntimeConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return base, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, fmt.Errorf("read config: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKMARK_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("TASKMARK_SESSION_FILE"); ok {
		cfg.SessionFile = v
	}
	if v, ok := getEnvString("TASKMARK_STATE_FILE"); ok {
		cfg.StateFile = v
	}
	if v, ok := getEnvString("TASKMARK_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvString("TASKMARK_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvBool("TASKMARK_AUTO_LOGIN"); ok {
		cfg.AutoLogin = v
	}
	if v, ok := getEnvString("TASKMARK_DEFAULT_FILTER"); ok {
		cfg.DefaultFilter = store.Filter(strings.ToLower(v))
	}
	if v, ok := getEnvInt("TASKMARK_LOAD_LIMIT"); ok && v >= 0 {
		cfg.LoadLimit = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
