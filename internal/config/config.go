package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/darsamo/bites/internal/i18n"
	"github.com/darsamo/bites/internal/ledger"
	"github.com/darsamo/bites/internal/storage"
)

// Config is the kiosk's runtime configuration.
type Config struct {
	Language i18n.Language
	Tick     time.Duration
	Kitchen  ledger.Timings
	Storage  Storage
	Log      Log
}

// Storage selects where kiosk state is persisted.
type Storage struct {
	Backend storage.Backend
	Path    string
}

// Log configures the log file.
type Log struct {
	Path  string
	Level string
}

const (
	defaultConfigPath = "~/.config/darsamo/config.toml"
	defaultDataDir    = "~/.local/share/darsamo"
	defaultTick       = time.Second
	defaultLogLevel   = "info"
)

// Environment variables applied on top of the file.
const (
	EnvLanguage       = "DARSAMO_LANGUAGE"
	EnvStorageBackend = "DARSAMO_STORAGE_BACKEND"
	EnvStoragePath    = "DARSAMO_STORAGE_PATH"
	EnvLogLevel       = "DARSAMO_LOG_LEVEL"
)

type rawConfig struct {
	Language string `toml:"language"`
	Tick     string `toml:"tick"`
	Kitchen  struct {
		KickoffDelay string `toml:"kickoff_delay"`
		PrepSingle   string `toml:"prep_single"`
		PrepMixed    string `toml:"prep_mixed"`
		Cooldown     string `toml:"cooldown"`
		EditWindow   string `toml:"edit_window"`
	} `toml:"kitchen"`
	Storage struct {
		Backend string `toml:"backend"`
		Path    string `toml:"path"`
	} `toml:"storage"`
	Log struct {
		Path  string `toml:"path"`
		Level string `toml:"level"`
	} `toml:"log"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Language: i18n.Default,
		Tick:     defaultTick,
		Kitchen:  ledger.DefaultTimings(),
		Storage: Storage{
			Backend: storage.BackendFile,
			Path:    defaultStatePath(storage.BackendFile),
		},
		Log: Log{
			Path:  mustExpand(defaultDataDir + "/darsamo.log"),
			Level: defaultLogLevel,
		},
	}
}

// Load reads the config file at path (or the default location), falling
// back to defaults when it is missing, then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw rawConfig
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&raw)
	return raw.resolve()
}

func applyEnv(raw *rawConfig) {
	if v, ok := os.LookupEnv(EnvLanguage); ok {
		raw.Language = v
	}
	if v, ok := os.LookupEnv(EnvStorageBackend); ok {
		raw.Storage.Backend = v
	}
	if v, ok := os.LookupEnv(EnvStoragePath); ok {
		raw.Storage.Path = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		raw.Log.Level = v
	}
}

func (raw rawConfig) resolve() (Config, error) {
	cfg := Default()

	if strings.TrimSpace(raw.Language) != "" {
		lang, ok := i18n.Parse(raw.Language)
		if !ok {
			return Config{}, fmt.Errorf("parse config: unsupported language %q", raw.Language)
		}
		cfg.Language = lang
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"tick", raw.Tick, &cfg.Tick},
		{"kitchen.kickoff_delay", raw.Kitchen.KickoffDelay, &cfg.Kitchen.KickoffDelay},
		{"kitchen.prep_single", raw.Kitchen.PrepSingle, &cfg.Kitchen.PrepSingle},
		{"kitchen.prep_mixed", raw.Kitchen.PrepMixed, &cfg.Kitchen.PrepMixed},
		{"kitchen.cooldown", raw.Kitchen.Cooldown, &cfg.Kitchen.Cooldown},
		{"kitchen.edit_window", raw.Kitchen.EditWindow, &cfg.Kitchen.EditWindow},
	}
	for _, d := range durations {
		if err := parseDuration(d.name, d.value, d.dst); err != nil {
			return Config{}, err
		}
	}

	backend, err := storage.ParseBackend(raw.Storage.Backend)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Storage.Backend = backend
	cfg.Storage.Path = defaultStatePath(backend)
	if p := strings.TrimSpace(raw.Storage.Path); p != "" {
		cfg.Storage.Path = mustExpand(p)
	}

	if p := strings.TrimSpace(raw.Log.Path); p != "" {
		cfg.Log.Path = mustExpand(p)
	}
	if lvl := strings.TrimSpace(raw.Log.Level); lvl != "" {
		cfg.Log.Level = strings.ToLower(lvl)
	}

	return cfg, nil
}

func parseDuration(name, value string, dst *time.Duration) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return fmt.Errorf("parse config: %s: %w", name, err)
	}
	if d <= 0 {
		return fmt.Errorf("parse config: %s must be positive, got %s", name, trimmed)
	}
	*dst = d
	return nil
}

func defaultStatePath(backend storage.Backend) string {
	if backend == storage.BackendSQLite {
		return mustExpand(defaultDataDir + "/state.db")
	}
	return mustExpand(defaultDataDir + "/state.json")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
