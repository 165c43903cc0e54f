// Package config resolves runtime settings from FOCUSTIMER_* environment
// variables, then command-line flags.
package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"

	"focustimer/internal/logging"
	"focustimer/internal/platform"
	"focustimer/internal/storage"
)

// AppName names the application in titles, data dirs and the instance lock.
const AppName = "FocusTimer"

// Config holds process settings. Timer durations are not here; they are user
// data kept in the storage backend.
type Config struct {
	Backend      string        `env:"FOCUSTIMER_BACKEND" envDefault:"yaml"`
	DataDir      string        `env:"FOCUSTIMER_DATA_DIR"`
	Locale       string        `env:"FOCUSTIMER_LOCALE" envDefault:"en-US"`
	LogLevel     string        `env:"FOCUSTIMER_LOG_LEVEL" envDefault:"warn"`
	TickInterval time.Duration `env:"FOCUSTIMER_TICK_INTERVAL" envDefault:"1s"`
	IdlePause    time.Duration `env:"FOCUSTIMER_IDLE_PAUSE" envDefault:"0s"`
	Minimized    bool
}

// FromEnv loads the environment layer.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ParseConfig reads the environment, then parses args from fs on top of it.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "storage backend: yaml, sqlite, bbolt or memory (default: FOCUSTIMER_BACKEND or yaml)")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "settings directory (default: FOCUSTIMER_DATA_DIR or the user config dir)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "interface language, e.g. en-US or es-ES")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "error, warn, info, debug or trace")
	fs.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "wall time per timer second")
	fs.DurationVar(&cfg.IdlePause, "idle-pause", cfg.IdlePause, "pause work after this much input idle time (0 = off)")
	fs.BoolVar(&cfg.Minimized, "minimized", false, "start hidden in the system tray")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BindFlags registers the persistent flags shared by every CLI command.
func (cfg *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "storage backend: yaml, sqlite, bbolt or memory")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "settings directory (default: the user config dir)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "output language, e.g. en-US or es-ES")
	fs.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "wall time per timer second for run")
}

// Validate rejects settings no component can run with.
func (cfg Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case storage.BackendYAML, storage.BackendSQLite, storage.BackendBolt, storage.BackendMemory:
	default:
		return fmt.Errorf("invalid config: %w: %q", storage.ErrUnknownBackend, cfg.Backend)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid config: log level: %w", err)
	}
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("invalid config: tick interval must be positive, got %s", cfg.TickInterval)
	}
	if cfg.IdlePause < 0 {
		return fmt.Errorf("invalid config: idle pause must not be negative, got %s", cfg.IdlePause)
	}
	return nil
}

// ResolveDataDir fills DataDir from the platform when it is unset.
func (cfg *Config) ResolveDataDir(service platform.Service) error {
	if strings.TrimSpace(cfg.DataDir) != "" {
		return nil
	}
	dir, err := service.DataDir(AppName)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.DataDir = dir
	return nil
}

// OpenStorage opens the configured backend wrapped in an Adapter.
func (cfg Config) OpenStorage() (*storage.Adapter, error) {
	backend, err := storage.OpenBackend(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, err
	}
	logging.Debugf("storage: %s backend in %s", cfg.Backend, cfg.DataDir)
	return storage.NewAdapter(backend), nil
}
