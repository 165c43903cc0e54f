package config

import (
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"focustimer/internal/platform"
	"focustimer/internal/storage"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("focustimer", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Backend != storage.BackendYAML {
		t.Fatalf("backend = %q, want yaml", cfg.Backend)
	}
	if cfg.Locale != "en-US" {
		t.Fatalf("locale = %q, want en-US", cfg.Locale)
	}
	if cfg.TickInterval != time.Second {
		t.Fatalf("tick = %s, want 1s", cfg.TickInterval)
	}
	if cfg.IdlePause != 0 || cfg.Minimized {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseConfigEnvThenFlags(t *testing.T) {
	t.Setenv("FOCUSTIMER_BACKEND", "sqlite")
	t.Setenv("FOCUSTIMER_LOCALE", "es-ES")
	t.Setenv("FOCUSTIMER_IDLE_PAUSE", "5m")

	fs := flag.NewFlagSet("focustimer", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-backend", "bbolt", "-minimized"})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Backend != "bbolt" {
		t.Fatalf("backend = %q, want flag value bbolt", cfg.Backend)
	}
	if cfg.Locale != "es-ES" {
		t.Fatalf("locale = %q, want env value es-ES", cfg.Locale)
	}
	if cfg.IdlePause != 5*time.Minute {
		t.Fatalf("idle pause = %s, want 5m", cfg.IdlePause)
	}
	if !cfg.Minimized {
		t.Fatal("expected minimized")
	}
}

func TestParseConfigBadEnv(t *testing.T) {
	t.Setenv("FOCUSTIMER_TICK_INTERVAL", "soon")
	fs := flag.NewFlagSet("focustimer", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected env parse error")
	}
}

func TestParseConfigBadFlag(t *testing.T) {
	fs := flag.NewFlagSet("focustimer", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := ParseConfig(fs, []string{"-nope"}); err == nil {
		t.Fatal("expected flag parse error")
	}
}

func TestBindFlags(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	fs := pflag.NewFlagSet("focusctl", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	if err := fs.Parse([]string{"--backend", "memory", "--tick", "10ms"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Backend != storage.BackendMemory || cfg.TickInterval != 10*time.Millisecond {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	base, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	cases := map[string]func(*Config){
		"backend":   func(cfg *Config) { cfg.Backend = "redis" },
		"log level": func(cfg *Config) { cfg.LogLevel = "loud" },
		"tick":      func(cfg *Config) { cfg.TickInterval = 0 },
		"idle":      func(cfg *Config) { cfg.IdlePause = -time.Second },
	}
	for name, mutate := range cases {
		cfg := base
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}

	cfg := base
	cfg.Backend = "redis"
	if err := cfg.Validate(); !errors.Is(err, storage.ErrUnknownBackend) {
		t.Fatalf("Validate error = %v, want ErrUnknownBackend", err)
	}
}

type fakeService struct {
	platform.Service
	dir string
}

func (service fakeService) DataDir(string) (string, error) { return service.dir, nil }

func TestResolveDataDir(t *testing.T) {
	cfg := Config{}
	if err := cfg.ResolveDataDir(fakeService{dir: "/tmp/focus"}); err != nil {
		t.Fatalf("ResolveDataDir: %v", err)
	}
	if cfg.DataDir != "/tmp/focus" {
		t.Fatalf("data dir = %q", cfg.DataDir)
	}

	cfg.DataDir = "/custom"
	_ = cfg.ResolveDataDir(fakeService{dir: "/tmp/focus"})
	if cfg.DataDir != "/custom" {
		t.Fatalf("explicit data dir overwritten: %q", cfg.DataDir)
	}
}

func TestOpenStorage(t *testing.T) {
	cfg := Config{Backend: storage.BackendSQLite, DataDir: t.TempDir()}
	adapter, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage: %v", err)
	}
	defer adapter.Close()
	adapter.SaveCompletedCycles(2)
	if got := adapter.LoadCompletedCycles(); got != 2 {
		t.Fatalf("count = %d, want 2", got)
	}
}
