package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"focustimer/internal/core/model"
	"focustimer/internal/logging"
	"focustimer/internal/platform"
	"focustimer/internal/storage"
)

func TestMain(m *testing.M) {
	logging.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type fakePlatform struct {
	dir     string
	entries []platform.AutostartEntry
	enabled bool
}

func (service *fakePlatform) GetConfigDir() (string, error)   { return service.dir, nil }
func (service *fakePlatform) DataDir(string) (string, error) { return service.dir, nil }
func (service *fakePlatform) EnableAutostart(entry platform.AutostartEntry) error {
	service.entries = append(service.entries, entry)
	service.enabled = true
	return nil
}
func (service *fakePlatform) DisableAutostart(string) error {
	service.enabled = false
	return nil
}
func (service *fakePlatform) AutostartEnabled(string) (bool, error) { return service.enabled, nil }

func newTestApp(t *testing.T, backend string) (*App, *bytes.Buffer, *fakePlatform) {
	t.Helper()
	var out bytes.Buffer
	app, err := NewApp(&out, io.Discard)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	service := &fakePlatform{dir: t.TempDir()}
	app.platform = service
	app.cfg.Backend = backend
	app.cfg.Locale = "en-US"
	app.historyFile = ""
	t.Cleanup(func() { _ = app.Close() })
	return app, &out, service
}

func run(t *testing.T, app *App, out *bytes.Buffer, args ...string) string {
	t.Helper()
	out.Reset()
	if err := app.Execute(args); err != nil {
		t.Fatalf("focusctl %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestConfigSetThenGet(t *testing.T) {
	app, out, _ := newTestApp(t, storage.BackendSQLite)

	run(t, app, out, "config", "set", "--work", "30m", "--long", "20m")
	got := run(t, app, out, "config", "get", "--json")
	for _, want := range []string{`"workSeconds": 1800`, `"shortBreakSeconds": 300`, `"longBreakSeconds": 1200`, `"backend": "sqlite"`} {
		if !strings.Contains(got, want) {
			t.Fatalf("config get output missing %s:\n%s", want, got)
		}
	}
}

func TestConfigDumpListsStoredKeys(t *testing.T) {
	app, out, _ := newTestApp(t, storage.BackendSQLite)

	run(t, app, out, "config", "set", "--short", "10m")
	run(t, app, out, "count", "reset")
	got := run(t, app, out, "config", "dump")
	for _, want := range []string{"pomodoroShortBreakDuration=600\n", "pomodoroCount=0\n"} {
		if !strings.Contains(got, want) {
			t.Fatalf("config dump output missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "pomodoroCount=") > strings.Index(got, "pomodoroShortBreakDuration=") {
		t.Fatalf("config dump not sorted by key:\n%s", got)
	}

	asJSON := run(t, app, out, "config", "dump", "--json")
	if !strings.Contains(asJSON, `"key": "pomodoroShortBreakDuration"`) || !strings.Contains(asJSON, `"value": "600"`) {
		t.Fatalf("config dump --json output:\n%s", asJSON)
	}
}

func TestConfigSetRejectsOutOfRange(t *testing.T) {
	app, _, _ := newTestApp(t, storage.BackendMemory)

	err := app.Execute([]string{"config", "set", "--work", "3h", "--short", "30s"})
	if !errors.Is(err, model.ErrInvalidDuration) {
		t.Fatalf("error = %v, want ErrInvalidDuration", err)
	}
	adapter, _ := app.storage()
	if got := adapter.LoadDurations(); got != model.DefaultDurations() {
		t.Fatalf("durations = %+v, want defaults after rejected save", got)
	}
}

func TestConfigSetNeedsAFlag(t *testing.T) {
	app, _, _ := newTestApp(t, storage.BackendMemory)
	if err := app.Execute([]string{"config", "set"}); err == nil {
		t.Fatal("expected error without flags")
	}
	if err := app.Execute([]string{"config", "set", "--work", "1500ms"}); err == nil {
		t.Fatal("expected error for fractional seconds")
	}
}

func TestCountAndReset(t *testing.T) {
	app, out, _ := newTestApp(t, storage.BackendBolt)
	adapter, err := app.storage()
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	adapter.SaveCompletedCycles(6)

	if got := run(t, app, out, "count"); got != "6\n" {
		t.Fatalf("count = %q, want 6", got)
	}
	run(t, app, out, "count", "reset")
	if got := run(t, app, out, "count"); got != "0\n" {
		t.Fatalf("count after reset = %q, want 0", got)
	}
}

func TestTasksLifecycle(t *testing.T) {
	app, out, _ := newTestApp(t, storage.BackendYAML)

	added := run(t, app, out, "tasks", "add", "Prepare", "report")
	id := strings.TrimSpace(strings.TrimPrefix(added, "added "))

	run(t, app, out, "tasks", "done", id)
	run(t, app, out, "tasks", "note", id, "numbers", "from", "Q1")
	run(t, app, out, "tasks", "due", id, "2026-05-01")

	listed := run(t, app, out, "tasks", "list")
	for _, want := range []string{"[x] " + id + "  Prepare report", "due May 1, 2026", "numbers from Q1"} {
		if !strings.Contains(listed, want) {
			t.Fatalf("tasks list missing %q:\n%s", want, listed)
		}
	}
	if got := run(t, app, out, "tasks", "list", "--open"); !strings.Contains(got, "No tasks yet.") {
		t.Fatalf("open list = %q, want empty message", got)
	}

	run(t, app, out, "tasks", "rm", id)
	if err := app.Execute([]string{"tasks", "rm", id}); err == nil {
		t.Fatal("expected error deleting a missing task")
	}
	if err := app.Execute([]string{"tasks", "due", "abc", "none"}); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestTaskTemplatesLocalized(t *testing.T) {
	app, out, _ := newTestApp(t, storage.BackendMemory)
	got := run(t, app, out, "--locale", "es-ES", "tasks", "templates")
	if !strings.HasPrefix(got, "Planificar la semana\n") {
		t.Fatalf("templates = %q", got)
	}
}

func TestAutostartCommands(t *testing.T) {
	app, out, service := newTestApp(t, storage.BackendMemory)

	run(t, app, out, "autostart", "enable", "--exec", "/opt/focustimer/focustimer")
	if len(service.entries) != 1 || service.entries[0].ExecPath != "/opt/focustimer/focustimer" {
		t.Fatalf("entries = %+v", service.entries)
	}
	if got := run(t, app, out, "autostart", "status"); got != "enabled\n" {
		t.Fatalf("status = %q", got)
	}
	run(t, app, out, "autostart", "disable")
	if got := run(t, app, out, "autostart", "status"); got != "disabled\n" {
		t.Fatalf("status = %q", got)
	}
}

func TestRunCompletesIntervalsAndPersistsCount(t *testing.T) {
	app, out, _ := newTestApp(t, storage.BackendMemory)
	app.cfg.TickInterval = time.Millisecond
	run(t, app, out, "config", "set", "--work", "1m", "--short", "1m")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.runTimer(ctx, model.ModeWork, 2, false); err != nil {
		t.Fatalf("runTimer: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("timer did not finish two intervals in time")
	}

	got := out.String()
	if !strings.Contains(got, "Work finished") || !strings.Contains(got, "Short Break finished") {
		t.Fatalf("output missing notifications:\n%s", got)
	}
	adapter, _ := app.storage()
	if count := adapter.LoadCompletedCycles(); count != 1 {
		t.Fatalf("persisted count = %d, want 1", count)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	app, out, _ := newTestApp(t, storage.BackendMemory)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.runTimer(ctx, model.ModeShortBreak, 0, false); err != nil {
		t.Fatalf("runTimer: %v", err)
	}
	if !strings.Contains(out.String(), "stopped in short_break") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestShellLines(t *testing.T) {
	app, out, _ := newTestApp(t, storage.BackendMemory)

	if !app.handleShellLine(`tasks add "Call Ana"`) {
		t.Fatal("shell should continue after a command")
	}
	out.Reset()
	app.handleShellLine("tasks list")
	if !strings.Contains(out.String(), "Call Ana") {
		t.Fatalf("memory backend should persist across shell lines, got %q", out.String())
	}

	out.Reset()
	app.handleShellLine(`tasks add "unterminated`)
	if !strings.Contains(out.String(), "parse error") {
		t.Fatalf("output = %q, want parse error", out.String())
	}

	out.Reset()
	app.handleShellLine("count reset extra")
	if !strings.Contains(out.String(), "error:") {
		t.Fatalf("output = %q, want command error", out.String())
	}

	if app.handleShellLine("exit") {
		t.Fatal("exit should end the shell")
	}
}

func TestShellLogLevel(t *testing.T) {
	app, out, _ := newTestApp(t, storage.BackendMemory)
	t.Cleanup(func() { logging.SetVerbosity(0) })

	app.handleShellLine("log --level debug")
	if logging.LevelName() != "debug" || app.cfg.LogLevel != "debug" {
		t.Fatalf("level = %s, cfg = %s, want debug", logging.LevelName(), app.cfg.LogLevel)
	}
	// A later command must not reset the session level.
	app.handleShellLine("count")
	if logging.LevelName() != "debug" {
		t.Fatalf("level after command = %s, want debug", logging.LevelName())
	}

	out.Reset()
	app.handleShellLine("log --show")
	if !strings.Contains(out.String(), "log level: debug") {
		t.Fatalf("output = %q", out.String())
	}
	if err := app.handleShellLog([]string{"--level", "loud"}); err == nil {
		t.Fatal("expected unknown level error")
	}
}
