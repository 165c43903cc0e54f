package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"focustimer/internal/core/model"
	"focustimer/internal/logging"
)

func TestMain(m *testing.M) {
	logging.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}
func (failingBackend) Set(context.Context, string, string) error { return errors.New("disk on fire") }
func (failingBackend) Delete(context.Context, string) error      { return errors.New("disk on fire") }
func (failingBackend) Close() error                              { return nil }

func TestLoadDurationsDefaultsWhenEmpty(t *testing.T) {
	adapter := NewAdapter(NewMemory())
	got := adapter.LoadDurations()
	if got != model.DefaultDurations() {
		t.Fatalf("LoadDurations = %+v, want defaults", got)
	}
}

func TestSaveThenLoadDurations(t *testing.T) {
	adapter := NewAdapter(NewMemory())
	want := model.Durations{Work: 1800, ShortBreak: 300, LongBreak: 900}
	adapter.SaveDurations(want)

	if got := adapter.LoadDurations(); got != want {
		t.Fatalf("LoadDurations = %+v, want %+v", got, want)
	}
	raw, ok := adapter.GetString(KeyWorkDuration)
	if !ok || raw != "1800" {
		t.Fatalf("raw work value = (%q, %v), want (\"1800\", true)", raw, ok)
	}
}

func TestLoadDurationsFallsBackPerField(t *testing.T) {
	backend := NewMemory()
	ctx := context.Background()
	_ = backend.Set(ctx, KeyWorkDuration, "abc")
	_ = backend.Set(ctx, KeyShortBreakDuration, "600")
	_ = backend.Set(ctx, KeyLongBreakDuration, "99999")

	got := NewAdapter(backend).LoadDurations()
	want := model.Durations{Work: model.DefaultWorkSeconds, ShortBreak: 600, LongBreak: model.DefaultLongBreakSeconds}
	if got != want {
		t.Fatalf("LoadDurations = %+v, want %+v", got, want)
	}
}

func TestCompletedCyclesRoundTrip(t *testing.T) {
	adapter := NewAdapter(NewMemory())
	if got := adapter.LoadCompletedCycles(); got != 0 {
		t.Fatalf("LoadCompletedCycles = %d, want 0", got)
	}
	adapter.SaveCompletedCycles(7)
	if got := adapter.LoadCompletedCycles(); got != 7 {
		t.Fatalf("LoadCompletedCycles = %d, want 7", got)
	}
	adapter.SaveCompletedCycles(-2)
	if got := adapter.LoadCompletedCycles(); got != 0 {
		t.Fatalf("LoadCompletedCycles after negative save = %d, want 0", got)
	}
}

func TestMalformedCompletedCyclesReadsZero(t *testing.T) {
	backend := NewMemory()
	_ = backend.Set(context.Background(), KeyCompletedCycles, "-3")
	if got := NewAdapter(backend).LoadCompletedCycles(); got != 0 {
		t.Fatalf("LoadCompletedCycles = %d, want 0", got)
	}
}

func TestPaletteRoundTrip(t *testing.T) {
	adapter := NewAdapter(NewMemory())
	if got := adapter.LoadPalette(); got != "" {
		t.Fatalf("LoadPalette = %q, want empty", got)
	}
	adapter.SavePalette("ocean")
	if got := adapter.LoadPalette(); got != "ocean" {
		t.Fatalf("LoadPalette = %q, want ocean", got)
	}
	if raw, _ := adapter.GetString(KeyPalette); raw != "ocean" {
		t.Fatalf("%s = %q, want ocean", KeyPalette, raw)
	}
}

func TestAdapterSwallowsBackendErrors(t *testing.T) {
	adapter := NewAdapter(failingBackend{})
	adapter.SetString(KeyTasks, "[]")
	adapter.Remove(KeyTasks)
	if _, ok := adapter.GetString(KeyTasks); ok {
		t.Fatal("expected failing backend to read as absent")
	}
	if got := adapter.LoadDurations(); got != model.DefaultDurations() {
		t.Fatalf("LoadDurations = %+v, want defaults", got)
	}
}

func TestNilAdapterIsSafe(t *testing.T) {
	var adapter *Adapter
	adapter.SetString("k", "v")
	adapter.Remove("k")
	if _, ok := adapter.GetString("k"); ok {
		t.Fatal("expected nil adapter to read as absent")
	}
	if err := adapter.Close(); err != nil {
		t.Fatalf("Close = %v", err)
	}
}

func TestYAMLFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	file, err := NewYAMLFile(path)
	if err != nil {
		t.Fatalf("NewYAMLFile: %v", err)
	}
	ctx := context.Background()
	if err := file.Set(ctx, KeyWorkDuration, "1800"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := file.Set(ctx, KeyTasks, `[{"id":"1","text":"write: report"}]`); err != nil {
		t.Fatalf("Set tasks: %v", err)
	}

	reopened, err := NewYAMLFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	value, ok, err := reopened.Get(ctx, KeyWorkDuration)
	if err != nil || !ok || value != "1800" {
		t.Fatalf("Get = (%q, %v, %v), want (\"1800\", true, nil)", value, ok, err)
	}
	tasks, _, _ := reopened.Get(ctx, KeyTasks)
	if tasks != `[{"id":"1","text":"write: report"}]` {
		t.Fatalf("tasks = %q", tasks)
	}

	if err := reopened.Delete(ctx, KeyWorkDuration); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := reopened.Get(ctx, KeyWorkDuration); ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestYAMLFileReadsUnquotedNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("pomodoroWorkDuration: 1200\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	file, err := NewYAMLFile(path)
	if err != nil {
		t.Fatalf("NewYAMLFile: %v", err)
	}
	if got := NewAdapter(file).LoadDurations().Work; got != 1200 {
		t.Fatalf("Work = %d, want 1200", got)
	}
}

func TestCorruptYAMLFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("pomodoroWorkDuration: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	file, err := NewYAMLFile(path)
	if err != nil {
		t.Fatalf("NewYAMLFile: %v", err)
	}
	adapter := NewAdapter(file)
	if got := adapter.LoadDurations(); got != model.DefaultDurations() {
		t.Fatalf("LoadDurations = %+v, want defaults", got)
	}

	adapter.SaveCompletedCycles(2)
	if got := adapter.LoadCompletedCycles(); got != 2 {
		t.Fatalf("LoadCompletedCycles after rewrite = %d, want 2", got)
	}
}

func TestOpenBackend(t *testing.T) {
	for _, kind := range []string{BackendYAML, BackendSQLite, BackendBolt, BackendMemory, ""} {
		t.Run("kind="+kind, func(t *testing.T) {
			backend, err := OpenBackend(kind, filepath.Join(t.TempDir(), "data"))
			if err != nil {
				t.Fatalf("OpenBackend(%q): %v", kind, err)
			}
			defer backend.Close()

			adapter := NewAdapter(backend)
			adapter.SaveCompletedCycles(5)
			if got := adapter.LoadCompletedCycles(); got != 5 {
				t.Fatalf("LoadCompletedCycles = %d, want 5", got)
			}
		})
	}
}

func TestOpenBackendRejectsUnknown(t *testing.T) {
	_, err := OpenBackend("redis", t.TempDir())
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("OpenBackend error = %v, want ErrUnknownBackend", err)
	}
}

func TestOpenBackendRequiresDir(t *testing.T) {
	if _, err := OpenBackend(BackendSQLite, " "); err == nil {
		t.Fatal("expected error for empty data dir")
	}
}

func TestEntriesListsEveryBackend(t *testing.T) {
	for _, kind := range []string{BackendYAML, BackendSQLite, BackendBolt, BackendMemory} {
		t.Run(kind, func(t *testing.T) {
			backend, err := OpenBackend(kind, t.TempDir())
			if err != nil {
				t.Fatalf("OpenBackend(%q): %v", kind, err)
			}
			defer backend.Close()

			adapter := NewAdapter(backend)
			adapter.SaveCompletedCycles(3)
			adapter.SavePalette("forest")
			adapter.SetString(KeyWorkDuration, "1800")

			entries, err := adapter.Entries(context.Background())
			if err != nil {
				t.Fatalf("Entries: %v", err)
			}
			want := []Entry{
				{Key: KeyCompletedCycles, Value: "3"},
				{Key: KeyPalette, Value: "forest"},
				{Key: KeyWorkDuration, Value: "1800"},
			}
			if len(entries) != len(want) {
				t.Fatalf("entries = %+v, want %+v", entries, want)
			}
			for i := range want {
				if entries[i] != want[i] {
					t.Fatalf("entries = %+v, want %+v", entries, want)
				}
			}
		})
	}
}

func TestEntriesNeedsKeyLister(t *testing.T) {
	_, err := NewAdapter(failingBackend{}).Entries(context.Background())
	if !errors.Is(err, ErrNotListable) {
		t.Fatalf("Entries error = %v, want ErrNotListable", err)
	}
}
