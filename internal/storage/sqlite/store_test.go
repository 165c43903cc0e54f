package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "focustimer.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestStoreSetGetDelete(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "pomodoroCount"); err != nil || ok {
		t.Fatalf("get missing key = (%v, %v), want absent", ok, err)
	}
	if err := store.Set(ctx, "pomodoroCount", "2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "pomodoroCount", "4"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, ok, err := store.Get(ctx, "pomodoroCount")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || value != "4" {
		t.Fatalf("get = (%q, %v), want (\"4\", true)", value, ok)
	}

	if err := store.Delete(ctx, "pomodoroCount"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "pomodoroCount"); ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestStoreKeysSorted(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	for _, key := range []string{"pomodoroWorkDuration", "pomodoroCount", "pomodoroTasks"} {
		if err := store.Set(ctx, key, "1"); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	want := []string{"pomodoroCount", "pomodoroTasks", "pomodoroWorkDuration"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestReopenKeepsValuesAndSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focustimer.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Set(context.Background(), "pomodoroShortBreakDuration", "600"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get(context.Background(), "pomodoroShortBreakDuration")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || value != "600" {
		t.Fatalf("get = (%q, %v), want (\"600\", true)", value, ok)
	}
}

func TestApplyMigrationsRecordsEachFileOnce(t *testing.T) {
	store := openTempStore(t)
	migrationFS := fstest.MapFS{
		"002_extra.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE extra (id INTEGER);\n-- +migrate Down\nDROP TABLE extra;\n")},
	}

	if err := applyMigrations(store.sqlDB, migrationFS); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	// A second run would fail on CREATE TABLE if the file were re-applied.
	if err := applyMigrations(store.sqlDB, migrationFS); err != nil {
		t.Fatalf("reapply migrations: %v", err)
	}

	var count int
	if err := store.sqlDB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 2 {
		t.Fatalf("applied migrations = %d, want 2", count)
	}
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (id INTEGER);\n-- +migrate Down\nDROP TABLE a;\n"
	got := extractUpMigration(content)
	if got != "\nCREATE TABLE a (id INTEGER);\n" {
		t.Fatalf("extractUpMigration = %q", got)
	}
	if extractUpMigration("SELECT 1;") != "SELECT 1;" {
		t.Fatal("expected content without markers to be returned whole")
	}
}

func TestNilStoreIsNotConfigured(t *testing.T) {
	var store *Store
	if _, _, err := store.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error from nil store")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}
