package i18n

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"focustimer/internal/core/model"
)

func TestDefaultBundleLocales(t *testing.T) {
	bundle, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	locales := bundle.Locales()
	if len(locales) != 2 || locales[0] != "en-US" || locales[1] != "es-ES" {
		t.Fatalf("locales = %v, want [en-US es-ES]", locales)
	}
	if len(bundle.Keys()) == 0 {
		t.Fatal("expected message keys")
	}
}

func TestMatch(t *testing.T) {
	bundle, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	cases := map[string]string{
		"es-ES":       "es-ES",
		"es":          "es-ES",
		"es_ES.UTF-8": "es-ES",
		"en-GB":       "en-US",
		"":            "en-US",
		"C":           "en-US",
		"ja-JP":       "en-US",
	}
	for requested, want := range cases {
		if got := bundle.Match(requested); got != want {
			t.Fatalf("Match(%q) = %q, want %q", requested, got, want)
		}
	}
}

func TestTitleMatchesWindowFormat(t *testing.T) {
	spanish, err := NewLocalizer("es-ES")
	if err != nil {
		t.Fatalf("NewLocalizer: %v", err)
	}
	if got := spanish.Title(1500, model.ModeWork); got != "25:00 - Trabajo | Tiempo Productivo" {
		t.Fatalf("Title = %q", got)
	}
	if got := spanish.Title(59, model.ModeShortBreak); got != "00:59 - Descanso Corto | Tiempo Productivo" {
		t.Fatalf("Title = %q", got)
	}

	english, err := NewLocalizer("en-US")
	if err != nil {
		t.Fatalf("NewLocalizer: %v", err)
	}
	if got := english.Title(900, model.ModeLongBreak); got != "15:00 - Long Break | FocusTimer" {
		t.Fatalf("Title = %q", got)
	}
}

func TestModeLabels(t *testing.T) {
	english, _ := NewLocalizer("en-US")
	for mode, want := range map[model.Mode]string{
		model.ModeWork:       "Work",
		model.ModeShortBreak: "Short Break",
		model.ModeLongBreak:  "Long Break",
	} {
		if got := english.Mode(mode); got != want {
			t.Fatalf("Mode(%s) = %q, want %q", mode, got, want)
		}
	}
}

func TestNotification(t *testing.T) {
	english, _ := NewLocalizer("en-US")
	title, body := english.Notification(model.ModeWork, model.ModeShortBreak)
	if title != "Work finished" || !strings.Contains(body, "Short Break") {
		t.Fatalf("Notification = (%q, %q)", title, body)
	}
	_, body = english.Notification(model.ModeLongBreak, model.ModeWork)
	if !strings.Contains(body, "Back to Work") {
		t.Fatalf("break body = %q", body)
	}
}

func TestDateAndTemplates(t *testing.T) {
	spanish, _ := NewLocalizer("es")
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if got := spanish.Date(date); got != "09/03/2026" {
		t.Fatalf("Date = %q, want 09/03/2026", got)
	}
	templates := spanish.TaskTemplates()
	if len(templates) != 6 || templates[0] != "Planificar la semana" {
		t.Fatalf("templates = %v", templates)
	}
}

func TestLoadRejectsIncompleteCatalog(t *testing.T) {
	catalogs := fstest.MapFS{
		"locales/en-US.yaml": &fstest.MapFile{Data: []byte("locale: en-US\nmessages:\n  a: \"A\"\n  b: \"B\"\n")},
		"locales/es-ES.yaml": &fstest.MapFile{Data: []byte("locale: es-ES\nmessages:\n  a: \"A\"\n")},
	}
	if _, err := Load(catalogs); err == nil || !strings.Contains(err.Error(), "missing key") {
		t.Fatalf("Load error = %v, want missing key", err)
	}
}

func TestLoadRejectsMismatchedLocale(t *testing.T) {
	catalogs := fstest.MapFS{
		"locales/en-US.yaml": &fstest.MapFile{Data: []byte("locale: en-GB\nmessages:\n  a: \"A\"\n")},
	}
	if _, err := Load(catalogs); err == nil {
		t.Fatal("expected locale mismatch error")
	}
}

func TestLoadRequiresBaseLocale(t *testing.T) {
	catalogs := fstest.MapFS{
		"locales/es-ES.yaml": &fstest.MapFile{Data: []byte("locale: es-ES\nmessages:\n  a: \"A\"\n")},
	}
	if _, err := Load(catalogs); err == nil {
		t.Fatal("expected missing base locale error")
	}
}
