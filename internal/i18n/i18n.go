// Package i18n loads the embedded message catalogs into golang.org/x/text
// and renders user-facing strings for one locale.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"focustimer/internal/core/model"
)

// BaseLocale is the fallback locale and the source of every key.
const BaseLocale = "en-US"

//go:embed locales/*.yaml
var embeddedLocales embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle is the set of loaded catalogs keyed by locale.
type Bundle struct {
	catalogs map[string]map[string]string
	matcher  language.Matcher
	tags     []language.Tag
}

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
	defaultErr    error
)

// Default returns the embedded bundle, registered with x/text on first use.
func Default() (*Bundle, error) {
	defaultOnce.Do(func() {
		defaultBundle, defaultErr = Load(embeddedLocales)
		if defaultErr == nil {
			defaultErr = defaultBundle.Register()
		}
	})
	return defaultBundle, defaultErr
}

// Load parses locales/*.yaml from catalogFS. Every locale must define
// exactly the keys of the base locale.
func Load(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	sort.Strings(paths)

	bundle := &Bundle{catalogs: map[string]map[string]string{}}
	for _, path := range paths {
		data, err := fs.ReadFile(catalogFS, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		locale := strings.TrimSpace(file.Locale)
		if locale == "" {
			return nil, fmt.Errorf("catalog %s: locale is required", path)
		}
		if want := strings.TrimSuffix(path[strings.LastIndex(path, "/")+1:], ".yaml"); locale != want {
			return nil, fmt.Errorf("catalog %s: locale %q must match file name", path, locale)
		}
		if len(file.Messages) == 0 {
			return nil, fmt.Errorf("catalog %s: messages are required", path)
		}
		if _, exists := bundle.catalogs[locale]; exists {
			return nil, fmt.Errorf("catalog %s: locale %q defined twice", path, locale)
		}
		bundle.catalogs[locale] = file.Messages
	}

	base, ok := bundle.catalogs[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}
	for locale, messages := range bundle.catalogs {
		for key := range base {
			if _, ok := messages[key]; !ok {
				return nil, fmt.Errorf("catalog %s: missing key %q", locale, key)
			}
		}
		for key := range messages {
			if _, ok := base[key]; !ok {
				return nil, fmt.Errorf("catalog %s: unknown key %q", locale, key)
			}
		}
	}

	// The base locale goes first so the matcher falls back to it.
	bundle.tags = []language.Tag{language.MustParse(BaseLocale)}
	for _, locale := range bundle.Locales() {
		if locale == BaseLocale {
			continue
		}
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		bundle.tags = append(bundle.tags, tag)
	}
	bundle.matcher = language.NewMatcher(bundle.tags)
	return bundle, nil
}

// Register installs every message into the x/text default catalog.
func (b *Bundle) Register() error {
	for _, tag := range b.tags {
		messages := b.catalogs[tag.String()]
		for key, value := range messages {
			if err := message.SetString(tag, key, value); err != nil {
				return fmt.Errorf("register %s %s: %w", tag, key, err)
			}
		}
	}
	return nil
}

// Locales lists the loaded locales.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.catalogs))
	for locale := range b.catalogs {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Keys lists every message key.
func (b *Bundle) Keys() []string {
	out := make([]string, 0, len(b.catalogs[BaseLocale]))
	for key := range b.catalogs[BaseLocale] {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Match returns the supported locale closest to requested. Unknown or
// malformed requests get the base locale.
func (b *Bundle) Match(requested string) string {
	requested = strings.TrimSpace(strings.ReplaceAll(requested, "_", "-"))
	if cut := strings.IndexAny(requested, ".@"); cut >= 0 {
		requested = requested[:cut]
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return BaseLocale
	}
	_, index, confidence := b.matcher.Match(tag)
	if confidence == language.No {
		return BaseLocale
	}
	return b.tags[index].String()
}

// Localizer renders messages for one locale.
type Localizer struct {
	locale  string
	printer *message.Printer
}

// NewLocalizer returns a Localizer for the closest supported locale.
func NewLocalizer(requested string) (*Localizer, error) {
	bundle, err := Default()
	if err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}
	locale := bundle.Match(requested)
	return &Localizer{locale: locale, printer: message.NewPrinter(language.MustParse(locale))}, nil
}

// Locale returns the resolved locale.
func (l *Localizer) Locale() string {
	return l.locale
}

// T renders key with args.
func (l *Localizer) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// AppName returns the localized application name.
func (l *Localizer) AppName() string {
	return l.T("app.name")
}

// Mode returns the display label of mode.
func (l *Localizer) Mode(mode model.Mode) string {
	return l.T("mode." + string(mode))
}

// Title renders the window title, "MM:SS - <mode> | <app>".
func (l *Localizer) Title(remainingSeconds int, mode model.Mode) string {
	return l.T("app.title", model.FormatClock(remainingSeconds), l.Mode(mode), l.AppName())
}

// Status renders the one-line tray status.
func (l *Localizer) Status(mode model.Mode, remainingSeconds int, running bool) string {
	if running {
		return l.T("timer.status_running", l.Mode(mode), model.FormatClock(remainingSeconds))
	}
	return l.T("timer.status_paused", l.Mode(mode), model.FormatClock(remainingSeconds))
}

// Date formats a calendar date the way the locale writes it.
func (l *Localizer) Date(value time.Time) string {
	return value.Format(l.T("format.date"))
}

// Notification renders the title and body shown when completed ends and
// next begins.
func (l *Localizer) Notification(completed, next model.Mode) (string, string) {
	title := l.T("notify.title", l.Mode(completed))
	if completed == model.ModeWork {
		return title, l.T("notify.body.work", l.Mode(next))
	}
	return title, l.T("notify.body.break", l.Mode(next))
}

// TaskTemplates returns the suggested task texts.
func (l *Localizer) TaskTemplates() []string {
	var out []string
	for i := 1; ; i++ {
		key := fmt.Sprintf("task.template.%d", i)
		value := l.T(key)
		if value == key {
			return out
		}
		out = append(out, value)
	}
}
