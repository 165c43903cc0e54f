// Package cli implements focusctl, the terminal front end: settings,
// the cycle counter, tasks, a headless timer and an interactive shell.
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"focustimer/internal/config"
	"focustimer/internal/core/durations"
	"focustimer/internal/i18n"
	"focustimer/internal/logging"
	"focustimer/internal/platform"
	"focustimer/internal/storage"
	"focustimer/internal/tasks"
)

// App holds state shared by every command of one process, so the shell can
// run many commands against one open backend.
type App struct {
	cfg       config.Config
	verbosity int
	out       io.Writer
	errOut    io.Writer
	platform  platform.Service

	adapter     *storage.Adapter
	adapterKey  string
	localizer   *i18n.Localizer
	localeKey   string
	inShell     bool
	historyFile string
}

// NewApp loads the environment layer of the configuration.
func NewApp(out, errOut io.Writer) (*App, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	return &App{
		cfg:      cfg,
		out:      &lockedWriter{w: out},
		errOut:   errOut,
		platform: platform.NewService(),
	}, nil
}

// Close releases the open storage backend.
func (app *App) Close() error {
	if app.adapter == nil {
		return nil
	}
	err := app.adapter.Close()
	app.adapter = nil
	app.adapterKey = ""
	return err
}

// RootCmd builds a fresh command tree bound to app.
func (app *App) RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "focusctl",
		Short:         "Pomodoro timer and task list for the terminal",
		Long:          "focusctl reads and edits the settings the FocusTimer desktop app uses, runs a headless timer and manages tasks.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(app.out)
	cmd.SetErr(app.errOut)

	app.cfg.BindFlags(cmd.PersistentFlags())
	cmd.PersistentFlags().StringVar(&app.cfg.LogLevel, "log-level", app.cfg.LogLevel, "error, warn, info, debug or trace")
	cmd.PersistentFlags().CountVarP(&app.verbosity, "verbose", "v", "increase logging (-v info, -vv debug, -vvv trace)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if app.verbosity > 0 {
			logging.SetVerbosity(app.verbosity)
		} else if err := logging.SetLevel(app.cfg.LogLevel); err != nil {
			return err
		}
		if err := app.cfg.ResolveDataDir(app.platform); err != nil {
			return err
		}
		return app.cfg.Validate()
	}

	cmd.AddCommand(
		app.newConfigCmd(),
		app.newCountCmd(),
		app.newRunCmd(),
		app.newTasksCmd(),
		app.newAutostartCmd(),
		app.newShellCmd(),
	)
	return cmd
}

// Execute runs one command line.
func (app *App) Execute(args []string) error {
	root := app.RootCmd()
	root.SetArgs(args)
	return root.Execute()
}

// storage returns the adapter for the configured backend, reopening it when
// the backend or data dir changed since the last command.
func (app *App) storage() (*storage.Adapter, error) {
	key := strings.ToLower(app.cfg.Backend) + "|" + app.cfg.DataDir
	if app.adapter != nil && app.adapterKey == key {
		return app.adapter, nil
	}
	if err := app.Close(); err != nil {
		logging.Warnf("close previous backend: %v", err)
	}
	adapter, err := app.cfg.OpenStorage()
	if err != nil {
		return nil, err
	}
	app.adapter = adapter
	app.adapterKey = key
	return adapter, nil
}

func (app *App) durationStore() (*durations.Store, error) {
	adapter, err := app.storage()
	if err != nil {
		return nil, err
	}
	store := durations.New(adapter)
	store.Load()
	return store, nil
}

func (app *App) taskList() (*tasks.List, error) {
	adapter, err := app.storage()
	if err != nil {
		return nil, err
	}
	return tasks.Open(adapter), nil
}

func (app *App) i18n() (*i18n.Localizer, error) {
	if app.localizer != nil && app.localeKey == app.cfg.Locale {
		return app.localizer, nil
	}
	localizer, err := i18n.NewLocalizer(app.cfg.Locale)
	if err != nil {
		return nil, err
	}
	app.localizer = localizer
	app.localeKey = app.cfg.Locale
	return localizer, nil
}

func (app *App) printf(format string, args ...any) {
	fmt.Fprintf(app.out, format, args...)
}

// lockedWriter serializes writes from the timer goroutines and the command.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (writer *lockedWriter) Write(p []byte) (int, error) {
	writer.mu.Lock()
	defer writer.mu.Unlock()
	return writer.w.Write(p)
}
