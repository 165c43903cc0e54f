package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"focustimer/internal/core/model"
)

func (app *App) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the interval durations",
	}
	cmd.AddCommand(app.newConfigGetCmd(), app.newConfigSetCmd(), app.newConfigDumpCmd())
	return cmd
}

type configView struct {
	WorkSeconds       int    `json:"workSeconds"`
	ShortBreakSeconds int    `json:"shortBreakSeconds"`
	LongBreakSeconds  int    `json:"longBreakSeconds"`
	CompletedCycles   int    `json:"completedCycles"`
	Backend           string `json:"backend"`
	DataDir           string `json:"dataDir"`
	Locale            string `json:"locale"`
}

func (app *App) newConfigGetCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the durations and where they are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.durationStore()
			if err != nil {
				return err
			}
			adapter, _ := app.storage()
			current := store.Current()
			view := configView{
				WorkSeconds:       current.Work,
				ShortBreakSeconds: current.ShortBreak,
				LongBreakSeconds:  current.LongBreak,
				CompletedCycles:   adapter.LoadCompletedCycles(),
				Backend:           app.cfg.Backend,
				DataDir:           app.cfg.DataDir,
				Locale:            app.cfg.Locale,
			}

			if asJSON {
				out, err := json.MarshalIndent(view, "", "  ")
				if err != nil {
					return fmt.Errorf("encode config: %w", err)
				}
				app.printf("%s\n", out)
				return nil
			}
			app.printf("work:        %s\n", formatSeconds(view.WorkSeconds))
			app.printf("short_break: %s\n", formatSeconds(view.ShortBreakSeconds))
			app.printf("long_break:  %s\n", formatSeconds(view.LongBreakSeconds))
			app.printf("completed:   %d\n", view.CompletedCycles)
			app.printf("backend:     %s (%s)\n", view.Backend, view.DataDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (app *App) newConfigSetCmd() *cobra.Command {
	var work, shortBreak, longBreak time.Duration
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more durations, e.g. --work 50m --short 10m",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := map[model.Mode]struct {
				name  string
				value time.Duration
			}{
				model.ModeWork:       {"work", work},
				model.ModeShortBreak: {"short", shortBreak},
				model.ModeLongBreak:  {"long", longBreak},
			}

			store, err := app.durationStore()
			if err != nil {
				return err
			}
			next := store.Current()
			changed := false
			for _, mode := range model.Modes {
				flag := flags[mode]
				if !cmd.Flags().Changed(flag.name) {
					continue
				}
				seconds, err := wholeSeconds(flag.value)
				if err != nil {
					return fmt.Errorf("--%s: %w", flag.name, err)
				}
				next = next.With(mode, seconds)
				changed = true
			}
			if !changed {
				return errors.New("nothing to change: pass --work, --short or --long")
			}

			if err := store.Save(next); err != nil {
				return err
			}
			app.printf("saved: work=%s short_break=%s long_break=%s\n",
				formatSeconds(next.Work), formatSeconds(next.ShortBreak), formatSeconds(next.LongBreak))
			return nil
		},
	}
	cmd.Flags().DurationVar(&work, "work", 0, "work interval, e.g. 25m")
	cmd.Flags().DurationVar(&shortBreak, "short", 0, "short break, e.g. 5m")
	cmd.Flags().DurationVar(&longBreak, "long", 0, "long break, e.g. 15m")
	return cmd
}

func (app *App) newConfigDumpCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print every stored key and value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := app.storage()
			if err != nil {
				return err
			}
			entries, err := adapter.Entries(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				out, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return fmt.Errorf("encode entries: %w", err)
				}
				app.printf("%s\n", out)
				return nil
			}
			for _, entry := range entries {
				app.printf("%s=%s\n", entry.Key, entry.Value)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func wholeSeconds(value time.Duration) (int, error) {
	if value%time.Second != 0 {
		return 0, fmt.Errorf("%s is not a whole number of seconds", value)
	}
	return int(value / time.Second), nil
}

func formatSeconds(seconds int) string {
	return fmt.Sprintf("%s (%ds)", time.Duration(seconds)*time.Second, seconds)
}
