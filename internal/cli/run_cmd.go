package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"focustimer/internal/core/model"
	"focustimer/internal/core/timekeeper"
	"focustimer/internal/i18n"
	"focustimer/internal/logging"
)

func (app *App) newRunCmd() *cobra.Command {
	var (
		modeName  string
		intervals int
		bell      bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the timer in the terminal until interrupted",
		Long:  "run counts down in the terminal, moving through work and break intervals. It stops on Ctrl+C or after --intervals completed intervals.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := model.ParseMode(modeName)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return app.runTimer(ctx, mode, intervals, bell)
		},
	}
	cmd.Flags().StringVar(&modeName, "mode", string(model.ModeWork), "interval to start in: work, short_break or long_break")
	cmd.Flags().IntVar(&intervals, "intervals", 0, "stop after this many completed intervals (0 = run until interrupted)")
	cmd.Flags().BoolVar(&bell, "bell", true, "ring the terminal bell when an interval ends")
	return cmd
}

// terminalNotifier announces completed intervals on the terminal.
type terminalNotifier struct {
	app       *App
	localizer *i18n.Localizer
	bell      bool
	done      chan struct{}
}

func (notifier *terminalNotifier) NotifyIntervalComplete(completed, next model.Mode) error {
	title, body := notifier.localizer.Notification(completed, next)
	prefix := ""
	if notifier.bell {
		prefix = "\a"
	}
	notifier.app.printf("%s\n%s: %s\n", prefix, title, body)
	select {
	case notifier.done <- struct{}{}:
	default:
		logging.Warnf("completion signal dropped")
	}
	return nil
}

func (app *App) runTimer(ctx context.Context, mode model.Mode, intervals int, bell bool) error {
	store, err := app.durationStore()
	if err != nil {
		return err
	}
	adapter, err := app.storage()
	if err != nil {
		return err
	}
	localizer, err := app.i18n()
	if err != nil {
		return err
	}

	notifier := &terminalNotifier{app: app, localizer: localizer, bell: bell, done: make(chan struct{}, 16)}
	keeper := timekeeper.New(store.Current(), adapter.LoadCompletedCycles(), timekeeper.Config{
		TickInterval: app.cfg.TickInterval,
		Notifier:     notifier,
		Counter:      adapter,
	})
	defer keeper.Close()

	events := keeper.Subscribe(64)
	keeper.SwitchMode(mode)
	keeper.ToggleRun()
	app.printf("%s\n", localizer.Title(keeper.Snapshot().RemainingSeconds, mode))

	completed := 0
	for {
		select {
		case <-ctx.Done():
			snapshot := keeper.Snapshot()
			app.printf("\nstopped in %s at %s (%d completed)\n", snapshot.Mode, snapshot.Clock(), snapshot.CompletedWorkCycles)
			return nil
		case <-notifier.done:
			completed++
			if intervals > 0 && completed >= intervals {
				return nil
			}
			// Completion leaves the timer idle in the next mode.
			keeper.ToggleRun()
		case event, ok := <-events:
			if !ok {
				return fmt.Errorf("timer closed")
			}
			if event.Type == timekeeper.EventProgress {
				app.printf("\r%s %s ", event.Snapshot.Clock(), localizer.Mode(event.Snapshot.Mode))
			}
		}
	}
}
