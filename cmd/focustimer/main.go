package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"focustimer/internal/config"
	"focustimer/internal/core/durations"
	"focustimer/internal/core/timekeeper"
	"focustimer/internal/i18n"
	"focustimer/internal/idlewatch"
	"focustimer/internal/logging"
	"focustimer/internal/platform"
	"focustimer/internal/tasks"
	"focustimer/internal/ui/notify"
	"focustimer/internal/ui/palette"
	"focustimer/internal/ui/preferences"
	"focustimer/internal/ui/timerview"
	"focustimer/internal/ui/tray"
	"focustimer/resources"
)

const appID = "com.focustimer.app"

func main() {
	if err := run(); err != nil {
		log.Printf("focustimer: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	service := platform.NewService()
	if err := cfg.ResolveDataDir(service); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	guard, err := platform.AcquireSingleInstance(config.AppName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		if signalErr := platform.SignalRunningInstance(config.AppName); signalErr != nil {
			logging.Warnf("%v", signalErr)
		}
		logging.Infof("%s is already running", config.AppName)
		return nil
	}
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	adapter, err := cfg.OpenStorage()
	if err != nil {
		return err
	}
	defer func() {
		_ = adapter.Close()
	}()

	localizer, err := i18n.NewLocalizer(cfg.Locale)
	if err != nil {
		return err
	}

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.IconIdle))
	palette.Apply(fyneApp, adapter.LoadPalette())

	durationStore := durations.New(adapter)
	durationStore.Load()
	keeper := timekeeper.New(durationStore.Current(), adapter.LoadCompletedCycles(), timekeeper.Config{
		TickInterval: cfg.TickInterval,
		Notifier:     notify.New(fyneApp, localizer),
		Counter:      adapter,
	})
	defer keeper.Close()
	durationStore.OnChange(keeper.OnDurationsChanged)

	taskList := tasks.Open(adapter)
	timerWindow := timerview.New(fyneApp, localizer, keeper, timerview.NewTaskPanel(taskList, localizer))

	autostartOn, err := service.AutostartEnabled(config.AppName)
	if err != nil {
		logging.Warnf("read autostart state: %v", err)
	}
	prefsWindow := preferences.New(fyneApp, durationStore, localizer, preferences.Options{
		Autostart: autostartOn,
		Palettes:  adapter,
		OnAutostart: func(enabled bool) error {
			if !enabled {
				return service.DisableAutostart(config.AppName)
			}
			entry, err := autostartEntry()
			if err != nil {
				return err
			}
			return service.EnableAutostart(entry)
		},
	})

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, localizer, tray.Icons{
			Idle:    resources.MustIcon(resources.IconIdle),
			Running: resources.MustIcon(resources.IconRunning),
			Break:   resources.MustIcon(resources.IconBreak),
		}, tray.Callbacks{
			OnShow:        timerWindow.Show,
			OnToggleRun:   keeper.ToggleRun,
			OnReset:       keeper.ResetCurrent,
			OnSwitchMode:  keeper.SwitchMode,
			OnResetCount:  keeper.ResetCompletedCycles,
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
	} else {
		logging.Warnf("system tray unsupported on this platform")
		timerWindow.Window().SetCloseIntercept(fyneApp.Quit)
	}
	timerWindow.Window().SetMainMenu(fyne.NewMainMenu(fyne.NewMenu(localizer.AppName(),
		fyne.NewMenuItem(localizer.T("tray.preferences"), prefsWindow.Show),
	)))

	guard.OnActivate(func() {
		fyne.Do(timerWindow.Show)
	})

	watcher := idlewatch.New(platform.NewIdleProvider(), keeper, idlewatch.Config{Threshold: cfg.IdlePause})
	watcher.Start()
	defer watcher.Stop()

	render := func() {
		snapshot := keeper.Snapshot()
		timerWindow.Update(snapshot)
		if trayManager != nil {
			trayManager.Update(snapshot)
		}
	}
	render()

	events := keeper.Subscribe(16)
	go func() {
		for range events {
			fyne.Do(render)
		}
	}()

	if !cfg.Minimized || trayManager == nil {
		timerWindow.Show()
	}
	fyneApp.Run()
	return nil
}

func autostartEntry() (platform.AutostartEntry, error) {
	self, err := os.Executable()
	if err != nil {
		return platform.AutostartEntry{}, fmt.Errorf("locate executable: %w", err)
	}
	return platform.AutostartEntry{
		AppName:  config.AppName,
		ExecPath: self,
		Args:     []string{"-minimized"},
		Comment:  "Pomodoro timer",
	}, nil
}
