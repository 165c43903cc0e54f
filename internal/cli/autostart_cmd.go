package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"focustimer/internal/config"
	"focustimer/internal/platform"
)

// guiBinary is the desktop executable registered for login, expected next
// to focusctl.
const guiBinary = "focustimer"

func (app *App) newAutostartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Start the desktop app at login",
	}

	var execPath string
	enable := &cobra.Command{
		Use:   "enable",
		Short: "Register the desktop app as a login item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if execPath == "" {
				self, err := os.Executable()
				if err != nil {
					return fmt.Errorf("locate executable: %w", err)
				}
				execPath = filepath.Join(filepath.Dir(self), guiBinary)
			}
			entry := platform.AutostartEntry{
				AppName:  config.AppName,
				ExecPath: execPath,
				Args:     []string{"-minimized"},
				Comment:  "Pomodoro timer",
			}
			if err := app.platform.EnableAutostart(entry); err != nil {
				return err
			}
			app.printf("autostart enabled: %s\n", execPath)
			return nil
		},
	}
	enable.Flags().StringVar(&execPath, "exec", "", "path of the desktop executable (default: focustimer next to focusctl)")

	cmd.AddCommand(
		enable,
		&cobra.Command{
			Use:   "disable",
			Short: "Remove the login item",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.platform.DisableAutostart(config.AppName); err != nil {
					return err
				}
				app.printf("autostart disabled\n")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report whether the login item exists",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				enabled, err := app.platform.AutostartEnabled(config.AppName)
				if err != nil {
					return err
				}
				if enabled {
					app.printf("enabled\n")
				} else {
					app.printf("disabled\n")
				}
				return nil
			},
		},
	)
	return cmd
}
