//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (service *platformService) EnableAutostart(entry AutostartEntry) error {
	if err := entry.validate("enable"); err != nil {
		return err
	}
	path, err := service.desktopEntryPath(entry.AppName)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(buildDesktopEntry(entry)), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if err := (AutostartEntry{AppName: appName}).validate("disable"); err != nil {
		return err
	}
	path, err := service.desktopEntryPath(appName)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}
	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	path, err := service.desktopEntryPath(appName)
	if err != nil {
		return false, fmt.Errorf("check autostart: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("check autostart: %w", err)
	}
	return true, nil
}

func (service *platformService) desktopEntryPath(appName string) (string, error) {
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", slug(appName)+".desktop"), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func buildDesktopEntry(entry AutostartEntry) string {
	parts := []string{quoteArg(entry.ExecPath)}
	for _, arg := range entry.Args {
		parts = append(parts, quoteArg(arg))
	}

	var builder strings.Builder
	builder.WriteString("[Desktop Entry]\n")
	builder.WriteString("Type=Application\n")
	fmt.Fprintf(&builder, "Name=%s\n", entry.AppName)
	if entry.Comment != "" {
		fmt.Fprintf(&builder, "Comment=%s\n", entry.Comment)
	}
	fmt.Fprintf(&builder, "Exec=%s\n", strings.Join(parts, " "))
	builder.WriteString("X-GNOME-Autostart-enabled=true\n")
	builder.WriteString("Terminal=false\n")
	return builder.String()
}
