//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) EnableAutostart(entry AutostartEntry) error {
	if err := entry.validate("enable"); err != nil {
		return err
	}

	parts := []string{quoteWindowsPath(entry.ExecPath)}
	for _, arg := range entry.Args {
		parts = append(parts, quoteArg(arg))
	}
	output, err := exec.Command(
		"reg", "add", registryRunKey,
		"/v", entry.AppName,
		"/t", "REG_SZ",
		"/d", strings.Join(parts, " "),
		"/f",
	).CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if err := (AutostartEntry{AppName: appName}).validate("disable"); err != nil {
		return err
	}
	enabled, err := service.AutostartEnabled(appName)
	if err != nil || !enabled {
		return err
	}

	output, err := exec.Command("reg", "delete", registryRunKey, "/v", appName, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	// reg query exits non-zero when the value does not exist.
	if err := exec.Command("reg", "query", registryRunKey, "/v", appName).Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		return false, fmt.Errorf("check autostart: %w", err)
	}
	return true, nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func quoteWindowsPath(execPath string) string {
	return fmt.Sprintf(`"%s"`, strings.Trim(execPath, `"`))
}
