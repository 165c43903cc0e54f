package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AutostartEntry describes the login item registered for the application.
type AutostartEntry struct {
	AppName  string
	ExecPath string
	Args     []string
	Comment  string
}

func (entry AutostartEntry) validate(action string) error {
	if strings.TrimSpace(entry.AppName) == "" {
		return fmt.Errorf("%s autostart: app name is empty", action)
	}
	if action == "enable" && strings.TrimSpace(entry.ExecPath) == "" {
		return fmt.Errorf("%s autostart: exec path is empty", action)
	}
	return nil
}

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	DataDir(appName string) (string, error)
	EnableAutostart(entry AutostartEntry) error
	DisableAutostart(appName string) error
	AutostartEnabled(appName string) (bool, error)
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}
	return fallbackConfigDir(homeDir), nil
}

// DataDir returns the per-user directory holding the application's settings.
func (service *platformService) DataDir(appName string) (string, error) {
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, slug(appName)), nil
}

// slug lowercases name and replaces spaces, for file names and labels.
func slug(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "focustimer"
	}
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

func quoteArg(arg string) string {
	if strings.ContainsAny(arg, " \t") && !strings.HasPrefix(arg, `"`) {
		return `"` + arg + `"`
	}
	return arg
}
