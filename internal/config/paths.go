package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "ifwatch"

// location describes where one kind of per-user directory lives on each
// platform. The env var wins; otherwise the fallback is joined onto the
// profile or home directory.
type location struct {
	windowsEnv      string
	windowsFallback []string // under %USERPROFILE%
	unixEnv         string
	unixFallback    []string // under $HOME
}

var (
	configLocation = location{
		windowsEnv:      "APPDATA",
		windowsFallback: []string{"AppData", "Roaming"},
		unixEnv:         "XDG_CONFIG_HOME",
		unixFallback:    []string{".config"},
	}
	dataLocation = location{
		windowsEnv:      "LOCALAPPDATA",
		windowsFallback: []string{"AppData", "Local"},
		unixEnv:         "XDG_DATA_HOME",
		unixFallback:    []string{".local", "share"},
	}
)

// resolve returns the app directory for goos.
func (l location) resolve(goos string) (string, error) {
	if goos == "windows" {
		base := os.Getenv(l.windowsEnv)
		if base == "" {
			base = filepath.Join(append([]string{os.Getenv("USERPROFILE")}, l.windowsFallback...)...)
		}
		return filepath.Join(base, appName), nil
	}

	base := os.Getenv(l.unixEnv)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(append([]string{home}, l.unixFallback...)...)
	}
	return filepath.Join(base, appName), nil
}

// GetConfigDir returns $XDG_CONFIG_HOME/ifwatch (or ~/.config/ifwatch), and
// %APPDATA%\ifwatch on Windows.
func GetConfigDir() (string, error) {
	return configLocation.resolve(runtime.GOOS)
}

// GetDataDir returns $XDG_DATA_HOME/ifwatch (or ~/.local/share/ifwatch), and
// %LOCALAPPDATA%\ifwatch on Windows.
func GetDataDir() (string, error) {
	return dataLocation.resolve(runtime.GOOS)
}

// GetConfigPath returns the path of config.toml.
func GetConfigPath() (string, error) {
	return fileIn(GetConfigDir, "config.toml")
}

// GetLogPath returns the log file path. The TUI owns the terminal, so logs go
// here instead of stderr.
func GetLogPath() (string, error) {
	return fileIn(GetDataDir, appName+".log")
}

func fileIn(dir func() (string, error), name string) (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, name), nil
}

// EnsureDirs creates the config and data directories.
func EnsureDirs() error {
	for _, dir := range []func() (string, error){GetConfigDir, GetDataDir} {
		d, err := dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}
