package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"missionctl/internal/fileutil"
)

// EnvVar is the environment variable pointing the server at its
// configuration file. The shell sets it before spawning and never reads the
// file back.
const EnvVar = "MISSION_CONTROL_CONFIG"

// DirName is the per-user configuration directory name.
const DirName = ".mission-control"

// ServerConfigName is the server configuration file name inside the
// configuration directory.
const ServerConfigName = "config.json"

// LauncherConfigName is the launcher configuration file name inside the
// configuration directory.
const LauncherConfigName = "launcher.toml"

// Dir returns the configuration directory: under the user home on most
// platforms, under the working directory on Windows.
func Dir() (string, error) {
	return dir(runtime.GOOS)
}

func dir(goos string) (string, error) {
	if goos == "windows" {
		return filepath.Join(".", DirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// ExportServerPath points EnvVar at the server configuration file inside
// dir, creating dir if absent, and returns that path.
func ExportServerPath(dir string) (string, error) {
	path := filepath.Join(dir, ServerConfigName)
	if err := fileutil.EnsureDirForFile(path); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}

	if err := os.Setenv(EnvVar, path); err != nil {
		return "", fmt.Errorf("setting %s: %w", EnvVar, err)
	}
	return path, nil
}
