package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	appDirName = "eunoia"
	dbFileName = "eunoia.db"
)

// DataDir returns the per-user directory eunoia keeps its files in.
func DataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming", appDirName)
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", appDirName)
	default:
		return filepath.Join(homeDir, ".local", "share", appDirName)
	}
}

// DefaultDBPath is where the journal database lives when no path is configured.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), dbFileName)
}

// ResolveAndEnsureDBPath expands ~, makes the path absolute and creates its
// directory. An empty path resolves to DefaultDBPath. ":memory:" is returned as is.
func ResolveAndEnsureDBPath(providedPath string) (string, error) {
	if providedPath == ":memory:" {
		return providedPath, nil
	}
	targetPath := providedPath
	if targetPath == "" {
		targetPath = DefaultDBPath()
	}

	if strings.HasPrefix(targetPath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory to expand path '%s': %w", targetPath, err)
		}
		targetPath = filepath.Join(homeDir, targetPath[2:])
	}

	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", targetPath, err)
	}
	targetPath = absPath

	dbDir := filepath.Dir(targetPath)
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory '%s' for database: %w", dbDir, err)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to stat directory '%s' for database: %w", dbDir, err)
	}

	return targetPath, nil
}
