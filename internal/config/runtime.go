package config

import (
	"os"
	"path/filepath"
)

const defaultRuntimeDir = ".dailyfacts"

// GetRuntimePath resolves the runtime directory before any .env file is loaded.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("FACTS_RUNTIME_PATH"))
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = defaultRuntimeDir
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
