package config

import (
	"os"
	"path/filepath"
)

// DefaultPath returns ~/.config/cron-editor/config.json (or CWD fallback).
func DefaultPath() string {
	return filepath.Join(baseDir(), "config.json")
}

// DefaultStorePath returns ~/.config/cron-editor/values.json (or CWD fallback).
func DefaultStorePath() string {
	return filepath.Join(baseDir(), "values.json")
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "cron-editor")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".cron-editor")
}
