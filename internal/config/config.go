package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds the application settings shared by the CLI and web server.
type Config struct {
	Addr           string `json:"addr" validate:"required"`
	StorePath      string `json:"storePath" validate:"required"`
	LogLevel       string `json:"logLevel" validate:"oneof=error warn warning info debug trace"`
	HighlightColor string `json:"highlightColor" validate:"required,max=16"`
}

var (
	// DefaultAddr is the bind address of the web server.
	DefaultAddr = "127.0.0.1:7070"
	// DefaultHighlightColor is the terminal color of the focused fragment.
	DefaultHighlightColor = "205"
)

// Environment variables that override file settings.
const (
	EnvAddr           = "CRON_EDITOR_ADDR"
	EnvStorePath      = "CRON_EDITOR_STORE"
	EnvLogLevel       = "CRON_EDITOR_LOG_LEVEL"
	EnvHighlightColor = "CRON_EDITOR_HIGHLIGHT_COLOR"
)

// DefaultConfig returns the initial configuration.
func DefaultConfig() Config {
	return Config{
		Addr:           DefaultAddr,
		StorePath:      DefaultStorePath(),
		LogLevel:       "warn",
		HighlightColor: DefaultHighlightColor,
	}
}

// Store persists configuration to disk.
type Store interface {
	Load() (Config, error)
	Save(Config) error
}

// FileStore implements Store using a JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store under the supplied path. Parent directories are created automatically.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Load reads the configuration file or returns defaults if it does not exist.
// Missing fields fall back to defaults.
func (s *FileStore) Load() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := DefaultConfig()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to disk atomically.
func (s *FileStore) Save(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}

// ApplyEnv overlays settings from envFile (if it exists) and then from the
// process environment, which wins over the file.
func ApplyEnv(cfg Config, envFile string) (Config, error) {
	vars := map[string]string{}
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			fileVars, err := godotenv.Read(envFile)
			if err != nil {
				return cfg, fmt.Errorf("read env file: %w", err)
			}
			vars = fileVars
		}
	}
	for _, key := range []string{EnvAddr, EnvStorePath, EnvLogLevel, EnvHighlightColor} {
		if v, ok := os.LookupEnv(key); ok {
			vars[key] = v
		}
	}

	if v := vars[EnvAddr]; v != "" {
		cfg.Addr = v
	}
	if v := vars[EnvStorePath]; v != "" {
		cfg.StorePath = v
	}
	if v := vars[EnvLogLevel]; v != "" {
		cfg.LogLevel = v
	}
	if v := vars[EnvHighlightColor]; v != "" {
		cfg.HighlightColor = v
	}
	return cfg, nil
}

// Load reads the config file, applies env overrides and normalizes the result.
func Load(path, envFile string) (Config, error) {
	store, err := NewFileStore(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := store.Load()
	if err != nil {
		return Config{}, err
	}
	if cfg, err = ApplyEnv(cfg, envFile); err != nil {
		return Config{}, err
	}
	return Normalize(cfg)
}
