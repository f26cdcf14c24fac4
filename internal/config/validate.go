package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Normalize fills blanks with defaults and rejects invalid values.
func Normalize(cfg Config) (Config, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return cfg, fmt.Errorf("addr must be host:port: %w", err)
	}
	if strings.TrimSpace(cfg.StorePath) == "" {
		cfg.StorePath = DefaultStorePath()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.HighlightColor == "" {
		cfg.HighlightColor = DefaultHighlightColor
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
