// Package config provides configuration management for the churnboard CLI.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	ServerURL      string `koanf:"server_url"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
	PreviewRows    int    `koanf:"preview_rows"`
	SaveDir        string `koanf:"save_dir"`
	OutputFormat   string `koanf:"output"`
	Verbose        bool   `koanf:"verbose"`
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default configuration values.
const (
	DefaultServerURL   = "http://localhost:8000"
	DefaultTimeout     = 30
	DefaultPreviewRows = 15
	DefaultSaveDir     = "."
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
