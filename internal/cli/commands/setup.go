// Package commands implements the churnboard subcommands.
package commands

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/churnlabs/churnboard/internal/api"
	"github.com/churnlabs/churnboard/internal/cli/config"
	"github.com/churnlabs/churnboard/internal/cli/output"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Client   *api.Client
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an API client and renderer.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	client := api.NewClient(cfg.ServerURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
		api.WithLogger(logger),
	)

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Client:   client,
		Renderer: r,
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	cfg := &config.Config{
		ServerURL:      getEnvOrDefault("CHURNBOARD_SERVER_URL", config.DefaultServerURL),
		TimeoutSeconds: getEnvIntOrDefault("CHURNBOARD_TIMEOUT_SECONDS", config.DefaultTimeout),
		PreviewRows:    getEnvIntOrDefault("CHURNBOARD_PREVIEW_ROWS", config.DefaultPreviewRows),
		SaveDir:        getEnvOrDefault("CHURNBOARD_SAVE_DIR", config.DefaultSaveDir),
		OutputFormat:   getEnvOrDefault("CHURNBOARD_OUTPUT", config.DefaultOutput),
		Verbose:        os.Getenv("CHURNBOARD_VERBOSE") == "true",
	}
	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
