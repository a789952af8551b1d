package commands

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/churnlabs/churnboard/internal/api"
	"github.com/churnlabs/churnboard/internal/tui"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Long: `Start the full-screen terminal dashboard with tabs for single-record
prediction, batch CSV scoring, and model metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()

			// The dashboard manages request lifetimes itself, so the client
			// gets no global timeout; training can take a while.
			client := api.NewClient(cfg.ServerURL, api.WithHTTPClient(&http.Client{}))

			return tui.Run(tui.Options{
				Client:      client,
				PreviewRows: cfg.PreviewRows,
				SaveDir:     cfg.SaveDir,
			})
		},
	}
}
