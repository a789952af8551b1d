package commands

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/churnlabs/churnboard/internal/demo"
)

// NewDemoCommand creates the demo command.
func NewDemoCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a local stub prediction service",
		Long: `Start an in-process stub of the churn prediction service for trying
the dashboard without a real backend. Stops on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return demo.NewServer(addr, logger).Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8000", "Address to listen on")
	return cmd
}
