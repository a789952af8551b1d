package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/churnlabs/churnboard/internal/cli/output"
)

// NewHealthCommand creates the health command.
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service liveness",
		Long:  `Ping the prediction service and report whether a model is loaded.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)

			status, err := cc.Client.Health(cmd.Context())
			if err != nil {
				return err
			}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				enc := json.NewEncoder(r.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			}

			styles := r.Styles()
			r.Printf("Server:  %s\n", cc.Client.BaseURL())
			r.Printf("Status:  %s\n", styles.Success.Render(status.Status))
			if status.ModelLoaded {
				r.Printf("Model:   %s\n", styles.Success.Render("loaded"))
			} else {
				r.Printf("Model:   %s\n", styles.Warning.Render("not trained"))
			}
			return nil
		},
	}
}
