package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/churnlabs/churnboard/internal/cli/output"
	"github.com/churnlabs/churnboard/internal/form"
)

// NewPredictCommand creates the predict command.
func NewPredictCommand() *cobra.Command {
	var (
		sets  []string
		input string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict churn for a single customer",
		Long: `Score one customer record. Field values default to the schema's
defaults (0 for numeric fields, the first declared value for categorical
ones) and can be overridden with --set or loaded from a JSON file.`,
		Example: `  churnboard predict --set Age=42 --set Geography=Germany
  churnboard predict --input customer.json --set IsActiveMember=0`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			ctx := cmd.Context()

			schema, err := cc.Client.GetSchema(ctx)
			if err != nil {
				return err
			}

			f := form.New(schema.Fields)

			if input != "" {
				if err := applyInputFile(f, input); err != nil {
					return err
				}
			}
			for _, s := range sets {
				name, value, ok := strings.Cut(s, "=")
				if !ok {
					return fmt.Errorf("invalid --set %q, expected name=value", s)
				}
				if !f.Set(name, value) {
					return fmt.Errorf("unknown field %q, run 'churnboard schema' to list fields", name)
				}
			}

			pred, err := cc.Client.Predict(ctx, f.Payload())
			if err != nil {
				return err
			}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				enc := json.NewEncoder(r.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(pred)
			}

			styles := r.Styles()
			label := styles.Success.Render("stays")
			if pred.Prediction >= 0.5 {
				label = styles.Error.Render("churns")
			}
			r.Printf("Prediction:  %s\n", label)
			r.Printf("Probability: %s\n", styles.Bold.Render(fmt.Sprintf("%.2f%%", pred.Probability*100)))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Override a field as name=value (repeatable)")
	cmd.Flags().StringVar(&input, "input", "", "JSON file with field values")
	return cmd
}

// applyInputFile loads a flat JSON object and applies each entry to the form.
func applyInputFile(f *form.State, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("invalid input file %s: %w", path, err)
	}

	for name, value := range record {
		if !f.Set(name, fmt.Sprintf("%v", value)) {
			return fmt.Errorf("input file %s has unknown field %q", path, name)
		}
	}
	return nil
}
