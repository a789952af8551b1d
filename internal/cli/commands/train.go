package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/churnlabs/churnboard/internal/api"
	"github.com/churnlabs/churnboard/internal/cli/output"
	"github.com/churnlabs/churnboard/internal/heatmap"
)

// NewTrainCommand creates the train command.
func NewTrainCommand() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the churn model",
		Long: `Trigger model training on the service and print the resulting
evaluation metrics, including a confusion matrix heatmap.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)

			result, err := cc.Client.Train(cmd.Context(), target)
			if err != nil {
				return err
			}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				enc := json.NewEncoder(r.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			styles := r.Styles()
			r.Println(styles.Success.Render(result.Message))
			if result.Target != "" {
				r.Println(styles.Muted.Render("target: " + result.Target))
			}
			r.Println()
			renderMetrics(r, &result.Metrics)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Target column to train on (auto-detected when empty)")
	return cmd
}

func renderMetrics(r *output.Renderer, m *api.Metrics) {
	rows := []struct {
		name  string
		value float64
	}{
		{"Accuracy", m.Accuracy},
		{"Precision", m.Precision},
		{"Recall", m.Recall},
		{"F1 score", m.F1Score},
		{"ROC AUC", m.ROCAUC},
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println("| Metric | Value |")
		r.Println("| --- | --- |")
		for _, row := range rows {
			r.Printf("| %s | %.4f |\n", row.name, row.value)
		}
		if cm := m.ConfusionMatrix; cm != nil {
			r.Println()
			r.Println("| | Pred 0 | Pred 1 |")
			r.Println("| --- | --- | --- |")
			r.Printf("| Actual 0 | %d | %d |\n", cm.TrueNegatives, cm.FalsePositives)
			r.Printf("| Actual 1 | %d | %d |\n", cm.FalseNegatives, cm.TruePositives)
		}
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Metric", "Value"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.name, fmt.Sprintf("%.4f", row.value)})
	}
	t.Render()

	if m.ConfusionMatrix != nil {
		r.Println()
		r.Println(heatmap.Render(*m.ConfusionMatrix))
	}
}
