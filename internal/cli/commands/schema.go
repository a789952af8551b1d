package commands

import (
	"encoding/json"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/churnlabs/churnboard/internal/api"
	"github.com/churnlabs/churnboard/internal/cli/output"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the expected input fields",
		Long: `Fetch the trained model's input schema: field names, types, and the
allowed values of categorical fields.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)

			schema, err := cc.Client.GetSchema(cmd.Context())
			if err != nil {
				return err
			}
			return renderSchema(cc.Renderer, schema)
		},
	}
}

func renderSchema(r *output.Renderer, schema *api.Schema) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(schema)

	case output.ModeMarkdown:
		r.Printf("## Input schema\n\n")
		if schema.Target != "" {
			r.Printf("Target: `%s`\n\n", schema.Target)
		}
		r.Println("| Field | Type | Values |")
		r.Println("| --- | --- | --- |")
		for _, f := range schema.Fields {
			r.Printf("| %s | %s | %s |\n", f.Name, f.Type, strings.Join(f.Values, ", "))
		}
		return nil

	default:
		styles := r.Styles()
		r.Println(styles.Header1.Render("Input schema"))
		if schema.Target != "" {
			r.Println(styles.Muted.Render("target: " + schema.Target))
		}

		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Field", "Type", "Values"})
		for _, f := range schema.Fields {
			t.AppendRow(table.Row{f.Name, f.Type, strings.Join(f.Values, ", ")})
		}
		t.Render()
		return nil
	}
}
