package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/churnlabs/churnboard/internal/batch"
	"github.com/churnlabs/churnboard/internal/cli/output"
)

// NewBatchCommand creates the batch command.
func NewBatchCommand() *cobra.Command {
	var (
		outDir string
		rows   int
	)

	cmd := &cobra.Command{
		Use:   "batch <file.csv>",
		Short: "Score a CSV of customers",
		Long: `Upload a CSV file for batch scoring. The service returns the file with
Prediction and Probability columns appended; the result is saved next to a
bounded preview of the first rows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			path := args[0]

			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer func() { _ = file.Close() }()

			csv, err := cc.Client.PredictBatch(cmd.Context(), filepath.Base(path), file)
			if err != nil {
				return err
			}

			session := &batch.Session{}
			defer session.Close()
			session.Install(batch.NewArtifact(filepath.Base(path), []byte(csv)))
			artifact := session.Current()

			if outDir == "" {
				outDir = cc.Cfg.SaveDir
			}
			savedPath, err := artifact.SaveTo(outDir)
			if err != nil {
				return err
			}

			previewRows := rows
			if previewRows <= 0 {
				previewRows = cc.Cfg.PreviewRows
			}
			preview := batch.NewPreview(batch.Parse(csv), previewRows)

			return renderBatchResult(cc.Renderer, preview, artifact, savedPath)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Directory to save the result in (default: save_dir)")
	cmd.Flags().IntVar(&rows, "rows", 0, "Preview row limit including the header (default: preview_rows)")
	return cmd
}

func renderBatchResult(r *output.Renderer, preview batch.Preview, artifact *batch.Artifact, savedPath string) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"id":            artifact.ID().String(),
			"download_name": artifact.DownloadName(),
			"size_bytes":    artifact.Size(),
			"saved_path":    savedPath,
			"preview_rows":  len(preview.Rows),
			"truncated":     preview.Truncated,
		})

	case output.ModeMarkdown:
		if len(preview.Rows) > 0 {
			r.Printf("| %s |\n", strings.Join(preview.Rows[0], " | "))
			seps := make([]string, len(preview.Rows[0]))
			for i := range seps {
				seps[i] = "---"
			}
			r.Printf("| %s |\n", strings.Join(seps, " | "))
			for _, row := range preview.Rows[1:] {
				r.Printf("| %s |\n", strings.Join(row, " | "))
			}
		}
		if preview.Truncated {
			r.Printf("\nShowing first %d rows.\n", len(preview.Rows))
		}
		r.Printf("\nSaved to `%s`\n", savedPath)
		return nil

	default:
		styles := r.Styles()
		if len(preview.Rows) > 0 {
			t := table.NewWriter()
			t.SetOutputMirror(r.Writer())
			t.SetStyle(table.StyleLight)
			header := make(table.Row, len(preview.Rows[0]))
			for i, cell := range preview.Rows[0] {
				header[i] = cell
			}
			t.AppendHeader(header)
			for _, row := range preview.Rows[1:] {
				tr := make(table.Row, len(row))
				for i, cell := range row {
					tr[i] = cell
				}
				t.AppendRow(tr)
			}
			t.Render()
		}
		if preview.Truncated {
			r.Println(styles.Muted.Render(fmt.Sprintf("... showing first %d rows", len(preview.Rows))))
		}
		r.Println(styles.Success.Render("Saved to " + savedPath))
		return nil
	}
}
