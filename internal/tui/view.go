package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/churnlabs/churnboard/internal/heatmap"
)

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 2).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	inactiveTabStyle = lipgloss.NewStyle().Padding(0, 2).Faint(true)
	focusMarker      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Render("> ")
)

// View renders the dashboard.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Header1.Render("churnboard"))
	b.WriteString("  ")
	b.WriteString(m.styles.Muted.Render(m.client.BaseURL()))
	b.WriteString("\n\n")
	b.WriteString(m.tabBar())
	b.WriteString("\n\n")

	switch m.tab {
	case tabPredict:
		b.WriteString(m.predictView())
	case tabBatch:
		b.WriteString(m.batchView())
	case tabMetrics:
		b.WriteString(m.metricsView())
	}

	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(m.noticeView())
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Muted.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) tabBar() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == m.tab {
			parts[i] = activeTabStyle.Render(name)
		} else {
			parts[i] = inactiveTabStyle.Render(name)
		}
	}
	return strings.Join(parts, " ")
}

func (m *Model) predictView() string {
	if m.loadingSchema {
		return m.spinner.View() + " loading schema..."
	}
	if m.form == nil {
		return m.styles.Muted.Render("No schema available. Train a model on the Metrics tab.")
	}

	var b strings.Builder
	for i, f := range m.form.Fields() {
		marker := "  "
		if i == m.focus {
			marker = focusMarker
		}
		label := fmt.Sprintf("%-18s", f.Name)

		if f.IsCategorical() {
			value, _ := m.form.Get(f.Name)
			if i == m.focus {
				value = "< " + value + " >"
			}
			b.WriteString(marker + m.styles.Bold.Render(label) + value + "\n")
			continue
		}
		b.WriteString(marker + m.styles.Bold.Render(label) + m.inputs[i].View() + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.predicting:
		b.WriteString(m.spinner.View() + " predicting...")
	case m.prediction != nil:
		label := "stays"
		style := m.styles.Success
		if m.prediction.Prediction >= 0.5 {
			label = "churns"
			style = m.styles.Error
		}
		b.WriteString(fmt.Sprintf("Prediction: %s (%s probability)",
			style.Render(label),
			m.styles.Bold.Render(fmt.Sprintf("%.2f%%", m.prediction.Probability*100))))
	default:
		b.WriteString(m.styles.Muted.Render("Press enter to predict."))
	}
	return b.String()
}

func (m *Model) batchView() string {
	var b strings.Builder
	b.WriteString(m.fileInput.View())
	b.WriteString("\n\n")

	switch {
	case m.uploading:
		b.WriteString(m.spinner.View() + " scoring batch...")
	case m.preview != nil:
		b.WriteString(m.previewTable())
		if artifact := m.session.Current(); artifact != nil {
			b.WriteString("\n")
			b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%s (%d bytes)", artifact.DownloadName(), artifact.Size())))
			if m.savedPath != "" {
				b.WriteString(m.styles.Success.Render("  saved: " + m.savedPath))
			}
		}
	default:
		b.WriteString(m.styles.Muted.Render("Enter a CSV path and press enter to score it."))
	}
	return b.String()
}

// previewTable renders the bounded preview with the first row as a header.
func (m *Model) previewTable() string {
	rows := m.preview.Rows
	if len(rows) == 0 {
		return m.styles.Muted.Render("Empty result.")
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for r, row := range rows {
		line := make([]string, 0, len(row))
		for i, cell := range row {
			w := len(cell)
			if i < len(widths) {
				w = widths[i]
			}
			line = append(line, fmt.Sprintf("%-*s", w, cell))
		}
		text := strings.Join(line, "  ")
		if r == 0 {
			text = m.styles.Header2.Render(text)
		}
		b.WriteString(text + "\n")
	}
	if m.preview.Truncated {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("... showing first %d rows", len(rows))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) metricsView() string {
	if m.training {
		return m.spinner.View() + " training model..."
	}
	if m.metrics == nil {
		return m.styles.Muted.Render("No metrics yet. Press t to train.")
	}

	var b strings.Builder
	b.WriteString(m.styles.Header2.Render("Model performance"))
	if m.target != "" {
		b.WriteString(m.styles.Muted.Render("  target: " + m.target))
	}
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Accuracy", fmt.Sprintf("%.4f", m.metrics.Accuracy)},
		{"Precision", fmt.Sprintf("%.4f", m.metrics.Precision)},
		{"Recall", fmt.Sprintf("%.4f", m.metrics.Recall)},
		{"F1 score", fmt.Sprintf("%.4f", m.metrics.F1Score)},
		{"ROC AUC", fmt.Sprintf("%.4f", m.metrics.ROCAUC)},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", row[0], m.styles.Bold.Render(row[1])))
	}

	if m.metrics.ConfusionMatrix != nil {
		b.WriteString("\n")
		b.WriteString(heatmap.Render(*m.metrics.ConfusionMatrix))
	}
	return b.String()
}

func (m *Model) noticeView() string {
	switch m.noticeLevel {
	case noticeSuccess:
		return m.styles.Success.Render(m.notice)
	case noticeError:
		return m.styles.Error.Render(m.notice)
	default:
		return m.styles.Info.Render(m.notice)
	}
}

func (m *Model) helpLine() string {
	common := "tab: switch  ctrl+r: reload schema  esc: quit"
	switch m.tab {
	case tabPredict:
		return "up/down: field  left/right: value  enter: predict  " + common
	case tabBatch:
		return "enter: upload  ctrl+s: save result  " + common
	default:
		return "t: train  " + common
	}
}
