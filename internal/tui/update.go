package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/churnlabs/churnboard/internal/api"
)

// Update handles one message. All model mutation happens here, on the
// program's single event loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case schemaLoadedMsg:
		return m.onSchemaLoaded(msg)

	case trainDoneMsg:
		return m.onTrainDone(msg)

	case predictDoneMsg:
		return m.onPredictDone(msg)

	case batchDoneMsg:
		return m.onBatchDone(msg)

	case saveDoneMsg:
		return m.onSaveDone(msg)

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

func (m *Model) onSchemaLoaded(msg schemaLoadedMsg) (tea.Model, tea.Cmd) {
	m.loadingSchema = false
	if msg.err != nil {
		var apiErr *api.APIError
		if errors.As(msg.err, &apiErr) && apiErr.Status == 400 {
			return m, m.notify("No model yet. Press t on the Metrics tab to train one.", noticeInfo)
		}
		return m, m.notify("Schema load failed: "+msg.err.Error(), noticeError)
	}
	m.rebuildForm(msg.schema)
	return m, nil
}

func (m *Model) onTrainDone(msg trainDoneMsg) (tea.Model, tea.Cmd) {
	m.training = false
	if msg.err != nil {
		return m, m.notify("Training failed: "+msg.err.Error(), noticeError)
	}
	m.metrics = &msg.result.Metrics
	m.target = msg.result.Target

	// Training defines the schema, so refresh the form.
	m.loadingSchema = true
	notice := m.notify(fmt.Sprintf("Model trained on %q", msg.result.Target), noticeSuccess)
	return m, tea.Batch(notice, m.spinner.Tick, m.loadSchemaCmd())
}

func (m *Model) onPredictDone(msg predictDoneMsg) (tea.Model, tea.Cmd) {
	m.predicting = false
	if msg.err != nil {
		return m, m.notify("Prediction failed: "+msg.err.Error(), noticeError)
	}
	m.prediction = msg.prediction
	return m, m.notify("Prediction ready", noticeSuccess)
}

func (m *Model) onBatchDone(msg batchDoneMsg) (tea.Model, tea.Cmd) {
	m.uploading = false
	if msg.err != nil {
		m.preview = nil
		m.session.Clear()
		return m, m.notify("Batch failed: "+msg.err.Error(), noticeError)
	}
	m.installArtifact(msg.name, msg.csv)
	rows := 0
	if m.preview != nil && len(m.preview.Rows) > 0 {
		rows = len(m.preview.Rows) - 1
	}
	return m, m.notify(fmt.Sprintf("Batch predictions ready (%d rows shown)", rows), noticeSuccess)
}

func (m *Model) onSaveDone(msg saveDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.notify("Save failed: "+msg.err.Error(), noticeError)
	}
	m.savedPath = msg.path
	return m, m.notify("Saved "+msg.path, noticeSuccess)
}

func (m *Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		m.shutdown()
		return m, tea.Quit

	case "tab":
		m.tab = (m.tab + 1) % tab(len(tabNames))
		return m, nil

	case "shift+tab":
		m.tab = (m.tab + tab(len(tabNames)) - 1) % tab(len(tabNames))
		return m, nil

	case "ctrl+r":
		if m.loadingSchema {
			return m, nil
		}
		m.loadingSchema = true
		return m, tea.Batch(m.spinner.Tick, m.loadSchemaCmd())
	}

	switch m.tab {
	case tabPredict:
		return m.onPredictKey(msg)
	case tabBatch:
		return m.onBatchKey(msg)
	case tabMetrics:
		return m.onMetricsKey(msg)
	}
	return m, nil
}

func (m *Model) onPredictKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	fields := m.form.Fields()

	switch msg.String() {
	case "up":
		if m.focus > 0 {
			m.focus--
			m.syncFocus()
		}
		return m, nil

	case "down":
		if m.focus < len(fields)-1 {
			m.focus++
			m.syncFocus()
		}
		return m, nil

	case "left", "right":
		f := fields[m.focus]
		if !f.IsCategorical() || len(f.Values) == 0 {
			break
		}
		current, _ := m.form.Get(f.Name)
		i := indexOf(f.Values, current)
		if msg.String() == "right" {
			i = (i + 1) % len(f.Values)
		} else {
			i = (i + len(f.Values) - 1) % len(f.Values)
		}
		m.form.Set(f.Name, f.Values[i])
		return m, nil

	case "enter":
		if m.predicting {
			return m, nil
		}
		m.predicting = true
		m.prediction = nil
		return m, tea.Batch(m.spinner.Tick, m.predictCmd())
	}

	// Forward remaining keys to the focused numeric input and mirror its
	// text back into the form state.
	f := fields[m.focus]
	if f.IsCategorical() {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.form.Set(f.Name, strings.TrimSpace(m.inputs[m.focus].Value()))
	return m, cmd
}

func (m *Model) onBatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		path := strings.TrimSpace(m.fileInput.Value())
		if path == "" {
			return m, m.notify("Enter a CSV file path first", noticeInfo)
		}
		if m.uploading {
			return m, nil
		}
		m.uploading = true
		return m, tea.Batch(m.spinner.Tick, m.uploadCmd(path))

	case "ctrl+s":
		if m.session.Current() == nil {
			return m, m.notify("No batch result to save yet", noticeInfo)
		}
		return m, m.saveCmd()
	}

	var cmd tea.Cmd
	m.fileInput, cmd = m.fileInput.Update(msg)
	return m, cmd
}

func (m *Model) onMetricsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "t":
		if m.training {
			return m, nil
		}
		m.training = true
		return m, tea.Batch(m.spinner.Tick, m.trainCmd())
	case "q":
		m.quitting = true
		m.shutdown()
		return m, tea.Quit
	}
	return m, nil
}

func indexOf(values []string, v string) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return 0
}
