package tui

import (
	"bytes"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/churnlabs/churnboard/internal/api"
	"github.com/churnlabs/churnboard/internal/batch"
)

// Messages delivered back to Update by async commands.
type (
	schemaLoadedMsg struct {
		schema *api.Schema
		err    error
	}

	trainDoneMsg struct {
		result *api.TrainResult
		err    error
	}

	predictDoneMsg struct {
		prediction *api.Prediction
		err        error
	}

	batchDoneMsg struct {
		name string
		csv  string
		err  error
	}

	saveDoneMsg struct {
		path string
		err  error
	}

	noticeExpiredMsg struct {
		id int
	}
)

func (m *Model) loadSchemaCmd() tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		schema, err := client.GetSchema(ctx)
		return schemaLoadedMsg{schema: schema, err: err}
	}
}

func (m *Model) trainCmd() tea.Cmd {
	ctx, client, target := m.ctx, m.client, m.target
	return func() tea.Msg {
		result, err := client.Train(ctx, target)
		return trainDoneMsg{result: result, err: err}
	}
}

func (m *Model) predictCmd() tea.Cmd {
	ctx, client := m.ctx, m.client
	payload := m.form.Payload()
	return func() tea.Msg {
		pred, err := client.Predict(ctx, payload)
		return predictDoneMsg{prediction: pred, err: err}
	}
}

func (m *Model) uploadCmd(path string) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		name := filepath.Base(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return batchDoneMsg{name: name, err: err}
		}
		csv, err := client.PredictBatch(ctx, name, bytes.NewReader(data))
		return batchDoneMsg{name: name, csv: csv, err: err}
	}
}

func (m *Model) saveCmd() tea.Cmd {
	artifact := m.session.Current()
	dir := m.saveDir
	return func() tea.Msg {
		if artifact == nil {
			return saveDoneMsg{err: os.ErrNotExist}
		}
		path, err := artifact.SaveTo(dir)
		return saveDoneMsg{path: path, err: err}
	}
}

// installArtifact records a completed batch result and builds its preview.
func (m *Model) installArtifact(name, csv string) {
	m.session.Install(batch.NewArtifact(name, []byte(csv)))
	preview := batch.NewPreview(batch.Parse(csv), m.previewRows)
	m.preview = &preview
	m.savedPath = ""
}
