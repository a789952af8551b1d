package tui

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churnlabs/churnboard/internal/api"
	"github.com/churnlabs/churnboard/internal/demo"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	ts := httptest.NewServer(demo.NewServer("", nil).Router())
	t.Cleanup(ts.Close)

	m := New(Options{
		Client:  api.NewClient(ts.URL),
		SaveDir: t.TempDir(),
	})
	t.Cleanup(m.shutdown)
	return m
}

// run executes a command synchronously and feeds its message back into
// Update, mirroring what the bubbletea runtime does.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	deliver(t, m, cmd())
}

func deliver(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, cmd := range batch {
			if cmd != nil {
				deliver(t, m, cmd())
			}
		}
		return
	}
	updated, _ := m.Update(msg)
	require.Same(t, m, updated)
}

func trainAndLoad(t *testing.T, m *Model) {
	t.Helper()
	run(t, m, m.trainCmd())
	m.training = false
	run(t, m, m.loadSchemaCmd())
	m.loadingSchema = false
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestSchemaLoadFailureBeforeTraining(t *testing.T) {
	m := newTestModel(t)

	run(t, m, m.loadSchemaCmd())
	m.loadingSchema = false

	assert.Nil(t, m.form)
	assert.Contains(t, m.notice, "No model yet")
}

func TestTrainThenSchemaBuildsForm(t *testing.T) {
	m := newTestModel(t)

	run(t, m, m.trainCmd())

	require.NotNil(t, m.metrics)
	assert.InDelta(t, 0.8585, m.metrics.Accuracy, 1e-9)
	assert.Equal(t, "Exited", m.target)
	assert.True(t, m.loadingSchema, "training triggers a schema reload")

	run(t, m, m.loadSchemaCmd())
	m.loadingSchema = false

	require.NotNil(t, m.form)
	assert.Equal(t, len(m.form.Fields()), len(m.inputs))
	assert.Contains(t, m.notice, "Model trained")
}

func TestPredictFlow(t *testing.T) {
	m := newTestModel(t)
	trainAndLoad(t, m)

	updated, cmd := m.Update(key("enter"))
	require.Same(t, m, updated)
	assert.True(t, m.predicting)
	deliver(t, m, cmd())

	assert.False(t, m.predicting)
	require.NotNil(t, m.prediction)
	assert.GreaterOrEqual(t, m.prediction.Probability, 0.0)
	assert.LessOrEqual(t, m.prediction.Probability, 1.0)
}

func TestPredictIgnoredWhileInFlight(t *testing.T) {
	m := newTestModel(t)
	trainAndLoad(t, m)

	m.predicting = true
	_, cmd := m.Update(key("enter"))
	assert.Nil(t, cmd, "enter is a no-op while a prediction is in flight")
}

func TestCategoricalFieldCyclesValues(t *testing.T) {
	m := newTestModel(t)
	trainAndLoad(t, m)

	// Geography is the second schema field.
	deliver(t, m, key("down"))
	require.Equal(t, 1, m.focus)
	f := m.form.Fields()[1]
	require.True(t, f.IsCategorical())

	before, _ := m.form.Get(f.Name)
	deliver(t, m, key("right"))
	after, _ := m.form.Get(f.Name)
	assert.NotEqual(t, before, after)

	deliver(t, m, key("left"))
	back, _ := m.form.Get(f.Name)
	assert.Equal(t, before, back)
}

func TestNumericKeysEditFormValue(t *testing.T) {
	m := newTestModel(t)
	trainAndLoad(t, m)

	// CreditScore is the first field and starts focused with default "0".
	deliver(t, m, key("7"))
	got, _ := m.form.Get("CreditScore")
	assert.Contains(t, got, "7")
}

func TestBatchUploadInstallsArtifactAndPreview(t *testing.T) {
	m := newTestModel(t)
	trainAndLoad(t, m)

	csv := "CreditScore,Geography,Gender,Age,Tenure,Balance,NumOfProducts,HasCrCard,IsActiveMember,EstimatedSalary\n" +
		"650,France,Male,30,5,0,2,1,1,50000\n"
	path := filepath.Join(t.TempDir(), "customers.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	run(t, m, m.uploadCmd(path))
	m.uploading = false

	artifact := m.session.Current()
	require.NotNil(t, artifact)
	assert.Equal(t, "predictions_customers.csv", artifact.DownloadName())
	require.NotNil(t, m.preview)
	require.Len(t, m.preview.Rows, 2)
	assert.Equal(t, "Probability", m.preview.Rows[0][len(m.preview.Rows[0])-1])
}

func TestBatchUploadReplacesPriorArtifact(t *testing.T) {
	m := newTestModel(t)
	trainAndLoad(t, m)

	csv := "CreditScore,Geography,Gender,Age,Tenure,Balance,NumOfProducts,HasCrCard,IsActiveMember,EstimatedSalary\n" +
		"650,France,Male,30,5,0,2,1,1,50000\n"
	dir := t.TempDir()
	first := filepath.Join(dir, "a.csv")
	second := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(first, []byte(csv), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(csv), 0o644))

	run(t, m, m.uploadCmd(first))
	prior := m.session.Current()
	require.True(t, prior.Live())

	run(t, m, m.uploadCmd(second))
	assert.False(t, prior.Live(), "installing a new artifact releases the prior one")
	assert.Equal(t, "predictions_b.csv", m.session.Current().DownloadName())
}

func TestBatchSave(t *testing.T) {
	m := newTestModel(t)
	trainAndLoad(t, m)

	csv := "CreditScore,Geography,Gender,Age,Tenure,Balance,NumOfProducts,HasCrCard,IsActiveMember,EstimatedSalary\n" +
		"650,France,Male,30,5,0,2,1,1,50000\n"
	path := filepath.Join(t.TempDir(), "customers.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	run(t, m, m.uploadCmd(path))

	run(t, m, m.saveCmd())
	require.NotEmpty(t, m.savedPath)
	_, err := os.Stat(m.savedPath)
	assert.NoError(t, err)
	assert.Equal(t, "predictions_customers.csv", filepath.Base(m.savedPath))
}

func TestNoticeExpiryIgnoresStaleTimer(t *testing.T) {
	m := newTestModel(t)

	_ = m.notify("first", noticeInfo)
	staleID := m.noticeID
	_ = m.notify("second", noticeSuccess)

	deliver(t, m, noticeExpiredMsg{id: staleID})
	assert.Equal(t, "second", m.notice, "a stale timer must not clear a newer notice")

	deliver(t, m, noticeExpiredMsg{id: m.noticeID})
	assert.Empty(t, m.notice)
}

func TestNoticeTTLDefault(t *testing.T) {
	m := New(Options{Client: api.NewClient("http://localhost:1")})
	defer m.shutdown()
	assert.Equal(t, 4*time.Second, m.noticeTTL)
}

func TestTabCycling(t *testing.T) {
	m := newTestModel(t)

	deliver(t, m, key("tab"))
	assert.Equal(t, tabBatch, m.tab)
	deliver(t, m, key("tab"))
	assert.Equal(t, tabMetrics, m.tab)
	deliver(t, m, key("tab"))
	assert.Equal(t, tabPredict, m.tab)
}

func TestQuitReleasesSessionAndCancelsContext(t *testing.T) {
	m := newTestModel(t)
	trainAndLoad(t, m)

	csv := "CreditScore,Geography,Gender,Age,Tenure,Balance,NumOfProducts,HasCrCard,IsActiveMember,EstimatedSalary\n" +
		"650,France,Male,30,5,0,2,1,1,50000\n"
	path := filepath.Join(t.TempDir(), "customers.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	run(t, m, m.uploadCmd(path))

	artifact := m.session.Current()
	require.True(t, artifact.Live())

	_, cmd := m.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.False(t, artifact.Live())
	assert.Nil(t, m.session.Current())

	select {
	case <-m.ctx.Done():
	default:
		t.Fatal("context should be cancelled on quit")
	}
}

func TestViewRendersWithoutSchema(t *testing.T) {
	m := newTestModel(t)
	m.loadingSchema = false

	view := m.View()
	assert.Contains(t, view, "churnboard")
	assert.Contains(t, view, "Predict")
	assert.Contains(t, view, "No schema available")
}

func TestMetricsViewShowsHeatmap(t *testing.T) {
	m := newTestModel(t)
	trainAndLoad(t, m)
	m.tab = tabMetrics

	view := m.View()
	assert.Contains(t, view, "Accuracy")
	assert.Contains(t, view, "0.8585")
	assert.Contains(t, view, "TN")
	assert.Contains(t, view, "1543")
}
