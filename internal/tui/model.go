// Package tui implements the interactive dashboard: a tabbed terminal UI for
// training, single-record prediction, and batch CSV scoring.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/churnlabs/churnboard/internal/api"
	"github.com/churnlabs/churnboard/internal/batch"
	"github.com/churnlabs/churnboard/internal/form"
	"github.com/churnlabs/churnboard/internal/cli/output"
)

// DefaultNoticeTTL is how long a notification stays visible.
const DefaultNoticeTTL = 4 * time.Second

type tab int

const (
	tabPredict tab = iota
	tabBatch
	tabMetrics
)

var tabNames = []string{"Predict", "Batch", "Metrics"}

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeSuccess
	noticeError
)

// Options configures the dashboard.
type Options struct {
	Client      *api.Client
	PreviewRows int
	SaveDir     string
	NoticeTTL   time.Duration
}

// Model is the dashboard's bubbletea model. All state transitions happen in
// Update; commands run API calls off the event loop and report back as
// messages.
type Model struct {
	client      *api.Client
	previewRows int
	saveDir     string
	noticeTTL   time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	styles  *output.Styles
	spinner spinner.Model
	width   int

	tab tab

	// Predict tab.
	loadingSchema bool
	schema        *api.Schema
	form          *form.State
	inputs        []textinput.Model
	focus         int
	predicting    bool
	prediction    *api.Prediction

	// Metrics tab.
	training bool
	metrics  *api.Metrics
	target   string

	// Batch tab.
	fileInput textinput.Model
	uploading bool
	preview   *batch.Preview
	session   *batch.Session
	savedPath string

	// Transient notification. The id guards against a stale expiry timer
	// clearing a newer notice.
	notice      string
	noticeLevel noticeLevel
	noticeID    int

	quitting bool
}

// New creates a dashboard model.
func New(opts Options) *Model {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = batch.DefaultPreviewRows
	}
	if opts.SaveDir == "" {
		opts.SaveDir = "."
	}
	if opts.NoticeTTL <= 0 {
		opts.NoticeTTL = DefaultNoticeTTL
	}

	ctx, cancel := context.WithCancel(context.Background())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	fi := textinput.New()
	fi.Placeholder = "path/to/customers.csv"
	fi.Prompt = "File: "
	fi.Focus()

	return &Model{
		client:      opts.Client,
		previewRows: opts.PreviewRows,
		saveDir:     opts.SaveDir,
		noticeTTL:   opts.NoticeTTL,
		ctx:         ctx,
		cancel:      cancel,
		styles:      output.NewStyles(true),
		spinner:     sp,
		fileInput:   fi,
		session:     &batch.Session{},
	}
}

// Init starts the spinner and kicks off the initial schema load.
func (m *Model) Init() tea.Cmd {
	m.loadingSchema = true
	return tea.Batch(m.spinner.Tick, m.loadSchemaCmd())
}

// busy reports whether any request is in flight.
func (m *Model) busy() bool {
	return m.loadingSchema || m.predicting || m.training || m.uploading
}

// shutdown cancels outstanding requests and releases the batch artifact.
func (m *Model) shutdown() {
	m.cancel()
	m.session.Close()
}

// rebuildForm rebuilds the form state and its text inputs from a schema.
// Numeric fields get a text input; categorical fields cycle through their
// declared values instead.
func (m *Model) rebuildForm(schema *api.Schema) {
	m.schema = schema
	m.form = form.New(schema.Fields)
	m.inputs = make([]textinput.Model, len(schema.Fields))
	for i, f := range schema.Fields {
		if f.IsCategorical() {
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 32
		ti.Width = 16
		value, _ := m.form.Get(f.Name)
		ti.SetValue(value)
		m.inputs[i] = ti
	}
	m.focus = 0
	m.syncFocus()
}

// syncFocus focuses the text input under the cursor and blurs the rest.
func (m *Model) syncFocus() {
	if m.form == nil {
		return
	}
	for i, f := range m.form.Fields() {
		if f.IsCategorical() {
			continue
		}
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// notify replaces the current notification and schedules its expiry.
func (m *Model) notify(text string, level noticeLevel) tea.Cmd {
	m.noticeID++
	id := m.noticeID
	m.notice = text
	m.noticeLevel = level
	return tea.Tick(m.noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}
