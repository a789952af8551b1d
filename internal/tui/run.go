package tui

import tea "github.com/charmbracelet/bubbletea"

// Run starts the dashboard and blocks until the user quits.
func Run(opts Options) error {
	model := New(opts)
	defer model.shutdown()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
