// Package output provides mode-aware rendering for CLI commands.
//
// Output adapts to the environment: styled text on a terminal, markdown when
// piped, and machine-readable JSON on request.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects the output format.
type Mode string

// Supported output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes command output in the effective mode.
type Renderer struct {
	w      io.Writer
	errW   io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer for the given writers and mode. An empty or
// unknown mode behaves like ModeAuto.
func NewRenderer(w, errW io.Writer, mode Mode) *Renderer {
	switch mode {
	case ModeText, ModeMarkdown, ModeJSON:
	default:
		mode = ModeAuto
	}

	r := &Renderer{w: w, errW: errW, mode: mode}
	r.styles = NewStyles(r.EffectiveMode() == ModeText && colorCapable(w))
	return r
}

// EffectiveMode resolves ModeAuto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if isTerminal(r.w) {
		return ModeText
	}
	return ModeMarkdown
}

// Styles returns the lipgloss style set for the renderer.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Writer returns the output writer, for encoders that write directly.
func (r *Renderer) Writer() io.Writer {
	return r.w
}

// ErrWriter returns the error writer.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errW
}

// Println writes a line to the output writer.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.w, a...)
}

// Printf writes formatted output to the output writer.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, format, a...)
}

// Errorf writes formatted output to the error writer.
func (r *Renderer) Errorf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.errW, format, a...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func colorCapable(w io.Writer) bool {
	if !isTerminal(w) {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}
