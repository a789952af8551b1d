package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		want Mode
	}{
		{"explicit text", ModeText, ModeText},
		{"explicit json", ModeJSON, ModeJSON},
		{"explicit markdown", ModeMarkdown, ModeMarkdown},
		{"auto on a buffer resolves to markdown", ModeAuto, ModeMarkdown},
		{"unknown mode behaves like auto", Mode("bogus"), ModeMarkdown},
		{"empty mode behaves like auto", Mode(""), ModeMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(new(bytes.Buffer), new(bytes.Buffer), tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRendererWrites(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Println("hello")
	r.Printf("%d rows\n", 3)
	r.Errorf("warning: %s\n", "oops")

	assert.Equal(t, "hello\n3 rows\n", out.String())
	assert.Equal(t, "warning: oops\n", errOut.String())
}

func TestStylesPlainWhenNotColored(t *testing.T) {
	styles := NewStyles(false)
	assert.Equal(t, "plain", styles.Header1.Render("plain"))
	assert.Equal(t, "plain", styles.Error.Render("plain"))
}
