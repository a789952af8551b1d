package batch

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want [][]string
	}{
		{
			name: "basic",
			text: "a,b\n1,2\n3,4",
			want: [][]string{{"a", "b"}, {"1", "2"}, {"3", "4"}},
		},
		{
			name: "crlf line endings",
			text: "a,b\r\n1,2\r\n",
			want: [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name: "trailing newline ignored",
			text: "a,b\n1,2\n",
			want: [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "single row",
			text: "only",
			want: [][]string{{"only"}},
		},
		{
			name: "quotes are not interpreted",
			text: `"a,b",c`,
			want: [][]string{{`"a`, `b"`, "c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text))
		})
	}
}

func TestNewPreviewBounds(t *testing.T) {
	makeRows := func(n int) [][]string {
		rows := make([][]string, n)
		for i := range rows {
			rows[i] = []string{fmt.Sprintf("row%d", i)}
		}
		return rows
	}

	tests := []struct {
		name          string
		rows          int
		wantLen       int
		wantTruncated bool
	}{
		{"under limit", 3, 3, false},
		{"exactly at limit", 15, 15, false},
		{"one over limit", 16, 15, true},
		{"far over limit", 100, 15, true},
		{"empty", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPreview(makeRows(tt.rows), DefaultPreviewRows)
			assert.Len(t, p.Rows, tt.wantLen)
			assert.Equal(t, tt.wantTruncated, p.Truncated)
		})
	}
}

func TestNewPreviewCustomLimit(t *testing.T) {
	rows := Parse(strings.Repeat("x\n", 10))
	require.Len(t, rows, 10)

	p := NewPreview(rows, 5)
	assert.Len(t, p.Rows, 5)
	assert.True(t, p.Truncated)

	p = NewPreview(rows, 0)
	assert.Len(t, p.Rows, 10, "non-positive limit falls back to the default")
	assert.False(t, p.Truncated)
}
