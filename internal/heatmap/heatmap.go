// Package heatmap renders a binary classifier's confusion matrix as a 2x2
// colored grid.
package heatmap

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/churnlabs/churnboard/internal/api"
)

// Cell is one quadrant of the heatmap.
type Cell struct {
	Label     string
	Value     int
	Intensity int
}

// Color returns the cell's fill color: rgb(intensity, intensity, 255), so
// higher relative counts render as deeper blue.
func (c Cell) Color() string {
	return fmt.Sprintf("#%02x%02xff", c.Intensity, c.Intensity)
}

// MaxVal returns the largest cell count, substituting 1 when all cells are
// zero so intensity computation never divides by zero.
func MaxVal(m api.ConfusionMatrix) int {
	maxVal := m.TrueNegatives
	for _, v := range []int{m.FalsePositives, m.FalseNegatives, m.TruePositives} {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		return 1
	}
	return maxVal
}

// Intensity maps a cell count onto the 75..255 channel range:
// floor(255 - v/maxVal*180). An all-zero matrix yields 255 everywhere,
// a uniform lightest blue.
func Intensity(v, maxVal int) int {
	return int(255 - float64(v)/float64(maxVal)*180)
}

// Grid arranges the matrix row-major as [[TN, FP], [FN, TP]] with short
// labels and precomputed intensities.
func Grid(m api.ConfusionMatrix) [2][2]Cell {
	maxVal := MaxVal(m)
	cell := func(label string, v int) Cell {
		return Cell{Label: label, Value: v, Intensity: Intensity(v, maxVal)}
	}
	return [2][2]Cell{
		{cell("TN", m.TrueNegatives), cell("FP", m.FalsePositives)},
		{cell("FN", m.FalseNegatives), cell("TP", m.TruePositives)},
	}
}

const (
	cellWidth  = 14
	cellHeight = 3
)

// Render draws the full grid as a fixed-size block of bordered, colored
// cells with centered label and count. The output is rebuilt from scratch on
// every call; callers re-render whenever the metrics change.
func Render(m api.ConfusionMatrix) string {
	grid := Grid(m)

	rows := make([]string, 0, 2)
	for r := 0; r < 2; r++ {
		cells := make([]string, 0, 2)
		for c := 0; c < 2; c++ {
			cells = append(cells, renderCell(grid[r][c]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	axes := lipgloss.NewStyle().Faint(true).
		Render("rows: actual negative/positive, cols: predicted negative/positive")
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		axes,
	)
}

func renderCell(c Cell) string {
	fg := lipgloss.Color("#1a1a1a")
	if c.Intensity < 150 {
		fg = lipgloss.Color("#ffffff")
	}

	style := lipgloss.NewStyle().
		Width(cellWidth).
		Height(cellHeight).
		Align(lipgloss.Center, lipgloss.Center).
		Border(lipgloss.NormalBorder()).
		Background(lipgloss.Color(c.Color())).
		Foreground(fg)

	return style.Render(fmt.Sprintf("%s\n%d", c.Label, c.Value))
}
