package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/revimpact/internal/tui/tuistyles"
)

const (
	chartPoint  = '●'
	chartLine   = '·'
	chartZero   = '┈'
	chartMarker = '│'
)

// SweepChart plots one series, net revenue against a swept parameter,
// with the zero line and the current parameter value marked.
type SweepChart struct {
	Title   string
	X       []float64
	Y       []float64
	Marker  *float64
	Width   int
	Height  int
	XFormat ValueFormatter
	YFormat ValueFormatter
	Color   lipgloss.Color
}

// NewSweepChart creates a chart over paired x and y values
func NewSweepChart(title string, x, y []float64) *SweepChart {
	return &SweepChart{
		Title:   title,
		X:       x,
		Y:       y,
		Width:   60,
		Height:  12,
		XFormat: func(v float64) string { return formatFloat(v, 2) },
		YFormat: tuistyles.FormatBillions,
		Color:   tuistyles.ColorChartLine1,
	}
}

// WithSize sets the chart dimensions, axis labels included
func (c *SweepChart) WithSize(width, height int) *SweepChart {
	c.Width = width
	c.Height = height
	return c
}

// WithMarker draws a vertical line at x
func (c *SweepChart) WithMarker(x float64) *SweepChart {
	c.Marker = &x
	return c
}

// WithFormatters sets the axis label formatters
func (c *SweepChart) WithFormatters(x, y ValueFormatter) *SweepChart {
	c.XFormat = x
	c.YFormat = y
	return c
}

const yAxisWidth = 10

// Render returns the chart
func (c *SweepChart) Render() string {
	if len(c.Y) < 2 || len(c.X) != len(c.Y) {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder
	if c.Title != "" {
		content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		content.WriteString("\n")
	}

	grid, lo, hi := c.Plot()
	chartWidth := len(grid[0])
	axisStyle := lipgloss.NewStyle().
		Foreground(tuistyles.ColorMuted).
		Width(yAxisWidth).
		Align(lipgloss.Right)
	seriesStyle := lipgloss.NewStyle().Foreground(c.Color)

	for i, row := range grid {
		label := ""
		switch i {
		case 0:
			label = c.YFormat(hi)
		case len(grid) - 1:
			label = c.YFormat(lo)
		}
		content.WriteString(axisStyle.Render(label))
		content.WriteString(" │")
		content.WriteString(seriesStyle.Render(string(row)))
		content.WriteString("\n")
	}

	content.WriteString(strings.Repeat(" ", yAxisWidth))
	content.WriteString(" └")
	content.WriteString(strings.Repeat("─", chartWidth))
	content.WriteString("\n")
	content.WriteString(c.renderXLabels(chartWidth))

	return content.String()
}

// Plot lays the series out on a character grid and returns it with the y range used
func (c *SweepChart) Plot() ([][]rune, float64, float64) {
	width := c.Width - yAxisWidth - 2
	if width < 2 {
		width = 2
	}
	height := c.Height
	if height < 2 {
		height = 2
	}

	lo, hi := 0.0, 0.0
	for _, v := range c.Y {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.1
	lo -= pad
	hi += pad

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	row := func(v float64) int {
		return height - 1 - int(math.Round((v-lo)/(hi-lo)*float64(height-1)))
	}
	col := func(x float64) int {
		x0, x1 := c.X[0], c.X[len(c.X)-1]
		if x1 == x0 {
			return 0
		}
		return int(math.Round((x - x0) / (x1 - x0) * float64(width-1)))
	}

	zero := row(0)
	for j := range grid[zero] {
		grid[zero][j] = chartZero
	}

	if c.Marker != nil {
		if m := col(*c.Marker); m >= 0 && m < width {
			for i := range grid {
				grid[i][m] = chartMarker
			}
		}
	}

	for i := 1; i < len(c.Y); i++ {
		drawLine(grid, col(c.X[i-1]), row(c.Y[i-1]), col(c.X[i]), row(c.Y[i]), chartLine)
	}
	for i := range c.Y {
		x, y := col(c.X[i]), row(c.Y[i])
		if x >= 0 && x < width && y >= 0 && y < height {
			grid[y][x] = chartPoint
		}
	}

	return grid, lo, hi
}

// drawLine connects two cells using Bresenham's algorithm without overwriting points
func drawLine(grid [][]rune, x0, y0, x1, y1 int, char rune) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	x, y := x0, y0
	for {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) && grid[y][x] != chartPoint {
			grid[y][x] = char
		}
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// renderXLabels prints the first, middle and last x values under the axis
func (c *SweepChart) renderXLabels(chartWidth int) string {
	first := c.XFormat(c.X[0])
	mid := c.XFormat(c.X[len(c.X)/2])
	last := c.XFormat(c.X[len(c.X)-1])

	line := []rune(strings.Repeat(" ", chartWidth+2))
	place := func(s string, at int) {
		r := []rune(s)
		if at+len(r) > len(line) {
			at = len(line) - len(r)
		}
		if at < 0 {
			at = 0
		}
		copy(line[at:], r)
	}
	place(first, 2)
	place(mid, 2+chartWidth/2-len([]rune(mid))/2)
	place(last, len(line)-len([]rune(last)))

	return strings.Repeat(" ", yAxisWidth) + lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(strings.TrimRight(string(line), " "))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
