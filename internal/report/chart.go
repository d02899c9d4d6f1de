// Package report renders calculation results for the terminal.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	defaultChartHeight = 8
	minChartWidth      = 10
	axisSeparator      = " │ "
	chartColor         = "\x1b[36m"
	colorReset         = "\x1b[0m"
	sparkChars         = " .:-=+*#%@"
)

// Sparkline renders stitch counts as a single line of ASCII levels.
func Sparkline(counts []int) string {
	if len(counts) == 0 {
		return ""
	}
	lo, hi := minMax(counts)
	if lo == hi {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(counts))
	}
	var b strings.Builder
	for _, c := range counts {
		pos := float64(c-lo) / float64(hi-lo)
		b.WriteByte(sparkChars[int(math.Round(pos*float64(len(sparkChars)-1)))])
	}
	return b.String()
}

// PlotStitchCounts draws stitch counts per row as a braille line chart.
// width is the number of plot columns, 0 fits the terminal.
func PlotStitchCounts(w io.Writer, title string, counts []int, width, height int, useColor bool) error {
	if len(counts) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	lo, hi := minMax(counts)
	axisWidth := len(strconv.Itoa(hi))
	if width <= 0 {
		width = ChartWidthFor(TerminalWidth(), axisWidth)
	}
	if width < minChartWidth {
		width = minChartWidth
	}

	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	span := float64(hi - lo)
	dotRows := height * 4
	prevX, prevY := -1, -1
	for x, v := range resample(counts, width) {
		y := dotRows / 2
		if span > 0 {
			y = int(math.Round((1 - (v-float64(lo))/span) * float64(dotRows-1)))
		}
		px := x * 2
		if prevX < 0 {
			setBrailleDot(cells, px, y)
		} else {
			drawLine(prevX, prevY, px, y, func(dx, dy int) { setBrailleDot(cells, dx, dy) })
		}
		prevX, prevY = px, y
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for y, line := range cells {
		label := ""
		switch y {
		case 0:
			label = strconv.Itoa(hi)
		case height - 1:
			label = strconv.Itoa(lo)
		}
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", axisWidth, label, axisSeparator)
		if useColor {
			row.WriteString(chartColor)
		}
		for _, mask := range line {
			row.WriteRune(rune(0x2800 + int(mask)))
		}
		if useColor {
			row.WriteString(colorReset)
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%*s   rows 1-%d\n", axisWidth, "", len(counts))
	return err
}

// ChartWidthFor computes the plot width that fits beside an axis of the
// given label width.
func ChartWidthFor(totalWidth, labelWidth int) int {
	width := totalWidth - labelWidth - len([]rune(axisSeparator))
	if width < minChartWidth {
		return minChartWidth
	}
	return width
}

func minMax(values []int) (int, int) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// resample stretches or averages values onto width columns.
func resample(values []int, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	if n >= width {
		for i := range out {
			start := i * n / width
			end := (i + 1) * n / width
			if end <= start {
				end = start + 1
			}
			sum := 0
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = float64(sum) / float64(end-start)
		}
		return out
	}
	// Fewer rows than columns: hold each count as a step.
	for i := range out {
		out[i] = float64(values[i*n/width])
	}
	return out
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

var brailleDots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if x < 0 || y < 0 || y/4 >= len(cells) || x/2 >= len(cells[y/4]) {
		return
	}
	cells[y/4][x/2] |= brailleDots[x%2][y%4]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
