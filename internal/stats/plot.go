package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named curve. When Fixed is set the curve is drawn against
// [Min, Max] instead of its own range.
type Series struct {
	Name   string
	Values []float64
	Fixed  bool
	Min    float64
	Max    float64
}

// PlotOptions controls plot size and color.
type PlotOptions struct {
	Width      int
	Height     int
	ForceColor bool
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	fallbackTermWidth   = 80
	axisLabelTop        = "max"
	axisLabelMid        = "mid"
	axisLabelBottom     = "min"
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	dotsPerCellX        = 2
	dotsPerCellY        = 4
	flatRangeAdjustment = 1
)

type dash struct {
	name   string
	period int
	on     int
}

func (d dash) draws(x int) bool {
	if d.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%d.period < d.on
}

var dashes = []dash{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var seriesColors = []string{"\x1b[36m", "\x1b[35m", "\x1b[33m", "\x1b[32m"}

// PlotWidthFor returns the plot area width that fits totalWidth columns once
// the axis is drawn.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	width := totalWidth - runewidth.StringWidth(axisLabelTop) - runewidth.StringWidth(axisSeparator)
	if width < minPlotWidth {
		return minPlotWidth
	}
	return width
}

// Plot draws the series as a braille line chart.
func Plot(w io.Writer, title string, series []Series, opts PlotOptions) error {
	kept := series[:0:0]
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}
	if height <= 0 {
		height = defaultPlotHeight
	}

	layers := make([]*canvas, len(kept))
	bounds := make([][2]float64, len(kept))
	for i, s := range kept {
		values := resample(s.Values, width)
		lo, hi := rangeOf(s, values)
		bounds[i] = [2]float64{lo, hi}
		layers[i] = newCanvas(width, height)
		layers[i].trace(values, lo, hi, dashes[i%len(dashes)])
	}

	color := useColor(w, opts.ForceColor)
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for i, s := range kept {
		if _, err := fmt.Fprintf(w, "%s: min=%.2f max=%.2f\n", s.Name, bounds[i][0], bounds[i][1]); err != nil {
			return err
		}
	}
	labels := axisLabels(height)
	labelWidth := runewidth.StringWidth(axisLabelTop)
	for y := 0; y < height; y++ {
		var b strings.Builder
		b.WriteString(runewidth.FillLeft(labels[y], labelWidth))
		b.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := overlay(layers, x, y)
			ch := rune(0x2800 + int(mask))
			if color && owner >= 0 {
				b.WriteString(seriesColors[owner%len(seriesColors)])
				b.WriteRune(ch)
				b.WriteString(colorReset)
				continue
			}
			b.WriteRune(ch)
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, legend(kept, color)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func rangeOf(s Series, values []float64) (float64, float64) {
	if s.Fixed && s.Max > s.Min {
		return s.Min, s.Max
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		lo -= flatRangeAdjustment
		hi += flatRangeAdjustment
	}
	return lo, hi
}

func axisLabels(height int) []string {
	labels := make([]string, height)
	labels[0] = axisLabelTop
	if height > 2 {
		labels[height/2] = axisLabelMid
	}
	if height > 1 {
		labels[height-1] = axisLabelBottom
	}
	return labels
}

func legend(series []Series, color bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", rune(0x2801), s.Name, dashes[i%len(dashes)].name)
		if color {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

func useColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// resample averages buckets when there are more values than columns and
// interpolates linearly when there are fewer.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			start := i * n / width
			end := (i + 1) * n / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		step := float64(n-1) / float64(width-1)
		for i := range out {
			pos := float64(i) * step
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

// canvas is a grid of braille cells, each holding a 2x4 dot mask.
type canvas struct {
	width  int
	height int
	cells  [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{width: width, height: height, cells: cells}
}

var dotBits = [dotsPerCellX][dotsPerCellY]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func (c *canvas) set(x, y int) {
	cx, cy := x/dotsPerCellX, y/dotsPerCellY
	if x < 0 || y < 0 || cx >= c.width || cy >= c.height {
		return
	}
	c.cells[cy][cx] |= dotBits[x%dotsPerCellX][y%dotsPerCellY]
}

func (c *canvas) trace(values []float64, lo, hi float64, d dash) {
	rows := c.height * dotsPerCellY
	prevX, prevY := -1, -1
	for i, v := range values {
		x := i * dotsPerCellX
		y := dotRow(v, lo, hi, rows)
		if prevX < 0 {
			if d.draws(x) {
				c.set(x, y)
			}
		} else {
			bresenham(prevX, prevY, x, y, func(px, py int) {
				if d.draws(px) {
					c.set(px, py)
				}
			})
		}
		prevX, prevY = x, y
	}
}

func dotRow(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return max(0, min(rows-1, row))
}

func overlay(layers []*canvas, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, layer := range layers {
		cell := layer.cells[y][x]
		if cell == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= cell
	}
	return mask, owner
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
