// Package plot draws a row's samples and its fitted line, either as a
// character canvas for the terminal or as a PNG image.
package plot

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	pointRune = '●'
	fitRune   = '·'
	labelW    = 8
)

// Point is one sample position
type Point struct {
	X, Y float64
}

// Line is y = Intercept + Slope*x
type Line struct {
	Slope, Intercept float64
}

// At evaluates the line at x
func (l Line) At(x float64) float64 {
	return l.Intercept + l.Slope*x
}

// Points pairs xs with ys
func Points(xs, ys []float64) []Point {
	n := min(len(xs), len(ys))
	out := make([]Point, n)
	for i := 0; i < n; i++ {
		out[i] = Point{X: xs[i], Y: ys[i]}
	}
	return out
}

// Canvas renders scatter plots with characters
type Canvas struct {
	Width  int // total columns including the y-axis labels
	Height int // total rows including the x-axis and its tick labels
	Color  bool

	PointColor string // marker colour when no fit is drawn
	NearColor  string // marker colour for a zero residual
	FarColor   string // marker colour for the largest residual
	LineColor  string
	AxisColor  string
}

// Bounds is the visible data range
type Bounds struct {
	XMin, XMax, YMin, YMax float64
}

// DataBounds computes padded plot bounds for the points and the fitted line
func DataBounds(points []Point, fit *Line) Bounds {
	b := Bounds{XMin: math.Inf(1), XMax: math.Inf(-1), YMin: math.Inf(1), YMax: math.Inf(-1)}
	grow := func(x, y float64) {
		if !finite(x) || !finite(y) {
			return
		}
		b.XMin, b.XMax = math.Min(b.XMin, x), math.Max(b.XMax, x)
		b.YMin, b.YMax = math.Min(b.YMin, y), math.Max(b.YMax, y)
	}
	for _, p := range points {
		grow(p.X, p.Y)
	}
	if math.IsInf(b.XMin, 1) {
		return Bounds{XMin: 0, XMax: 1, YMin: 0, YMax: 1}
	}
	if fit != nil {
		grow(b.XMin, fit.At(b.XMin))
		grow(b.XMax, fit.At(b.XMax))
	}

	b.XMin, b.XMax = pad(b.XMin, b.XMax)
	b.YMin, b.YMax = pad(b.YMin, b.YMax)
	return b
}

// Render draws the points and, when fit is non-nil, the fitted line
func (c Canvas) Render(points []Point, fit *Line) string {
	plotW := max(1, c.Width-labelW-1)
	plotH := max(2, c.Height-2)
	bounds := DataBounds(points, fit)

	grid := make([][]rune, plotH)
	colors := make([][]string, plotH)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", plotW))
		colors[r] = make([]string, plotW)
	}

	col := func(x float64) int {
		return clampInt(int(math.Round((x-bounds.XMin)/(bounds.XMax-bounds.XMin)*float64(plotW-1))), 0, plotW-1)
	}
	row := func(y float64) int {
		return clampInt(int(math.Round((bounds.YMax-y)/(bounds.YMax-bounds.YMin)*float64(plotH-1))), 0, plotH-1)
	}

	if fit != nil {
		for cx := 0; cx < plotW; cx++ {
			x := bounds.XMin + float64(cx)/float64(max(1, plotW-1))*(bounds.XMax-bounds.XMin)
			y := fit.At(x)
			if !finite(y) || y < bounds.YMin || y > bounds.YMax {
				continue
			}
			r := row(y)
			grid[r][cx] = fitRune
			colors[r][cx] = c.LineColor
		}
	}

	shades := c.markerColors(points, fit)
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		r, cx := row(p.Y), col(p.X)
		grid[r][cx] = pointRune
		colors[r][cx] = shades[i]
	}

	var b strings.Builder
	for r := 0; r < plotH; r++ {
		label := strings.Repeat(" ", labelW)
		if r == 0 || r == plotH-1 || r == plotH/2 {
			y := bounds.YMax - float64(r)/float64(plotH-1)*(bounds.YMax-bounds.YMin)
			label = fmt.Sprintf("%*s", labelW, formatTick(y))
		}
		b.WriteString(c.paint(label, c.AxisColor))
		b.WriteString(c.paint("│", c.AxisColor))
		for cx, ch := range grid[r] {
			b.WriteString(c.paint(string(ch), colors[r][cx]))
		}
		b.WriteByte('\n')
	}

	b.WriteString(c.paint(strings.Repeat(" ", labelW)+"└"+strings.Repeat("─", plotW), c.AxisColor))
	b.WriteByte('\n')

	ticks := []rune(strings.Repeat(" ", plotW))
	for _, p := range points {
		if !finite(p.X) {
			continue
		}
		text := []rune(formatTick(p.X))
		start := clampInt(col(p.X)-len(text)/2, 0, max(0, plotW-len(text)))
		for i, ch := range text {
			if start+i < len(ticks) {
				ticks[start+i] = ch
			}
		}
	}
	b.WriteString(c.paint(strings.Repeat(" ", labelW+1)+string(ticks), c.AxisColor))

	return b.String()
}

// markerColors grades each point from NearColor to FarColor by the size of its residual
func (c Canvas) markerColors(points []Point, fit *Line) []string {
	out := make([]string, len(points))
	for i := range out {
		out[i] = c.PointColor
	}
	if fit == nil || c.NearColor == "" || c.FarColor == "" {
		return out
	}

	near, err := colorful.Hex(c.NearColor)
	if err != nil {
		return out
	}
	far, err := colorful.Hex(c.FarColor)
	if err != nil {
		return out
	}

	maxResidual := 0.0
	residuals := make([]float64, len(points))
	for i, p := range points {
		residuals[i] = math.Abs(p.Y - fit.At(p.X))
		if finite(residuals[i]) {
			maxResidual = math.Max(maxResidual, residuals[i])
		}
	}

	for i, res := range residuals {
		t := 0.0
		if maxResidual > 0 && finite(res) {
			t = res / maxResidual
		}
		out[i] = near.BlendLab(far, t).Clamped().Hex()
	}
	return out
}

func (c Canvas) paint(s, color string) string {
	if !c.Color || color == "" {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("%.3g", v)
}

func pad(lo, hi float64) (float64, float64) {
	if lo == hi {
		return lo - 1, hi + 1
	}
	margin := (hi - lo) * 0.1
	return lo - margin, hi + margin
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
