package plot

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
)

// Image describes a PNG rendering of a row
type Image struct {
	Title  string
	Label  string // legend entry of the samples
	Width  int
	Height int
}

// pointStyle renders points only (no connecting line)
func pointStyle() chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    chart.ColorBlue,
	}
}

// WritePNG renders the samples and the optional fit as a PNG into w
func (img Image) WritePNG(w io.Writer, points []Point, fit *Line) error {
	if len(points) == 0 {
		return fmt.Errorf("nothing to plot")
	}

	bounds := DataBounds(points, fit)
	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		if finite(p.X) && finite(p.Y) {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
	}
	if len(xs) == 0 {
		return fmt.Errorf("no finite samples to plot")
	}

	label := img.Label
	if label == "" {
		label = "samples"
	}
	series := []chart.Series{
		chart.ContinuousSeries{Name: label, XValues: xs, YValues: ys, Style: pointStyle()},
	}
	if fit != nil {
		series = append(series, chart.ContinuousSeries{
			Name:    "linear fit",
			XValues: []float64{bounds.XMin, bounds.XMax},
			YValues: []float64{fit.At(bounds.XMin), fit.At(bounds.XMax)},
			Style:   chart.Style{StrokeWidth: 2, StrokeColor: chart.ColorRed},
		})
	}

	ticks := make([]chart.Tick, 0, len(xs))
	for _, x := range xs {
		ticks = append(ticks, chart.Tick{Value: x, Label: formatTick(x)})
	}

	ch := chart.Chart{
		Title:      img.Title,
		Width:      img.Width,
		Height:     img.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "data point",
			Range: &chart.ContinuousRange{Min: bounds.XMin, Max: bounds.XMax},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: bounds.YMin, Max: bounds.YMax},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// SavePNG writes the rendering to path
func (img Image) SavePNG(path string, points []Point, fit *Line) error {
	var buf bytes.Buffer
	if err := img.WritePNG(&buf, points, fit); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	// #nosec G306 - plots are meant to be shared
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
