package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/cupscope-cli/internal/coffee"
	"github.com/KaramelBytes/cupscope-cli/internal/pipeline"
)

// Bounds fixes the radial range of a radar chart.
type Bounds struct {
	Min, Max float64
}

// DefaultBounds matches the 0-10 sensory scale.
func DefaultBounds() Bounds { return Bounds{Min: 0, Max: 10} }

const radarRings = 4

// RadarChart draws one profile as a filled polygon over concentric rings.
// Absent attribute means sit at the centre.
func RadarChart(profile pipeline.SensoryProfile, axis []coffee.Attribute, b Bounds) (*plot.Plot, error) {
	if len(axis) < 3 {
		return nil, fmt.Errorf("radar chart needs at least 3 axes, got %d", len(axis))
	}
	if !(b.Max > b.Min) {
		return nil, fmt.Errorf("radar bounds must satisfy min < max, got [%g, %g]", b.Min, b.Max)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (n=%d)", profile.Key, profile.Count)
	p.HideAxes()

	grey := color.Gray{Y: 200}
	for r := 1; r <= radarRings; r++ {
		ring, err := plotter.NewLine(closed(spokes(len(axis), float64(r)/radarRings)))
		if err != nil {
			return nil, err
		}
		ring.Color = grey
		p.Add(ring)
	}
	for _, end := range spokes(len(axis), 1) {
		spoke, err := plotter.NewLine(plotter.XYs{{}, end})
		if err != nil {
			return nil, err
		}
		spoke.Color = grey
		p.Add(spoke)
	}

	vals := profile.Vector(axis)
	shape := make(plotter.XYs, len(axis))
	for i, v := range vals {
		shape[i] = polar(i, len(axis), scale(v, b))
	}
	poly, err := plotter.NewPolygon(shape)
	if err != nil {
		return nil, fmt.Errorf("radar polygon: %w", err)
	}
	c := plotutil.Color(0)
	r, g, bl, _ := c.RGBA()
	poly.Color = color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: 90}
	poly.LineStyle.Color = c
	poly.LineStyle.Width = vg.Points(1.5)
	p.Add(poly)

	labelPts := spokes(len(axis), 1.12)
	names := make([]string, len(axis))
	for i, a := range axis {
		names[i] = a.Label()
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelPts, Labels: names})
	if err != nil {
		return nil, err
	}
	p.Add(labels)

	p.X.Min, p.X.Max = -1.3, 1.3
	p.Y.Min, p.Y.Max = -1.3, 1.3
	return p, nil
}

// scale maps v into [0,1] within b; NaN maps to 0.
func scale(v float64, b Bounds) float64 {
	if math.IsNaN(v) {
		return 0
	}
	s := (v - b.Min) / (b.Max - b.Min)
	return math.Max(0, math.Min(1, s))
}

// polar places axis i of n at radius r, starting at twelve o'clock and running clockwise.
func polar(i, n int, r float64) plotter.XY {
	theta := math.Pi/2 - 2*math.Pi*float64(i)/float64(n)
	return plotter.XY{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

func spokes(n int, r float64) plotter.XYs {
	out := make(plotter.XYs, n)
	for i := range out {
		out[i] = polar(i, n, r)
	}
	return out
}

func closed(xys plotter.XYs) plotter.XYs {
	return append(xys, xys[0])
}
