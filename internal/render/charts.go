// Package render draws the pipeline's chart-ready tables with gonum/plot.
package render

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/cupscope-cli/internal/pipeline"
)

// BarChart draws one bar per category in the given order.
func BarChart(counts []pipeline.CategoryCount, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "samples"
	if len(counts) == 0 {
		return p, nil
	}
	values := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Count)
		names[i] = c.Key
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight
	p.Add(plotter.NewGrid())
	return p, nil
}

// JitterOptions controls horizontal spread in JitterPlot.
type JitterOptions struct {
	Width float64
	Seed  int64
}

// JitterPlot scatters observations by group with horizontal jitter. order fixes
// the category axis; observations whose key is not in order are skipped. A
// fixed seed makes the output reproducible.
func JitterPlot(obs []pipeline.Observation, order []string, opt JitterOptions) (*plot.Plot, error) {
	if opt.Width <= 0 {
		opt.Width = 0.3
	}
	p := plot.New()
	p.Title.Text = "Total cup points by country"
	p.Y.Label.Text = "total cup points"
	pos := make(map[string]int, len(order))
	for i, k := range order {
		pos[k] = i
	}
	rng := rand.New(rand.NewSource(opt.Seed))
	pts := make(plotter.XYs, 0, len(obs))
	for _, o := range obs {
		i, ok := pos[o.Key]
		if !ok || math.IsNaN(o.Value) {
			continue
		}
		dx := (rng.Float64()*2 - 1) * opt.Width
		pts = append(pts, plotter.XY{X: float64(i) + dx, Y: o.Value})
	}
	if len(pts) > 0 {
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("jitter plot: %w", err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(2)
		sc.GlyphStyle.Color = color.RGBA{R: 111, G: 78, B: 55, A: 200}
		p.Add(sc)
	}
	if len(order) > 0 {
		p.NominalX(order...)
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.YAlign = draw.YCenter
		p.X.Tick.Label.XAlign = draw.XRight
	}
	p.Add(plotter.NewGrid())
	return p, nil
}
