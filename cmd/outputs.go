package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/cupscope-cli/internal/pipeline"
	"github.com/KaramelBytes/cupscope-cli/internal/project"
	"github.com/KaramelBytes/cupscope-cli/internal/render"
	"github.com/KaramelBytes/cupscope-cli/internal/report"
	"github.com/KaramelBytes/cupscope-cli/internal/utils"
)

// outputFlags choose which artifacts a run writes.
type outputFlags struct {
	markdown    string
	xlsx        string
	csvDir      string
	chartsDir   string
	chartFormat string
	seed        int64
}

func (o *outputFlags) register(f *pflag.FlagSet) {
	f.StringVarP(&o.markdown, "output", "o", "", "write the Markdown report to this path")
	f.StringVar(&o.xlsx, "xlsx", "", "write summary, profile, radar and map sheets to this workbook")
	f.StringVar(&o.csvDir, "csv", "", "write summary/profiles/radar/long/map CSV files into this directory")
	f.StringVar(&o.chartsDir, "charts", "", "render charts into this directory")
	f.StringVar(&o.chartFormat, "chart-format", "png", "chart image format: png|svg|pdf")
	f.Int64Var(&o.seed, "seed", 1, "jitter seed for the score scatter")
}

func (o *outputFlags) any() bool {
	return o.markdown != "" || o.xlsx != "" || o.csvDir != "" || o.chartsDir != ""
}

// artifact is one file written by writeOutputs.
type artifact struct {
	kind string
	path string
}

// writeOutputs writes every requested artifact for a.
func writeOutputs(a *analysis, o outputFlags) ([]artifact, error) {
	var out []artifact
	if o.markdown != "" {
		if err := utils.SafeWriteFile(o.markdown, []byte(a.Report.Markdown())); err != nil {
			return out, fmt.Errorf("write report: %w", err)
		}
		out = append(out, artifact{project.KindReport, o.markdown})
	}
	lo, hi := radarBounds()
	if o.xlsx != "" || o.csvDir != "" {
		frames := a.Report.Frames(lo, hi)
		if o.xlsx != "" {
			if err := utils.EnsureDir(filepath.Dir(o.xlsx)); err != nil {
				return out, err
			}
			if err := report.WriteXLSX(o.xlsx, frames); err != nil {
				return out, err
			}
			out = append(out, artifact{project.KindXLSX, o.xlsx})
		}
		if o.csvDir != "" {
			paths, err := report.WriteCSV(o.csvDir, frames)
			if err != nil {
				return out, err
			}
			for _, p := range paths {
				out = append(out, artifact{project.KindCSV, p})
			}
		}
	}
	if o.chartsDir != "" {
		paths, err := renderCharts(o.chartsDir, a.Result, o.chartFormat, o.seed, render.Bounds{Min: lo, Max: hi})
		if err != nil {
			return out, err
		}
		for _, p := range paths {
			out = append(out, artifact{project.KindChart, p})
		}
	}
	return out, nil
}

// renderCharts draws the category bars, the score scatter and one radar per
// retained country.
func renderCharts(dir string, res *pipeline.Result, format string, seed int64, b render.Bounds) ([]string, error) {
	if format == "" {
		format = "png"
	}
	var paths []string
	save := func(name string, p *plot.Plot, err error) error {
		if err != nil {
			return err
		}
		path := filepath.Join(dir, name+"."+format)
		if err := render.Save(p, path, 8*vg.Inch, 5*vg.Inch); err != nil {
			return err
		}
		paths = append(paths, path)
		return nil
	}

	p, err := render.BarChart(pipeline.CountByQuality(res.Cleaned), "Samples by quality category")
	if err := save("quality", p, err); err != nil {
		return paths, err
	}
	p, err = render.BarChart(pipeline.CountByMethod(res.Cleaned), "Samples by processing method")
	if err := save("methods", p, err); err != nil {
		return paths, err
	}
	p, err = render.BarChart(pipeline.CountByCountry(res.Cleaned), "Samples by country of origin")
	if err := save("countries", p, err); err != nil {
		return paths, err
	}
	order := make([]string, len(res.Retained))
	for i, g := range res.Retained {
		order[i] = g.Key
	}
	p, err = render.JitterPlot(res.LongForm(), order, render.JitterOptions{Seed: seed})
	if err := save("scores", p, err); err != nil {
		return paths, err
	}

	radars, err := render.RenderProfiles(dir, res.RetainedProfiles, render.RadarRenderer(res.Options.Attributes, b), format)
	paths = append(paths, radars...)
	return paths, err
}
