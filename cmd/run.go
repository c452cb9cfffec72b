package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/KaramelBytes/cupscope-cli/internal/geo"
	"github.com/KaramelBytes/cupscope-cli/internal/ingest"
	"github.com/KaramelBytes/cupscope-cli/internal/logging"
	"github.com/KaramelBytes/cupscope-cli/internal/pipeline"
	"github.com/KaramelBytes/cupscope-cli/internal/project"
	"github.com/KaramelBytes/cupscope-cli/internal/render"
	"github.com/KaramelBytes/cupscope-cli/internal/report"
)

// inputFlags are the dataset reading flags shared by every command that loads a file.
type inputFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	maxRows    int
	sheetName  string
	sheetIndex int
}

func (in *inputFlags) register(f *pflag.FlagSet) {
	f.StringVar(&in.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	f.StringVar(&in.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	f.StringVar(&in.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	f.IntVar(&in.maxRows, "max-rows", 0, "maximum rows to process (0 = unlimited)")
	f.StringVar(&in.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	f.IntVar(&in.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func (in *inputFlags) options() (ingest.Options, error) {
	opt := ingest.DefaultOptions()
	if cfg != nil {
		opt.Schema = cfg.Columns
	}
	opt.MaxRows = in.maxRows
	opt.SheetName = in.sheetName
	if in.sheetIndex > 0 {
		opt.SheetIndex = in.sheetIndex
	}
	switch in.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", in.delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(in.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", in.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(in.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", in.thousands)
	}
	return opt, nil
}

// mapFlags select the country name table and boundary list for the map join.
type mapFlags struct {
	names      string
	boundaries string
}

func (m *mapFlags) register(f *pflag.FlagSet) {
	f.StringVar(&m.names, "names", "", "YAML name table merged over the built-in one (overrides config)")
	f.StringVar(&m.boundaries, "boundaries", "", "file with one boundary region name per line (overrides config)")
}

func (m *mapFlags) load() (*geo.Table, geo.Boundaries, error) {
	namesFile, boundsFile := m.names, m.boundaries
	if cfg != nil {
		if namesFile == "" {
			namesFile = cfg.CountryNamesFile
		}
		if boundsFile == "" {
			boundsFile = cfg.BoundariesFile
		}
	}
	tab := geo.DefaultTable()
	if namesFile != "" {
		extra, err := geo.LoadTable(expandHome(namesFile))
		if err != nil {
			return nil, nil, err
		}
		tab.Merge(extra)
	}
	var bounds geo.Boundaries
	if boundsFile != "" {
		b, err := geo.LoadBoundaries(expandHome(boundsFile))
		if err != nil {
			return nil, nil, err
		}
		bounds = b
	}
	return tab, bounds, nil
}

// analysis is one dataset pushed through the pipeline.
type analysis struct {
	Dataset *ingest.Dataset
	Result  *pipeline.Result
	Map     geo.JoinResult
	Report  *report.Report
}

func pipelineOptions() (pipeline.Options, error) {
	if cfg == nil {
		o := pipeline.DefaultOptions()
		return o, o.Validate()
	}
	return cfg.PipelineOptions()
}

func radarBounds() (lo, hi float64) {
	if cfg == nil || !(cfg.RadarMax > cfg.RadarMin) {
		return 0, 10
	}
	return cfg.RadarMin, cfg.RadarMax
}

// analyzeFile loads path and runs the full pipeline plus the map join.
func analyzeFile(ctx context.Context, path string, in *inputFlags, mf *mapFlags) (*analysis, error) {
	opt, err := in.options()
	if err != nil {
		return nil, err
	}
	popt, err := pipelineOptions()
	if err != nil {
		return nil, err
	}
	tab, bounds, err := mf.load()
	if err != nil {
		return nil, err
	}
	l := logging.Component(log, "ingest")
	ds, err := ingest.Load(path, opt)
	if err != nil {
		return nil, err
	}
	l.Debug().Str("file", ds.Name).Int("rows", ds.Rows).Int("warnings", len(ds.Warnings)).Msg("loaded dataset")

	p, err := pipeline.New(popt, log)
	if err != nil {
		return nil, err
	}
	res, err := p.Run(ctx, ds.Samples)
	if err != nil {
		return nil, err
	}
	j := pipeline.ChoroplethRows(res.Retained, tab, bounds)
	warnings := append([]string(nil), ds.Warnings...)
	if len(res.Retained) == 0 && len(res.Cleaned) > 0 {
		warnings = append(warnings, fmt.Sprintf("no country has at least %d samples; lower --min-samples to see summaries", popt.MinSampleThreshold))
	}
	return &analysis{
		Dataset: ds,
		Result:  res,
		Map:     j,
		Report:  &report.Report{Name: ds.Name, Rows: ds.Rows, Result: res, Map: &j, Warnings: warnings},
	}, nil
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(p, "~"), "/"))
}

// uniqueSlug returns the slug of base, suffixed with __2, __3, ... until it is
// not in used, and marks the result as used.
func uniqueSlug(used map[string]bool, base string) string {
	root := render.Slug(base)
	slug := root
	for n := 2; used[slug]; n++ {
		slug = fmt.Sprintf("%s__%d", root, n)
	}
	used[slug] = true
	return slug
}

// datasetDirs assigns every project dataset its own directory under the
// project's outputs. Datasets are visited in the order they were added, so a
// dataset keeps its directory when later ones share its file name.
func datasetDirs(p *project.Project) map[string]string {
	used := map[string]bool{}
	dirs := make(map[string]string, len(p.Datasets))
	for _, d := range p.SortedDatasets() {
		dirs[d.ID] = filepath.Join(p.OutputDir(), uniqueSlug(used, baseName(d.Name)))
	}
	return dirs
}

// baseName strips directory and extension from a dataset path.
func baseName(path string) string {
	b := filepath.Base(path)
	return strings.TrimSuffix(b, filepath.Ext(b))
}
