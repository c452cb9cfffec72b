package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
)

// Frames returns every exportable table of r keyed by base name.
func (r *Report) Frames(lo, hi float64) []NamedFrame {
	res := r.Result
	if res == nil {
		return nil
	}
	return []NamedFrame{
		{Name: "summary", Frame: SummaryFrame(res.Retained)},
		{Name: "profiles", Frame: ProfileFrame(res.RetainedProfiles, res.Options.Attributes)},
		{Name: "radar", Frame: RadarFrame(res.Radar(lo, hi))},
		{Name: "long", Frame: LongFrame(res.LongForm())},
		{Name: "map", Frame: MapFrame(r.Map)},
	}
}

// NamedFrame is a table with its export name.
type NamedFrame struct {
	Name  string
	Frame dataframe.DataFrame
}

// WriteCSV writes each frame to dir/<name>.csv and returns the paths written.
func WriteCSV(dir string, frames []NamedFrame) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	var paths []string
	for _, nf := range frames {
		if nf.Frame.Err != nil {
			return paths, fmt.Errorf("%s table: %w", nf.Name, nf.Frame.Err)
		}
		p := filepath.Join(dir, nf.Name+".csv")
		f, err := os.Create(p)
		if err != nil {
			return paths, fmt.Errorf("create %s: %w", p, err)
		}
		werr := nf.Frame.WriteCSV(f)
		cerr := f.Close()
		if werr != nil {
			return paths, fmt.Errorf("write %s: %w", p, werr)
		}
		if cerr != nil {
			return paths, fmt.Errorf("close %s: %w", p, cerr)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
