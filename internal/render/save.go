package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/cupscope-cli/internal/coffee"
	"github.com/KaramelBytes/cupscope-cli/internal/pipeline"
)

// Formats accepted by Save and RenderProfiles.
var Formats = []string{"png", "svg", "pdf"}

// Save writes p to path; the extension selects the image format.
func Save(p *plot.Plot, path string, w, h vg.Length) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// ProfileRenderer draws one sensory profile.
type ProfileRenderer func(pipeline.SensoryProfile) (*plot.Plot, error)

// RadarRenderer returns a ProfileRenderer drawing radar charts over axis.
func RadarRenderer(axis []coffee.Attribute, b Bounds) ProfileRenderer {
	return func(p pipeline.SensoryProfile) (*plot.Plot, error) {
		return RadarChart(p, axis, b)
	}
}

// RenderProfiles draws every profile into dir as radar_<key>.<format> and
// returns the written paths in profile order.
func RenderProfiles(dir string, profiles []pipeline.SensoryProfile, r ProfileRenderer, format string) ([]string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		format = "png"
	}
	if !validFormat(format) {
		return nil, fmt.Errorf("unsupported image format %q (use %s)", format, strings.Join(Formats, "|"))
	}
	var paths []string
	for _, prof := range profiles {
		p, err := r(prof)
		if err != nil {
			return paths, fmt.Errorf("render %s: %w", prof.Key, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("radar_%s.%s", Slug(prof.Key), format))
		if err := Save(p, path, 6*vg.Inch, 6*vg.Inch); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func validFormat(f string) bool {
	for _, v := range Formats {
		if v == f {
			return true
		}
	}
	return false
}

// Slug turns a group key into a file-name fragment.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('_')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "_")
	if out == "" {
		return "unnamed"
	}
	return out
}
