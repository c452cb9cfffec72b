package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/cupscope-cli/internal/coffee"
	"github.com/KaramelBytes/cupscope-cli/internal/geo"
	"github.com/KaramelBytes/cupscope-cli/internal/pipeline"
)

func testResult(t *testing.T) *pipeline.Result {
	t.Helper()
	var in []coffee.Sample
	add := func(country, method string, scores ...float64) {
		for _, sc := range scores {
			s := coffee.NewSample()
			s.Score = sc
			s.CountryOfOrigin = country
			s.ProcessingMethod = method
			s.Sensory[coffee.Aroma] = sc / 11
			in = append(in, s)
		}
	}
	add("Ethiopia", "Washed / Wet", 88, 86, 87, 90, 85)
	add("United States", "Natural / Dry", 84, 83, 82, 85, 81, 80)
	add("Peru", "", 79, 80)
	p, err := pipeline.New(pipeline.DefaultOptions(), zerolog.Nop())
	require.NoError(t, err)
	res, err := p.Run(context.Background(), in)
	require.NoError(t, err)
	return res
}

func TestMarkdownSections(t *testing.T) {
	res := testResult(t)
	j := pipeline.ChoroplethRows(res.Retained, geo.DefaultTable(), geo.NewBoundaries("USA"))
	r := &Report{Name: "arabica.csv", Rows: 13, Result: res, Map: &j, Warnings: []string{"1 non-numeric value"}}
	md := r.Markdown()
	for _, sec := range []string{"[DATASET SUMMARY]", "[SCORE DISTRIBUTION]", "[QUALITY CATEGORIES]", "[PROCESSING METHODS]", "[COUNTRY SUMMARY]", "[SENSORY PROFILES]", "[MAP JOIN]", "[NOTES]"} {
		assert.Contains(t, md, sec)
	}
	assert.Contains(t, md, "File: arabica.csv")
	assert.Contains(t, md, "| Ethiopia | 5 |")
	assert.NotContains(t, md, "| Peru |")
	assert.Contains(t, md, "regions: 1 of 2 matched")
	assert.Contains(t, md, "regions missing from boundaries: Ethiopia")
	// Ethiopia ranks first by mean
	assert.Less(t, strings.Index(md, "| Ethiopia"), strings.Index(md, "| United States"))
}

func TestMarkdownEmpty(t *testing.T) {
	p, err := pipeline.New(pipeline.DefaultOptions(), zerolog.Nop())
	require.NoError(t, err)
	res, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	md := (&Report{Result: res}).Markdown()
	assert.Contains(t, md, "no scored samples")
	assert.Contains(t, md, "no country reaches the sample threshold")
	assert.NotContains(t, md, "NaN")
	assert.NotContains(t, md, "[SENSORY PROFILES]")

	md = (&Report{}).Markdown()
	assert.Contains(t, md, "Samples: 0")
}

func TestWriteCSV(t *testing.T) {
	res := testResult(t)
	r := &Report{Result: res}
	dir := t.TempDir()
	paths, err := WriteCSV(dir, r.Frames(0, 10))
	require.NoError(t, err)
	require.Len(t, paths, 5)

	b, err := os.ReadFile(filepath.Join(dir, "summary.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "country,count,mean_score,median_score,min_score,max_score,std_dev", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Ethiopia,5,"))

	b, err = os.ReadFile(filepath.Join(dir, "radar.csv"))
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], "max,"))
	assert.True(t, strings.HasPrefix(lines[2], "min,"))

	b, err = os.ReadFile(filepath.Join(dir, "long.csv"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(b)), "\n"), 12)
}

func TestWriteXLSX(t *testing.T) {
	res := testResult(t)
	j := pipeline.ChoroplethRows(res.Retained, geo.DefaultTable(), nil)
	r := &Report{Result: res, Map: &j}
	p := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(p, r.Frames(0, 10)))

	f, err := excelize.OpenFile(p)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "Profiles", "Radar", "Scores", "Map"}, f.GetSheetList())
	v, err := f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Ethiopia", v)
	v, err = f.GetCellValue("Map", "B3")
	require.NoError(t, err)
	assert.Equal(t, "USA", v)
	// body was never scored, so the cell stays empty
	v, err = f.GetCellValue("Profiles", "G2")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestFprintTable(t *testing.T) {
	res := testResult(t)
	var buf bytes.Buffer
	require.NoError(t, FprintTable(&buf, ViewSummary, res))
	out := buf.String()
	assert.Contains(t, out, "country")
	assert.Contains(t, out, "Ethiopia")
	assert.Contains(t, out, "87.20")

	buf.Reset()
	require.NoError(t, FprintTable(&buf, ViewQuality, res))
	assert.Contains(t, buf.String(), "Very Good")

	assert.Error(t, FprintTable(&buf, "bogus", res))
}
