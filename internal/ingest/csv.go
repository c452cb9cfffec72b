package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// naValues are the spellings gota marks as NA; isMissing still runs afterwards.
var naValues = []string{"NA", "N/A", "NaN", "nan", "null", "NULL"}

type csvReader struct{}

func (csvReader) CanRead(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

// Read loads every column as strings so that scores keep their original
// formatting until parseNumber applies the locale rules.
func (csvReader) Read(path string, opt Options) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	df := dataframe.ReadCSV(f,
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		if strings.HasSuffix(df.Err.Error(), "empty DataFrame") {
			// gota refuses a header without data rows
			return headerOnly(f, delim)
		}
		return nil, nil, fmt.Errorf("read csv: %w", df.Err)
	}
	return frameRows(df)
}

// headerOnly rereads the first record of f as the header. An empty file
// yields a nil header, which FromRows rejects.
func headerOnly(f *os.File, delim rune) ([]string, [][]string, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	r := csv.NewReader(f)
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	return header, nil, nil
}

// frameRows flattens a string dataframe, mapping NA elements to "".
func frameRows(df dataframe.DataFrame) ([]string, [][]string, error) {
	header := df.Names()
	nrow := df.Nrow()
	rows := make([][]string, nrow)
	for i := range rows {
		rows[i] = make([]string, len(header))
	}
	for j, name := range header {
		col := df.Col(name)
		if col.Err != nil {
			return nil, nil, fmt.Errorf("column %q: %w", name, col.Err)
		}
		for i := 0; i < nrow; i++ {
			el := col.Elem(i)
			if el.IsNA() {
				continue
			}
			rows[i][j] = el.String()
		}
	}
	return header, rows, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
