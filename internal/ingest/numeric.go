package ingest

import (
	"math"
	"strconv"
	"strings"
)

// missingTokens are cell values treated as absent, compared case-insensitively.
var missingTokens = []string{"", "na", "n/a", "nan", "null", "none", "-"}

func isMissing(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, t := range missingTokens {
		if v == t {
			return true
		}
	}
	return false
}

// cleanText trims a string cell; absent cells become "".
func cleanText(s string) string {
	if isMissing(s) {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}

// parseNumber parses a numeric cell honoring the configured separators. The
// second result is false when the cell is absent; the third is false when the
// cell is present but not a number.
func parseNumber(s string, opt Options) (float64, bool, bool) {
	if isMissing(s) {
		return math.NaN(), false, true
	}
	raw := strings.ReplaceAll(strings.TrimSpace(s), "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) {
		return math.NaN(), true, false
	}
	return f, true, true
}
