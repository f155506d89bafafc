package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// AreaTypeHeader is the header of the area_type daily case file.
const AreaTypeHeader = "date,area,area_type,population,deaths,cumulative_deaths,total_tests,cumulative_total_tests,positive_tests,cumulative_positive_tests"

// LegacyHeader is the header of the older county-level case file.
const LegacyHeader = "county,totalcountconfirmed,totalcountdeaths,newcountconfirmed,newcountdeaths,date"

// CaseRow is one line of an area_type case file. Empty strings are written
// verbatim so tests can exercise missing values.
type CaseRow struct {
	Date      string
	Area      string
	AreaType  string
	Deaths    string
	Positives string
}

// AreaTypeCSV renders rows under the area_type header.
func AreaTypeCSV(rows ...CaseRow) string {
	var b strings.Builder
	b.WriteString(AreaTypeHeader)
	b.WriteByte('\n')
	for _, r := range rows {
		kind := r.AreaType
		if kind == "" {
			kind = "County"
		}
		fmt.Fprintf(&b, "%s,%s,%s,1000,%s,0,0,0,%s,0\n", r.Date, quote(r.Area), kind, r.Deaths, r.Positives)
	}
	return b.String()
}

// WriteFile writes content under t.TempDir and returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// RegionYAML is a small region map covering the fixture entities.
const RegionYAML = `Bay Area:
  - Alameda
  - San Francisco
Test Region:
  - Test County
`

func quote(s string) string {
	if strings.ContainsAny(s, ",\"") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
