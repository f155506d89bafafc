// Package tier reads the state's blueprint data chart into per-county tier
// records and persists them as YAML.
package tier

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	apperrors "cacases/internal/errors"
	"cacases/pkg/contracts/domain"
)

// Table maps county name to its tier record.
type Table map[string]domain.TierRecord

// firstCounty marks the end of the chart's malformed preamble.
const firstCounty = "Alameda"

var (
	headerRow = regexp.MustCompile(`^(County|State|\s*$)`)
	number    = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	validate  = validator.New()
)

// ParseChart reads a blueprint data chart CSV. Everything before the first
// line naming Alameda is discarded, as are header, statewide and blank rows.
// Asterisks are stripped from county names and blank numbers read as zero.
func ParseChart(r io.Reader) (Table, error) {
	body, err := skipPreamble(r)
	if err != nil {
		return nil, apperrors.NewParsingError("read tier chart", err)
	}

	cr := csv.NewReader(strings.NewReader(body))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	table := make(Table)
	for line := 1; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("tier chart row %d", line), err)
		}
		if len(row) == 0 || headerRow.MatchString(row[0]) {
			continue
		}

		county := strings.TrimSpace(strings.ReplaceAll(row[0], "*", ""))
		rec := recordFrom(row)
		if err := validate.Struct(rec); err != nil {
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("tier chart row %d (%s): %v", line, county, err)).
				WithContext("county", county)
		}
		table[county] = rec
	}

	if len(table) == 0 {
		return nil, apperrors.NewParsingError("tier chart has no county rows", nil)
	}
	return table, nil
}

func skipPreamble(r io.Reader) (string, error) {
	var b strings.Builder
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	keep := false
	for sc.Scan() {
		line := sc.Text()
		if !keep && strings.Contains(line, firstCounty) {
			keep = true
		}
		if keep {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String(), sc.Err()
}

//	 0 County
//	 1 Date of Tier Assessment
//	 2 Ending Date of Week of Data
//	 3 Final Tier Assignment
//	 4 Previous Tier Assignment
//	 5 First Date in Current Tier
//	 6 Tier for Week
//	 7 Test Positivity
//	 8 Case Rate Used for Tier Adjusted Using Linear Adjustment
//	 9 Unadjusted Case Rate per 100,000
//	10 Linear Adjustment Factor Applied to Case Rate
//	11 Tests per 100,000
//	12 Population
//	13 Health Equity Quartile Test Positivity
func recordFrom(row []string) domain.TierRecord {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return domain.TierRecord{
		AssessmentDate:     col(1),
		EndingDate:         col(2),
		FinalTier:          int(groomInteger(col(3))),
		PreviousTier:       int(groomInteger(col(4))),
		StartingDate:       col(5),
		CurrentTier:        int(groomInteger(col(6))),
		TestPositivity:     groomFloat(col(7)),
		AdjustedCaseRate:   groomFloat(col(8)),
		UnadjustedCaseRate: groomFloat(col(9)),
		AdjustmentFactor:   groomFloat(col(10)),
		TestsPer100K:       groomFloat(col(11)),
		Population:         groomInteger(col(12)),
		HEQPositivity:      groomFloat(col(13)),
	}
}

// groomFloat reads the leading number of s; blank or non-numeric is zero.
func groomFloat(s string) float64 {
	m := number.FindString(strings.ReplaceAll(s, ",", ""))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

func groomInteger(s string) int64 {
	return int64(groomFloat(s))
}

// Get returns the record for county.
func (t Table) Get(county string) (domain.TierRecord, error) {
	rec, ok := t[county]
	if !ok {
		return domain.TierRecord{}, apperrors.NewAppError(apperrors.ErrTypeLookup,
			fmt.Sprintf("no tier data for entity %q", county), nil).
			WithContext("entity", county)
	}
	return rec, nil
}

// WriteYAML writes t as a county-keyed YAML document.
func (t Table) WriteYAML(w io.Writer) error {
	data, err := yaml.Marshal(map[string]domain.TierRecord(t))
	if err != nil {
		return apperrors.NewParsingError("encode tier table", err)
	}
	_, err = w.Write(data)
	return err
}

// ReadYAML parses a document written by WriteYAML.
func ReadYAML(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewParsingError("read tier table", err)
	}
	table := make(Table)
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, apperrors.NewParsingError("parse tier table", err)
	}
	for county, rec := range table {
		if err := validate.Struct(rec); err != nil {
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("tier record %s: %v", county, err)).
				WithContext("county", county)
		}
	}
	return table, nil
}

// Load reads a tier YAML file.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("open tier file %s", path), err)
	}
	defer f.Close()
	return ReadYAML(f)
}

// Save writes t to path.
func (t Table) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("create tier file %s", path), err)
	}
	if err := t.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("close tier file %s", path), err)
	}
	return nil
}
