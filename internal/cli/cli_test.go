package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cacases/internal/errors"
	"cacases/internal/shared/testutil"
	"cacases/internal/store"
)

const tierChart = `Blueprint for a Safer Economy,,,,
County,Date of Tier Assessment,Ending Date of Week of Data,Final Tier Assignment,Previous Tier Assignment,First Date in Current Tier,Tier for Week,Test Positivity,Case Rate,Unadjusted Case Rate,Adjustment Factor,Tests per 100k,Population,HEQ
Alameda,10/13/2020,10/03/2020,2,2,09/08/2020,2,0.022,5.1,5.1,1,344.5,"1,685,886",0.04
Alpine*,10/13/2020,10/03/2020,4,3,10/13/2020,4,0,0,0,1,,1117,
Butte,10/13/2020,10/03/2020,1,2,10/13/2020,1,0.051,8.4,8.4,,210.0,231256,0.07
`

type fixture struct {
	csv     string
	regions string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	return fixture{
		csv: testutil.WriteFile(t, "cases.csv", testutil.AreaTypeCSV(
			testutil.CaseRow{Date: "2020-03-18", Area: "Test County", Deaths: "0", Positives: "2"},
			testutil.CaseRow{Date: "2020-03-19", Area: "Test County", Deaths: "0", Positives: "0"},
			testutil.CaseRow{Date: "2020-03-20", Area: "Test County", Deaths: "0", Positives: "1"},
		)),
		regions: testutil.WriteFile(t, "regions.yaml", testutil.RegionYAML),
	}
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(strings.NewReader(""), &stdout, &stderr)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "cacases v")
}

func TestConvertCommand(t *testing.T) {
	fx := newFixture(t)
	out := filepath.Join(t.TempDir(), "run")
	db := filepath.Join(t.TempDir(), "runs.db")

	stdout, _, err := runCommand(t, "convert",
		"--csv", fx.csv,
		"--region", fx.regions,
		"--out", out,
		"--store", db,
		"--workbook",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "as of 2020/03/20: 1 entities written to")

	for _, name := range []string{"test_county.data", "process.R", "DATE.txt", "snapshot.json", "frames.xlsx", "metrics.prom"} {
		assert.FileExists(t, filepath.Join(out, name))
	}

	metrics, err := os.ReadFile(filepath.Join(out, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "records_read_total")
	assert.Contains(t, string(metrics), "runs_total")

	date, err := os.ReadFile(filepath.Join(out, "DATE.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(date), "2020/03/20")

	st, err := store.Open(db, time.Second, nil)
	require.NoError(t, err)
	defer st.Close()

	snapshot, err := st.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2020/03/20", snapshot.AsOf)
	require.Len(t, snapshot.Entities, 1)
	assert.Equal(t, "Test County", snapshot.Entities[0].Name)
}

func TestFrameCommand(t *testing.T) {
	fx := newFixture(t)

	stdout, _, err := runCommand(t, "frame",
		"--csv", fx.csv,
		"--region", fx.regions,
		"--only", "Test County",
	)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "dates I C D F E", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1 2020/03/18 2 2 "), lines[1])
	assert.True(t, strings.HasPrefix(lines[3], "3 2020/03/20 1 3 "), lines[3])
}

func TestCommandConfigErrors(t *testing.T) {
	fx := newFixture(t)

	tests := []struct {
		name string
		args []string
	}{
		{
			name: "frame without only",
			args: []string{"frame", "--csv", fx.csv, "--region", fx.regions},
		},
		{
			name: "unknown layout",
			args: []string{"convert", "--csv", fx.csv, "--region", fx.regions, "--layout", "weekly", "--out", t.TempDir()},
		},
		{
			name: "bad start date",
			args: []string{"convert", "--csv", fx.csv, "--region", fx.regions, "--start", "March", "--out", t.TempDir()},
		},
		{
			name: "serve without store",
			args: []string{"serve", "--addr", "127.0.0.1:0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCommand(t, tt.args...)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig), "got %v", err)
		})
	}
}

func TestConvertMissingInput(t *testing.T) {
	fx := newFixture(t)

	_, _, err := runCommand(t, "convert",
		"--csv", filepath.Join(t.TempDir(), "missing.csv"),
		"--region", fx.regions,
		"--out", t.TempDir(),
	)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing), "got %v", err)
}

func TestTierCommand(t *testing.T) {
	chart := testutil.WriteFile(t, "chart.csv", tierChart)
	out := filepath.Join(t.TempDir(), "tiers.yaml")

	stdout, _, err := runCommand(t, "tier", "--csv", chart, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "3 tier records written to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Alameda")
	assert.Contains(t, string(data), "Alpine")
}
