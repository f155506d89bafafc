package datekey

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	start, err := ParseDate(DefaultStart)
	require.NoError(t, err)
	return NewParser(start)
}

func TestParser_Key(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"iso", "2020-03-18", "2020/03/18"},
		{"us", "03/18/2020", "2020/03/18"},
		{"canonical", "2020/03/18", "2020/03/18"},
		{"iso with time", "2020-03-18T00:00:00", "2020/03/18"},
		{"iso with space time", "2020-04-01 12:30", "2020/04/01"},
		{"surrounding whitespace", "  2020-12-31 ", "2020/12/31"},
		{"us with time", "07/04/2020 08:00", "2020/07/04"},
		{"iso unpadded month", "2020-3-18", "2020/03/18"},
		{"iso unpadded day", "2020-04-1", "2020/04/01"},
		{"iso unpadded with time", "2020-4-1 08:00", "2020/04/01"},
		{"canonical unpadded", "2020/4/1", "2020/04/01"},
		{"garbage", "yesterday", "2020/03/17"},
		{"empty", "", "2020/03/17"},
		{"impossible day", "2020-02-30", "2020/03/17"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Key(tt.raw))
		})
	}
}

func TestParser_KeyIsStable(t *testing.T) {
	p := newTestParser(t)

	for _, raw := range []string{"2021-01-05", "01/05/2021", "bogus"} {
		key := p.Key(raw)
		assert.Equal(t, key, p.Key(key), "re-parsing %q", raw)
	}
}

func TestParser_ConventionsAgree(t *testing.T) {
	p := newTestParser(t)

	day := time.Date(2020, 3, 18, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i++ {
		d := day.AddDate(0, 0, i)
		iso := d.Format("2006-01-02")
		us := d.Format("01/02/2006")
		require.Equal(t, p.Key(iso), p.Key(us))
	}
}

func TestFormat_LexicalOrderIsChronological(t *testing.T) {
	var keys []string
	var days []time.Time
	day := time.Date(2019, 12, 25, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i += 7 {
		d := day.AddDate(0, 0, i)
		days = append(days, d)
		keys = append(keys, Format(d))
	}

	sorted := make([]string, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		sorted = append(sorted, keys[i])
	}
	sort.Strings(sorted)

	assert.Equal(t, keys, sorted)
	for i := 1; i < len(days); i++ {
		assert.Less(t, keys[i-1], keys[i])
	}
}

func TestParser_IsBeforeStart(t *testing.T) {
	p := newTestParser(t)

	assert.True(t, p.IsBeforeStart(p.Parse("2020-03-17")))
	assert.False(t, p.IsBeforeStart(p.Parse("2020-03-18")))
	assert.False(t, p.IsBeforeStart(p.Parse("2020-03-19T23:59:59")))
	assert.True(t, p.IsBeforeStart(p.Parse("not a date")))
}

func TestParseDate_Error(t *testing.T) {
	_, err := ParseDate("18.03.2020")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "18.03.2020")
}
