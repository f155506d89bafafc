// Package datekey canonicalizes the date strings found in case files into
// zero-padded YYYY/MM/DD keys whose lexical order is chronological order.
package datekey

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultStart is the first date accepted by a conversion run unless
// configured otherwise.
const DefaultStart = "2020/03/18"

var (
	usDate  = regexp.MustCompile(`(\d\d)/(\d\d)/(\d\d\d\d)`)
	// Month and day may be unpadded: 2020-3-18 is 2020/03/18.
	layouts = []string{"2006-1-2", "2006/1/2"}
)

// Parser maps raw date strings onto calendar days relative to a start date.
type Parser struct {
	start time.Time
}

// NewParser returns a Parser whose fallback for unparseable input is the day
// before start.
func NewParser(start time.Time) *Parser {
	return &Parser{start: truncate(start)}
}

// Start returns the configured start day.
func (p *Parser) Start() time.Time {
	return p.start
}

// Parse returns the calendar day named by raw. Unparseable input yields
// start - 1 day, which IsBeforeStart always rejects.
func (p *Parser) Parse(raw string) time.Time {
	if t, err := ParseDate(raw); err == nil {
		return t
	}
	return p.start.AddDate(0, 0, -1)
}

// Key is Format(Parse(raw)).
func (p *Parser) Key(raw string) string {
	return Format(p.Parse(raw))
}

// IsBeforeStart reports whether t falls before the start day.
func (p *Parser) IsBeforeStart(t time.Time) bool {
	return truncate(t).Before(p.start)
}

// ParseDate is the strict form of Parser.Parse. It accepts ISO YYYY-MM-DD,
// US MM/DD/YYYY and the canonical YYYY/MM/DD, with an optional trailing time
// of day after an ISO or canonical date.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	s = usDate.ReplaceAllString(s, "$3-$1-$2")

	if i := strings.IndexAny(s, "T "); i > 0 {
		s = s[:i]
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// Format renders t as a YYYY/MM/DD key.
func Format(t time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d", t.Year(), int(t.Month()), t.Day())
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
