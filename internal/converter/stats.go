package converter

import "sort"

// Skip reasons recorded in Stats.Skipped.
const (
	SkipEmptyDate   = "empty_date"
	SkipEntityKind  = "entity_kind"
	SkipBeforeStart = "before_start"
)

// Stats accumulates over every source a Converter processes.
type Stats struct {
	// AsOf is the latest accepted date key. It never decreases.
	AsOf             string         `json:"as_of"`
	Sources          []string       `json:"sources"`
	Records          int            `json:"records"`
	Accepted         int            `json:"accepted"`
	Skipped          map[string]int `json:"skipped"`
	ConversionErrors int            `json:"conversion_errors"`
}

func newStats() Stats {
	return Stats{Skipped: make(map[string]int)}
}

// TotalSkipped sums Skipped.
func (s Stats) TotalSkipped() int {
	n := 0
	for _, v := range s.Skipped {
		n += v
	}
	return n
}

// SkipReasons returns the recorded reasons in sorted order.
func (s Stats) SkipReasons() []string {
	reasons := make([]string, 0, len(s.Skipped))
	for r := range s.Skipped {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	return reasons
}

func (s Stats) clone() Stats {
	c := s
	c.Sources = append([]string(nil), s.Sources...)
	c.Skipped = make(map[string]int, len(s.Skipped))
	for k, v := range s.Skipped {
		c.Skipped[k] = v
	}
	return c
}
