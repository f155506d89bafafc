package domain

import "time"

// EntitySummary is the structured view of one entity at the end of a run.
type EntitySummary struct {
	Name     string           `json:"name"`
	Variable string           `json:"variable"`
	Region   string           `json:"region"`
	LastDate string           `json:"last_date"`
	Rows     int              `json:"rows"`
	Last     map[string]int64 `json:"last"`
	Tier     *TierStatus      `json:"tier,omitempty"`
}

// RunStats mirrors the converter counters in snapshot form.
type RunStats struct {
	Sources          []string       `json:"sources"`
	Records          int            `json:"records"`
	Accepted         int            `json:"accepted"`
	Skipped          map[string]int `json:"skipped"`
	ConversionErrors int            `json:"conversion_errors"`
	GroomFilled      int            `json:"groom_filled"`
}

// RunSnapshot is the persisted result of one conversion run.
type RunSnapshot struct {
	RunID     string          `json:"run_id"`
	AsOf      string          `json:"as_of"`
	Layout    string          `json:"layout"`
	CreatedAt time.Time       `json:"created_at"`
	Stats     RunStats        `json:"stats"`
	Entities  []EntitySummary `json:"entities"`
}

// Entity returns the named entity summary.
func (s *RunSnapshot) Entity(name string) (EntitySummary, bool) {
	for _, e := range s.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return EntitySummary{}, false
}

// RunInfo is the list view of a stored run.
type RunInfo struct {
	RunID     string    `json:"run_id"`
	AsOf      string    `json:"as_of"`
	Layout    string    `json:"layout"`
	CreatedAt time.Time `json:"created_at"`
	Entities  int       `json:"entities"`
}

// Info returns the list view of s.
func (s *RunSnapshot) Info() RunInfo {
	return RunInfo{
		RunID:     s.RunID,
		AsOf:      s.AsOf,
		Layout:    s.Layout,
		CreatedAt: s.CreatedAt,
		Entities:  len(s.Entities),
	}
}
