// Package classifier decides which raw entity names in a case file denote
// real entities.
package classifier

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "cacases/internal/errors"
)

// DefaultPatterns reject repeated headers, blanks and catch-all buckets.
var DefaultPatterns = []string{
	`^county`,
	`^state`,
	`^$`,
	`^unassigned`,
	`^out\s+of\s+(country|state)`,
	`^unknown`,
}

// Reason names why a row was skipped.
type Reason string

const (
	ReasonNone    Reason = ""
	ReasonIgnored Reason = "ignored_name"
	ReasonFilter  Reason = "not_selected"
)

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	patterns []*regexp.Regexp
	only     string
}

// New compiles the default patterns plus extra. Matching is case-insensitive
// and ignores surrounding whitespace. A non-empty only restricts acceptance
// to that single entity name.
func New(only string, extra ...string) (*Classifier, error) {
	c := &Classifier{only: only}
	for _, p := range append(append([]string(nil), DefaultPatterns...), extra...) {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("invalid ignore pattern %q", p), err)
		}
		c.patterns = append(c.patterns, re)
	}
	return c, nil
}

// Only returns the single-entity filter, or "".
func (c *Classifier) Only() string { return c.only }

// ShouldSkip reports whether name must not become an entity.
func (c *Classifier) ShouldSkip(name string) bool {
	return c.Classify(name) != ReasonNone
}

// Classify returns why name is skipped, or ReasonNone.
func (c *Classifier) Classify(name string) Reason {
	trimmed := strings.TrimSpace(name)
	for _, re := range c.patterns {
		if re.MatchString(trimmed) {
			return ReasonIgnored
		}
	}
	if !c.Selected(name) {
		return ReasonFilter
	}
	return ReasonNone
}

// Selected reports whether name passes the single-entity filter.
func (c *Classifier) Selected(name string) bool {
	return c.only == "" || name == c.only
}
