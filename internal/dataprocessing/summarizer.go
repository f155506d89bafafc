package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "cacases/internal/errors"
	"cacases/internal/frame"
	"cacases/internal/region"
	"cacases/pkg/contracts/domain"
)

// Summarizer builds the structured per-entity view of a finished run.
type Summarizer struct {
	regions *region.Lookup
	tiers   map[string]domain.TierRecord
	logger  *slog.Logger
}

// NewSummarizer creates a summarizer. When tiers is non-nil every entity must
// have a tier record.
func NewSummarizer(regions *region.Lookup, tiers map[string]domain.TierRecord, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		regions: regions,
		tiers:   tiers,
		logger:  logger.With(slog.String("component", "summarizer")),
	}
}

// Summarize returns one summary per frame, sorted by entity name.
func (s *Summarizer) Summarize(ctx context.Context, frames *frame.Collection) ([]domain.EntitySummary, error) {
	summaries := make([]domain.EntitySummary, 0, frames.Len())
	for _, name := range frames.Names() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, _ := frames.Get(name)
		summary, err := s.SummarizeFrame(f)
		if err != nil {
			return nil, fmt.Errorf("summarize %s: %w", name, err)
		}
		summaries = append(summaries, summary)
	}

	s.logger.InfoContext(ctx, "entity summaries generated", slog.Int("entity_count", len(summaries)))
	return summaries, nil
}

// SummarizeFrame summarizes one frame.
func (s *Summarizer) SummarizeFrame(f *frame.Frame) (domain.EntitySummary, error) {
	name := f.Name()
	r, err := s.regions.Region(name)
	if err != nil {
		return domain.EntitySummary{}, err
	}

	summary := domain.EntitySummary{
		Name:     name,
		Variable: frame.Variable(name),
		Region:   r,
		Rows:     f.Len(),
		Last:     map[string]int64{},
	}
	if date, values, ok := f.Last(); ok {
		summary.LastDate = date
		summary.Last = values
	}

	if s.tiers != nil {
		rec, ok := s.tiers[name]
		if !ok {
			return domain.EntitySummary{}, apperrors.NewAppError(apperrors.ErrTypeLookup,
				fmt.Sprintf("no tier data for entity %q", name), nil).
				WithContext("entity", name)
		}
		status := rec.Status()
		summary.Tier = &status
	}
	return summary, nil
}
