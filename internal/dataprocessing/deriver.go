package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"cacases/internal/converter"
	apperrors "cacases/internal/errors"
	"cacases/internal/frame"
)

// CumulativeDeriver writes running totals of daily columns.
type CumulativeDeriver struct {
	pairs  []converter.Pair
	logger *slog.Logger
}

// NewCumulativeDeriver creates a deriver for the given daily -> cumulative pairs.
func NewCumulativeDeriver(pairs []converter.Pair, logger *slog.Logger) *CumulativeDeriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &CumulativeDeriver{
		pairs:  pairs,
		logger: logger.With(slog.String("component", "cumulative_deriver")),
	}
}

// Derive processes every frame in name order.
func (d *CumulativeDeriver) Derive(ctx context.Context, frames *frame.Collection) error {
	if len(d.pairs) == 0 {
		return nil
	}
	for _, name := range frames.Names() {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, _ := frames.Get(name)
		if err := d.DeriveFrame(f); err != nil {
			return err
		}
	}
	d.logger.DebugContext(ctx, "cumulative columns derived",
		slog.Int("entities", frames.Len()),
		slog.Int("pairs", len(d.pairs)))
	return nil
}

// DeriveFrame walks f in ascending date order. Gaps in the date sequence
// contribute nothing; the running total simply continues at the next date.
func (d *CumulativeDeriver) DeriveFrame(f *frame.Frame) error {
	dates := f.Dates()
	for _, p := range d.pairs {
		var total int64
		for _, date := range dates {
			v, ok := f.Value(date, p.Daily)
			if !ok {
				return apperrors.NewInvariantError(
					fmt.Sprintf("missing daily value before derivation: %s %s %s", f.Name(), date, p.Daily)).
					WithContext("entity", f.Name()).
					WithContext("date", date).
					WithContext("column", p.Daily)
			}
			total += v
			if err := f.Set(date, p.Cumulative, total); err != nil {
				return err
			}
		}
	}
	return nil
}
