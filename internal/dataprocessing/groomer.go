package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"cacases/internal/frame"
)

// Groomer fills every configured column that is absent on a present date.
// Existing values are never touched, so grooming twice is a no-op.
type Groomer struct {
	defaults map[string]int64
	columns  []string
	only     string
	logger   *slog.Logger
}

// NewGroomer creates a groomer. A non-empty only limits grooming to that
// entity.
func NewGroomer(defaults map[string]int64, only string, logger *slog.Logger) *Groomer {
	if logger == nil {
		logger = slog.Default()
	}
	columns := make([]string, 0, len(defaults))
	for c := range defaults {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	return &Groomer{
		defaults: defaults,
		columns:  columns,
		only:     only,
		logger:   logger.With(slog.String("component", "groomer")),
	}
}

// Groom fills defaults across frames and returns the number of cells written.
func (g *Groomer) Groom(ctx context.Context, frames *frame.Collection) (int, error) {
	filled := 0
	for _, name := range frames.Names() {
		if g.only != "" && name != g.only {
			continue
		}
		if err := ctx.Err(); err != nil {
			return filled, err
		}

		f, _ := frames.Get(name)
		n, err := g.GroomFrame(f)
		filled += n
		if err != nil {
			return filled, err
		}
	}

	g.logger.DebugContext(ctx, "frames groomed", slog.Int("filled", filled))
	return filled, nil
}

// GroomFrame fills defaults on a single frame.
func (g *Groomer) GroomFrame(f *frame.Frame) (int, error) {
	filled := 0
	for _, date := range f.Dates() {
		for _, column := range g.columns {
			wrote, err := f.Default(date, column, g.defaults[column])
			if err != nil {
				return filled, err
			}
			if wrote {
				filled++
			}
		}
	}
	return filled, nil
}
