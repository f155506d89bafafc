// Package converter streams raw case records into per-entity frames.
package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cacases/internal/classifier"
	"cacases/internal/datekey"
	apperrors "cacases/internal/errors"
	"cacases/internal/frame"
	"cacases/internal/infrastructure"
	"cacases/internal/region"
)

// RecordReader yields CSV records. *csv.Reader satisfies it; configure it
// with FieldsPerRecord = -1 so short records reach the converter.
type RecordReader interface {
	Read() ([]string, error)
}

// Converter applies one Layout to any number of sources, accumulating into
// a shared frame collection and Stats. It is not safe for concurrent use.
type Converter struct {
	layout     Layout
	dates      *datekey.Parser
	classifier *classifier.Classifier
	regions    *region.Lookup
	logger     *slog.Logger
	stats      Stats
}

// New creates a converter. A nil logger uses slog.Default.
func New(layout Layout, dates *datekey.Parser, cls *classifier.Classifier, regions *region.Lookup, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		layout:     layout,
		dates:      dates,
		classifier: cls,
		regions:    regions,
		logger:     logger.With(slog.String("component", "converter"), slog.String("layout", layout.Name)),
		stats:      newStats(),
	}
}

// Layout returns the active layout.
func (c *Converter) Layout() Layout { return c.layout }

// Stats returns a copy of the accumulated run statistics.
func (c *Converter) Stats() Stats { return c.stats.clone() }

// Convert reads every record of source into frames. Schema, lookup and
// duplicate-write errors abort; numeric problems are counted into the E
// column of the affected row.
func (c *Converter) Convert(ctx context.Context, source string, r RecordReader, frames *frame.Collection) error {
	if err := c.checkHeader(source, r); err != nil {
		return err
	}
	c.stats.Sources = append(c.stats.Sources, source)
	before := c.stats.clone()

	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return apperrors.NewParsingError(fmt.Sprintf("%s: read record %d", source, line), err).
				WithContext("source", source).
				WithContext("line", line)
		}

		c.stats.Records++
		if err := c.convertRecord(source, record, frames); err != nil {
			return err
		}
	}

	counts := map[string]interface{}{
		"source":            source,
		"records":           c.stats.Records - before.Records,
		"accepted":          c.stats.Accepted - before.Accepted,
		"skipped":           c.stats.TotalSkipped() - before.TotalSkipped(),
		"conversion_errors": c.stats.ConversionErrors - before.ConversionErrors,
		"as_of":             c.stats.AsOf,
	}
	infrastructure.AddSpanEvent(ctx, "source converted", counts)

	c.logger.InfoContext(ctx, "source converted",
		slog.String("source", source),
		slog.Any("records", counts["records"]),
		slog.Any("accepted", counts["accepted"]),
		slog.Any("skipped", counts["skipped"]),
		slog.Any("conversion_errors", counts["conversion_errors"]),
		slog.String("as_of", c.stats.AsOf),
	)
	return nil
}

func (c *Converter) checkHeader(source string, r RecordReader) error {
	header, err := r.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return apperrors.NewParsingError(fmt.Sprintf("%s: read header", source), err).
			WithContext("source", source)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	n := len(c.layout.Header)
	if len(header) > n {
		n = len(header)
	}
	for i := 0; i < n; i++ {
		expected, _ := field(c.layout.Header, i)
		actual, _ := field(header, i)
		if expected != actual {
			return apperrors.NewSchemaError(source, i, expected, actual).
				WithContext("layout", c.layout.Name)
		}
	}
	return nil
}

func (c *Converter) skip(reason string) {
	c.stats.Skipped[reason]++
}

func (c *Converter) convertRecord(source string, record []string, frames *frame.Collection) error {
	rawDate, _ := field(record, c.layout.DateField)
	if strings.TrimSpace(rawDate) == "" {
		c.skip(SkipEmptyDate)
		return nil
	}

	if c.layout.KindField >= 0 {
		kind, _ := field(record, c.layout.KindField)
		if kind != c.layout.PrimaryKind {
			c.skip(SkipEntityKind)
			return nil
		}
	}

	entity, _ := field(record, c.layout.EntityField)
	if reason := c.classifier.Classify(entity); reason != classifier.ReasonNone {
		c.skip(string(reason))
		return nil
	}

	if _, err := c.regions.Region(entity); err != nil {
		return withSource(err, source)
	}

	day := c.dates.Parse(rawDate)
	if c.dates.IsBeforeStart(day) {
		c.skip(SkipBeforeStart)
		return nil
	}
	key := datekey.Format(day)
	if key > c.stats.AsOf {
		c.stats.AsOf = key
	}

	f := frames.Ensure(entity)
	tally := 0
	for _, nf := range c.layout.Numeric {
		raw, present := field(record, nf.Index)
		v := Coerce(raw, present)
		tally += v.Errors
		if nf.Column == "" {
			continue
		}
		if err := f.Set(key, nf.Column, v.Value); err != nil {
			return withSource(err, source)
		}
	}

	if err := f.Increment(key, frame.ColumnErrors, int64(tally)); err != nil {
		return withSource(err, source)
	}
	c.stats.ConversionErrors += tally
	c.stats.Accepted++
	return nil
}

func withSource(err error, source string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		appErr.WithContext("source", source)
		appErr.Message = source + ": " + appErr.Message
	}
	return err
}
