package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"cacases/internal/classifier"
	"cacases/internal/converter"
	"cacases/internal/dataprocessing"
	"cacases/internal/datekey"
	apperrors "cacases/internal/errors"
	"cacases/internal/frame"
	"cacases/internal/infrastructure"
	"cacases/internal/region"
	"cacases/pkg/contracts/domain"
)

// Stage names, used for spans, metrics and log fields.
const (
	StageConvert   = "convert"
	StageDerive    = "derive"
	StageGroom     = "groom"
	StageSummarize = "summarize"
	StageEmit      = "emit"
)

// Options configures a pipeline.
type Options struct {
	Layout         converter.Layout
	Start          time.Time
	Only           string
	IgnorePatterns []string
	Defaults       map[string]int64
	Regions        *region.Lookup
	// Tiers, when non-nil, must cover every emitted entity.
	Tiers map[string]domain.TierRecord
}

// Result is the outcome of a successful run.
type Result struct {
	RunID       string
	Frames      *frame.Collection
	Stats       converter.Stats
	GroomFilled int
	Snapshot    *domain.RunSnapshot
}

// Emitter consumes a finished run.
type Emitter interface {
	Emit(ctx context.Context, result *Result) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, result *Result) error

// Emit calls f.
func (f EmitterFunc) Emit(ctx context.Context, result *Result) error { return f(ctx, result) }

// Pipeline runs conversions with one fixed configuration.
type Pipeline struct {
	opts       Options
	classifier *classifier.Classifier
	tracer     trace.Tracer
	metrics    *infrastructure.PipelineMetrics
	logger     *slog.Logger
	now        func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithTracer sets the tracer used for stage spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = tracer }
}

// WithMetrics sets the run instruments.
func WithMetrics(metrics *infrastructure.PipelineMetrics) Option {
	return func(p *Pipeline) { p.metrics = metrics }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithClock overrides the snapshot creation clock.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New validates opts and builds a pipeline.
func New(opts Options, options ...Option) (*Pipeline, error) {
	if opts.Regions == nil {
		return nil, apperrors.NewConfigError("pipeline needs a region lookup", nil)
	}
	if opts.Start.IsZero() {
		start, err := datekey.ParseDate(datekey.DefaultStart)
		if err != nil {
			return nil, err
		}
		opts.Start = start
	}
	if opts.Layout.Name == "" {
		opts.Layout = converter.AreaTypeLayout()
	}
	if opts.Defaults == nil {
		opts.Defaults = frame.StandardDefaults()
	}

	cls, err := classifier.New(opts.Only, opts.IgnorePatterns...)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		opts:       opts,
		classifier: cls,
		tracer:     tracenoop.NewTracerProvider().Tracer("cacases/pipeline"),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, o := range options {
		o(p)
	}
	p.logger = infrastructure.WithComponent(p.logger, "pipeline")
	return p, nil
}

// Run converts sources and returns the groomed frames with their snapshot.
// The generated run id doubles as the trace_id of every log line.
func (p *Pipeline) Run(ctx context.Context, sources ...Source) (result *Result, err error) {
	runID := infrastructure.GenerateTraceID()
	ctx = infrastructure.WithTraceID(ctx, runID)

	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.layout", p.opts.Layout.Name),
			attribute.Int("run.sources", len(sources)),
		))
	defer span.End()

	started := time.Now()
	defer func() {
		p.metrics.RecordRun(ctx, p.opts.Layout.Name, err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			infrastructure.WithError(p.logger, err).ErrorContext(ctx, "run failed",
				slog.String("error_type", string(apperrors.TypeOf(err))),
				slog.Duration("duration", time.Since(started)))
		}
	}()

	p.logger.InfoContext(ctx, "run started",
		slog.String("layout", p.opts.Layout.Name),
		slog.Int("sources", len(sources)),
		slog.String("only", p.opts.Only))

	frames := frame.NewCollection(frame.StandardSchema())
	conv := converter.New(p.opts.Layout, datekey.NewParser(p.opts.Start), p.classifier, p.opts.Regions, p.logger)

	err = p.stage(ctx, StageConvert, func(ctx context.Context) error {
		for _, src := range sources {
			if err := conv.Convert(ctx, src.Name, src.Reader, frames); err != nil {
				return err
			}
		}
		return nil
	})
	stats := conv.Stats()
	p.metrics.RecordConversion(ctx, int64(stats.Records), int64(stats.ConversionErrors), stats.Skipped)
	for _, reason := range stats.SkipReasons() {
		p.logger.DebugContext(ctx, "records skipped",
			slog.String("reason", reason),
			slog.Int("count", stats.Skipped[reason]))
	}
	if err != nil {
		return nil, err
	}

	deriver := dataprocessing.NewCumulativeDeriver(p.opts.Layout.Cumulative, p.logger)
	if err = p.stage(ctx, StageDerive, func(ctx context.Context) error {
		return deriver.Derive(ctx, frames)
	}); err != nil {
		return nil, err
	}

	var filled int
	groomer := dataprocessing.NewGroomer(p.opts.Defaults, p.opts.Only, p.logger)
	if err = p.stage(ctx, StageGroom, func(ctx context.Context) error {
		var gerr error
		filled, gerr = groomer.Groom(ctx, frames)
		return gerr
	}); err != nil {
		return nil, err
	}
	if p.metrics != nil {
		p.metrics.CellsGroomed.Add(ctx, int64(filled))
	}

	var summaries []domain.EntitySummary
	summarizer := dataprocessing.NewSummarizer(p.opts.Regions, p.opts.Tiers, p.logger)
	if err = p.stage(ctx, StageSummarize, func(ctx context.Context) error {
		var serr error
		summaries, serr = summarizer.Summarize(ctx, frames)
		return serr
	}); err != nil {
		return nil, err
	}

	result = &Result{
		RunID:       runID,
		Frames:      frames,
		Stats:       stats,
		GroomFilled: filled,
		Snapshot: &domain.RunSnapshot{
			RunID:     runID,
			AsOf:      stats.AsOf,
			Layout:    p.opts.Layout.Name,
			CreatedAt: p.now().UTC(),
			Stats: domain.RunStats{
				Sources:          stats.Sources,
				Records:          stats.Records,
				Accepted:         stats.Accepted,
				Skipped:          stats.Skipped,
				ConversionErrors: stats.ConversionErrors,
				GroomFilled:      filled,
			},
			Entities: summaries,
		},
	}

	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"run.entities": frames.Len(),
		"run.as_of":    stats.AsOf,
	})
	p.logger.InfoContext(ctx, "run completed",
		slog.Int("entity_count", frames.Len()),
		slog.String("as_of", stats.AsOf),
		slog.Int("records", stats.Records),
		slog.Int("groom_filled", filled),
		slog.Duration("duration", time.Since(started)))
	return result, nil
}

// Emit hands result to every emitter in order, stopping at the first error.
func (p *Pipeline) Emit(ctx context.Context, result *Result, emitters ...Emitter) error {
	ctx = infrastructure.WithTraceID(ctx, result.RunID)
	err := p.stage(ctx, StageEmit, func(ctx context.Context) error {
		for _, e := range emitters {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.Emit(ctx, result); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if p.metrics != nil {
		p.metrics.EntitiesEmitted.Add(ctx, int64(result.Frames.Len()))
	}
	return nil
}

// Execute runs sources and emits the result on success.
func (p *Pipeline) Execute(ctx context.Context, sources []Source, emitters ...Emitter) (*Result, error) {
	result, err := p.Run(ctx, sources...)
	if err != nil {
		return nil, err
	}
	if err := p.Emit(ctx, result, emitters...); err != nil {
		return nil, err
	}
	return result, nil
}

// Frame returns the named entity's frame.
func (r *Result) Frame(name string) (*frame.Frame, error) {
	f, ok := r.Frames.Get(name)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("entity %q", name)).WithContext("entity", name)
	}
	return f, nil
}

func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "pipeline."+name,
		trace.WithAttributes(attribute.String("stage", name)))
	defer span.End()

	started := time.Now()
	err := fn(ctx)
	duration := time.Since(started)
	p.metrics.RecordStage(ctx, name, duration, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		return err
	}
	p.logger.DebugContext(ctx, "stage completed",
		slog.String("stage", name),
		slog.Duration("duration", duration))
	return nil
}
