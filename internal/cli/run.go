package cli

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"cacases/internal/config"
	"cacases/internal/converter"
	"cacases/internal/datekey"
	"cacases/internal/files"
	"cacases/internal/infrastructure"
	"cacases/internal/pipeline"
	"cacases/internal/region"
	"cacases/internal/tier"
)

const (
	flagCSV      = "csv"
	flagLayout   = "layout"
	flagSchema   = "schema"
	flagStart    = "start"
	flagOnly     = "only"
	flagRegion   = "region"
	flagTiers    = "tiers"
	flagOut      = "out"
	flagWorkers  = "workers"
	flagWorkbook = "workbook"
	flagStore    = "store"
	flagAddr     = "addr"
)

// runFlags are the conversion flags shared by convert and frame.
type runFlags struct {
	csv    []string
	layout string
	start  string
	only   string
	region string
	tiers  string
}

func (f *runFlags) register(flags *pflag.FlagSet) {
	flags.StringSliceVar(&f.csv, flagCSV, nil, "case CSV file, directory or glob (repeatable)")
	flags.StringVar(&f.layout, flagLayout, "", "input layout: "+strings.Join(converter.LayoutNames(), ", "))
	flags.StringVar(&f.layout, flagSchema, "", "alias for --layout")
	flags.StringVar(&f.start, flagStart, "", "first date to convert, e.g. 2020/03/18")
	flags.StringVar(&f.only, flagOnly, "", "convert only this entity")
	flags.StringVar(&f.region, flagRegion, "", "region YAML file")
	flags.StringVar(&f.tiers, flagTiers, "", "tier YAML file; every entity must then have tier data")
}

// apply copies the flags that were set into cfg.
func (f *runFlags) apply(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed(flagLayout) || flags.Changed(flagSchema) {
		cfg.Run.Layout = f.layout
	}
	if flags.Changed(flagStart) {
		cfg.Run.StartDate = f.start
	}
	if flags.Changed(flagOnly) {
		cfg.Run.Only = f.only
	}
	if flags.Changed(flagRegion) {
		cfg.Run.RegionFile = f.region
	}
	if flags.Changed(flagTiers) {
		cfg.Run.TierFile = f.tiers
	}
}

// newPipeline builds a pipeline from the run section of cfg.
func newPipeline(env *environment) (*pipeline.Pipeline, error) {
	run := env.cfg.Run

	layout, err := converter.LayoutByName(run.Layout)
	if err != nil {
		return nil, err
	}
	start := env.cfg.StartTime()
	regions, err := region.Load(run.RegionFile)
	if err != nil {
		return nil, err
	}

	var tiers tier.Table
	if run.TierFile != "" {
		if tiers, err = tier.Load(run.TierFile); err != nil {
			return nil, err
		}
	}

	metrics, err := infrastructure.CreatePipelineMetrics(env.providers.Meter)
	if err != nil {
		return nil, err
	}

	env.logger.Debug("pipeline configured",
		slog.String("layout", layout.Name),
		slog.String("start", datekey.Format(start)),
		slog.String("only", run.Only),
		slog.Int("regions", len(regions.Regions())),
		slog.Int("tiers", len(tiers)))

	return pipeline.New(pipeline.Options{
		Layout:         layout,
		Start:          start,
		Only:           run.Only,
		IgnorePatterns: run.IgnorePatterns,
		Defaults:       run.Defaults,
		Regions:        regions,
		Tiers:          tiers,
	},
		pipeline.WithTracer(env.providers.Tracer),
		pipeline.WithMetrics(metrics),
		pipeline.WithLogger(env.logger),
	)
}

// execute resolves the inputs and runs p over them with emitters.
func execute(ctx context.Context, p *pipeline.Pipeline, inputs []string, emitters ...pipeline.Emitter) (*pipeline.Result, error) {
	paths, err := files.ResolveInputs(inputs)
	if err != nil {
		return nil, err
	}
	sources, closeAll, err := pipeline.OpenFiles(paths...)
	if err != nil {
		return nil, err
	}
	defer closeAll()

	return p.Execute(ctx, sources, emitters...)
}
