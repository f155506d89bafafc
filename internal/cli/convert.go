package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"cacases/internal/config"
	"cacases/internal/exporter"
	"cacases/internal/pipeline"
	"cacases/internal/store"
)

// NewConvertCommand converts case CSV files into a run directory.
func NewConvertCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var (
		rf       runFlags
		out      string
		workers  int
		workbook bool
		storeDB  string
	)

	convertCommand := &cobra.Command{
		Use:   "convert --csv FILE [--csv FILE...] --out DIR",
		Short: "convert case CSV files into per-entity frames and an R script",
		Long: `Reads every case CSV, builds one frame per entity, derives the cumulative
columns, grooms missing dates and writes <entity>.data files, process.R,
DATE.txt, snapshot.json and the run's metrics.prom into the output
directory. With --store the run snapshot is also saved for the API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			env, err := setup(cmd, stderr, func(cfg *config.Config) error {
				rf.apply(flags, cfg)
				if flags.Changed(flagOut) {
					cfg.Run.OutputDir = out
				}
				if flags.Changed(flagWorkers) {
					cfg.Run.Workers = workers
				}
				if flags.Changed(flagWorkbook) {
					cfg.Run.Workbook = workbook
				}
				if flags.Changed(flagStore) {
					cfg.Store.Path = storeDB
				}
				return nil
			})
			if err != nil {
				return err
			}
			defer env.close(cmd)

			return runConvert(cmd.Context(), env, rf.csv, stdout)
		},
	}

	flags := convertCommand.Flags()
	rf.register(flags)
	flags.StringVar(&out, flagOut, "", "output directory")
	flags.IntVar(&workers, flagWorkers, 0, "parallel frame writers")
	flags.BoolVar(&workbook, flagWorkbook, false, "also write frames.xlsx")
	flags.StringVar(&storeDB, flagStore, "", "snapshot database to record the run in")
	convertCommand.MarkFlagRequired(flagCSV)

	return convertCommand
}

func runConvert(ctx context.Context, env *environment, inputs []string, stdout io.Writer) error {
	p, err := newPipeline(env)
	if err != nil {
		return err
	}

	paths := env.cfg.Output()
	exp := exporter.New(paths, exporter.Options{
		Workers:  env.cfg.Run.Workers,
		Workbook: env.cfg.Run.Workbook,
	}, env.logger)

	var report *exporter.Report
	emitters := []pipeline.Emitter{
		pipeline.EmitterFunc(func(ctx context.Context, result *pipeline.Result) error {
			r, err := exp.Export(ctx, result.Frames, result.Snapshot)
			report = r
			return err
		}),
	}

	if env.cfg.Store.Path != "" {
		st, err := store.Open(env.cfg.Store.Path, env.cfg.Store.Timeout, env.logger)
		if err != nil {
			return err
		}
		defer st.Close()
		emitters = append(emitters, pipeline.EmitterFunc(func(ctx context.Context, result *pipeline.Result) error {
			return st.Save(ctx, result.Snapshot)
		}))
	}

	result, err := execute(ctx, p, inputs, emitters...)
	if merr := env.providers.WriteMetrics(paths.MetricsFile()); merr != nil {
		if err == nil {
			return merr
		}
		env.logger.Warn("metrics not written", slog.String("error", merr.Error()))
	}
	if err != nil {
		return err
	}

	env.logger.Info("conversion complete",
		slog.String("run_id", result.RunID),
		slog.String("as_of", result.Snapshot.AsOf),
		slog.Int("entities", report.Entities),
		slog.Int("files", len(report.Files)),
		slog.String("dir", report.Dir))

	_, err = fmt.Fprintf(stdout, "run %s as of %s: %d entities written to %s\n",
		result.RunID, asOfOrNone(result.Snapshot.AsOf), report.Entities, report.Dir)
	return err
}

func asOfOrNone(asOf string) string {
	if asOf == "" {
		return "(no data)"
	}
	return asOf
}

func init() {
	subcommandFns["convert"] = NewConvertCommand
}
