package exporter

import (
	"context"
	"io"
	"log/slog"

	"cacases/internal/config"
	"cacases/internal/frame"
	"cacases/pkg/contracts/domain"
)

// Options controls which outputs Export produces.
type Options struct {
	Workers  int
	Workbook bool
}

// Report lists what Export wrote.
type Report struct {
	Dir      string   `json:"dir"`
	Entities int      `json:"entities"`
	Files    []string `json:"files"`
}

// Exporter writes a run directory.
type Exporter struct {
	paths  config.OutputPaths
	opts   Options
	frames *FrameWriter
	logger *slog.Logger
}

// New creates an exporter for paths.
func New(paths config.OutputPaths, opts Options, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &Exporter{
		paths:  paths,
		opts:   opts,
		frames: NewFrameWriter(paths, opts.Workers, logger),
		logger: logger,
	}
}

// Export writes every frame, the R script, DATE.txt, the snapshot and,
// when enabled, the workbook. Frames must be fully groomed.
func (e *Exporter) Export(ctx context.Context, frames *frame.Collection, snapshot *domain.RunSnapshot) (*Report, error) {
	if err := e.paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	dataFiles, err := e.frames.WriteAll(ctx, frames)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Dir:      e.paths.Dir,
		Entities: len(dataFiles),
		Files:    dataFiles,
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	script := NewScriptData(e.paths, frames)
	if err := writeFile(e.paths.ScriptFile(), func(w io.Writer) error {
		return RenderScript(w, script)
	}); err != nil {
		return nil, err
	}
	report.Files = append(report.Files, e.paths.ScriptFile())

	if err := writeLinesFile(e.paths.DateFile(), []string{snapshot.AsOf}); err != nil {
		return nil, err
	}
	report.Files = append(report.Files, e.paths.DateFile())

	if err := writeFile(e.paths.SnapshotFile(), func(w io.Writer) error {
		return WriteSnapshot(w, snapshot)
	}); err != nil {
		return nil, err
	}
	report.Files = append(report.Files, e.paths.SnapshotFile())

	if e.opts.Workbook {
		if err := writeFile(e.paths.WorkbookFile(), func(w io.Writer) error {
			return WriteWorkbook(w, frames, snapshot)
		}); err != nil {
			return nil, err
		}
		report.Files = append(report.Files, e.paths.WorkbookFile())
	}

	e.logger.InfoContext(ctx, "run exported",
		slog.String("dir", e.paths.Dir),
		slog.Int("entity_count", report.Entities),
		slog.Int("file_count", len(report.Files)),
		slog.String("as_of", snapshot.AsOf))
	return report, nil
}
