package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"cacases/internal/config"
	"cacases/internal/frame"
)

// FrameWriter writes entity frames as whitespace separated tables.
type FrameWriter struct {
	paths   config.OutputPaths
	workers int
	logger  *slog.Logger
}

// NewFrameWriter creates a writer emitting into paths with at most workers
// files in flight.
func NewFrameWriter(paths config.OutputPaths, workers int, logger *slog.Logger) *FrameWriter {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FrameWriter{paths: paths, workers: workers, logger: logger}
}

// WriteFrame renders f into its .data file and returns the path.
func (w *FrameWriter) WriteFrame(f *frame.Frame) (string, error) {
	lines, err := f.Rows()
	if err != nil {
		return "", err
	}
	path := w.paths.DataFile(frame.Variable(f.Name()))
	if err := writeLinesFile(path, lines); err != nil {
		return "", err
	}
	return path, nil
}

// WriteAll writes every frame in frames. Work is sharded by entity over a
// bounded group; the first failure cancels the rest.
func (w *FrameWriter) WriteAll(ctx context.Context, frames *frame.Collection) ([]string, error) {
	names := frames.Names()
	paths := make([]string, len(names))
	var written atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)

	for i, name := range names {
		f, _ := frames.Get(name)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path, err := w.WriteFrame(f)
			if err != nil {
				return fmt.Errorf("write frame %s: %w", name, err)
			}
			paths[i] = path
			written.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	w.logger.InfoContext(ctx, "frames written",
		slog.Int64("entity_count", written.Load()),
		slog.Int("workers", w.workers),
		slog.String("dir", w.paths.Dir))
	return paths, nil
}

// WriteTo renders a single frame to out. Single-entity mode uses this to
// print to stdout.
func WriteTo(out io.Writer, f *frame.Frame) error {
	lines, err := f.Rows()
	if err != nil {
		return err
	}
	return WriteLines(out, lines)
}
