package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputPaths resolves every file a run writes under one directory.
type OutputPaths struct {
	Dir string
}

// NewOutputPaths cleans dir and returns its resolver.
func NewOutputPaths(dir string) OutputPaths {
	return OutputPaths{Dir: filepath.Clean(dir)}
}

// EnsureDirectories creates the output directory.
func (p OutputPaths) EnsureDirectories() error {
	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", p.Dir, err)
	}
	return nil
}

// DataFile is the frame file for an entity variable name.
func (p OutputPaths) DataFile(variable string) string {
	return filepath.Join(p.Dir, variable+DataFileExt)
}

// ScriptFile is the generated R script.
func (p OutputPaths) ScriptFile() string { return filepath.Join(p.Dir, ScriptFileName) }

// DateFile holds the run's as-of date.
func (p OutputPaths) DateFile() string { return filepath.Join(p.Dir, DateFileName) }

// SnapshotFile holds the structured run snapshot.
func (p OutputPaths) SnapshotFile() string { return filepath.Join(p.Dir, SnapshotFileName) }

// WorkbookFile is the optional spreadsheet export.
func (p OutputPaths) WorkbookFile() string { return filepath.Join(p.Dir, WorkbookFileName) }

// MetricsFile holds the run's metrics in Prometheus text format.
func (p OutputPaths) MetricsFile() string { return filepath.Join(p.Dir, MetricsFileName) }
