// Package exporter writes the outputs of a finished run.
//
// A run directory holds one <variable>.data frame table per entity, the
// process.R script that loads and plots them, DATE.txt with the as-of date,
// snapshot.json with the structured summary, and optionally frames.xlsx.
//
// Example usage:
//
//	exp := exporter.New(cfg.Output(), exporter.Options{Workers: 4}, logger)
//	report, err := exp.Export(ctx, frames, snapshot)
package exporter
