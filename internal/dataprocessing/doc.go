// Package dataprocessing turns converted frames into complete series.
//
// The stages run in order after conversion:
//
//	CumulativeDeriver  running totals from daily columns (I -> C, F -> D)
//	Groomer            default values for every column absent on a present date
//	Summarizer         per-entity snapshot with region and tier status
//
// Derivation and grooming mutate frames in place and are sequential; the
// collection must not be shared with another goroutine while they run.
package dataprocessing
