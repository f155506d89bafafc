// Package pipeline runs one conversion: every source through the converter,
// then cumulative derivation, grooming and summarization, each stage in its
// own span. Outputs are handed to emitters only after all stages succeed, so
// a failed run writes nothing.
package pipeline
