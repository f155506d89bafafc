// Package cli implements the cacases command line: convert, frame, tier,
// serve and version. Each command loads the configuration (defaults, YAML
// file, CACASES_* environment), applies the flags that were set on the
// command line, validates the result and only then touches any input.
package cli
