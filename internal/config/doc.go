// Package config loads cacases configuration.
//
// Sources are applied in order, each overriding the last:
//
//	1. Default() values
//	2. a YAML file (keys shown in Default's yaml tags)
//	3. CACASES_* environment variables, e.g. CACASES_RUN_LAYOUT=legacy
//
// Command-line flags are applied by the caller after Load returns. The
// merged result is checked with struct validation tags and then with
// semantic checks (start date parses, default columns exist).
package config
