// Package files resolves the case CSV inputs named on the command line.
// An input may be a file, a directory (every *.csv inside it, sorted by
// name) or a glob pattern.
package files
