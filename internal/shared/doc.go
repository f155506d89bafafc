// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// structured logs and small builders for case-file fixtures.
package shared
