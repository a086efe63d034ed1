// Package cli implements the strata command line interface: validating keys
// against CUE-declared coordinate registries, running the subscription
// matcher over fixture input, and evaluating queries against items.
//
// Output is text or JSON (--format); verbose diagnostics go to stderr so
// JSON output stays parseable. Exit codes: 0 success, 1 validation or match
// failure, 2 command error.
package cli
