// Package query evaluates declarative item queries: reference equality,
// recursive boolean condition trees, time-windowed event predicates, and
// existential aggregation sub-queries.
//
// Evaluation is pure and synchronous. An unsatisfied clause is a non-match
// (false), never an error; only structurally malformed predicates (an
// ordering operator against a null literal, a membership operator against a
// non-array literal) fail the evaluation call.
//
// The package also carries the canonical round-trip codec between a
// structured ItemQuery and the flat parameter map used at an HTTP GET
// boundary.
package query
