// Package value provides the closed set of field value kinds for item state.
//
// This package contains type definitions and comparison primitives only. All
// other internal packages may import value; value imports nothing internal.
// Keeping the value vocabulary closed (string, int, float, bool, timestamp,
// array, null) is what lets the condition evaluator's operator table stay
// exhaustive.
package value
