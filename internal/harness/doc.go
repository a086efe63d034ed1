// Package harness runs YAML conformance scenarios against the addressing,
// validation, matching, and query components.
//
// A scenario declares coordinates plus a list of checks (validate-key,
// validate-location, match-event, query) with expected outcomes. The runner
// executes every check in order and reports per-check results; golden-file
// comparison of the full report keeps scenario output stable over time.
package harness
