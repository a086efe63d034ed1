// Package coordinate declares item-family hierarchies and validates keys and
// location chains against them.
//
// A Coordinate stores the family's own type tag and its ancestor chain
// separately, and exposes two projections: ValidatorChain (own type first,
// the order location chains are declared in) and SubscriptionChain (ancestors
// first, own type last, the order location subscriptions declare). Consumers
// never see a raw flat array, so the two historical "which end is the item"
// conventions cannot be confused.
//
// Validation failures are structured: every error carries the operation
// label, the expected and received tag sequences, and (for order mismatches)
// the index of divergence, so calling layers can build diagnostics without
// re-parsing message text.
package coordinate
