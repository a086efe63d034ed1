// Package key provides the identity model for items in a nested containment
// hierarchy: primary keys, composite keys with location chains, and their
// equality semantics.
//
// The key union has three arms (PriKey, ComKey, UnlocatedComKey) behind a
// sealed interface. A composite key with an unknown containment context is a
// distinct arm, not a ComKey with an empty chain, so the foreign-key case can
// never be confused with a root-level primary key by construction.
//
// Two equality regimes exist:
//   - exact: same arm, same type tags, identifier equality by kind and value
//   - normalized: identifiers compared via canonical string form, so the
//     string "42" and the number 42 identify the same logical item
//
// All operations are pure. Key values are immutable; callers construct them
// once and consume them read-only.
package key
