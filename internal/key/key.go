package key

// TypeTag names an item category within the hierarchy (e.g. "product").
// Tags compare by exact string equality.
type TypeTag string

// LocKey is one level of containment: a type tag plus the identifier of the
// containing item at that level.
type LocKey struct {
	KT TypeTag
	LK Identifier
}

// Present reports whether both the tag and identifier carry usable values.
// An identifier that is nil, empty, or the literal string "null" does not
// address anything.
func (l LocKey) Present() bool {
	return l.KT != "" && identifierPresent(l.LK)
}

// ItemKey is the sealed union of key arms.
//
// Three arms, not two: a composite key whose containment context is unknown
// (UnlocatedComKey, used for foreign-key references) is distinct from both a
// root-level PriKey and a fully-located ComKey. Structural decoding is the
// only place the empty-chain ambiguity exists; once constructed, the arm is
// explicit.
type ItemKey interface {
	itemKey() // Sealed - only types in this package implement it

	// Type returns the key's own type tag.
	Type() TypeTag

	// Primary returns the key's primary identifier.
	Primary() Identifier
}

// PriKey identifies a root-level item: no containment.
type PriKey struct {
	KT TypeTag
	PK Identifier
}

func (PriKey) itemKey() {}

// Type returns the key's own type tag.
func (k PriKey) Type() TypeTag { return k.KT }

// Primary returns the primary identifier.
func (k PriKey) Primary() Identifier { return k.PK }

// ComKey identifies a contained item. Loc is the ordered containment chain,
// nearest container first, and must be non-empty; a composite key without a
// known chain is an UnlocatedComKey.
type ComKey struct {
	KT  TypeTag
	PK  Identifier
	Loc []LocKey
}

func (ComKey) itemKey() {}

// Type returns the key's own type tag.
func (k ComKey) Type() TypeTag { return k.KT }

// Primary returns the primary identifier.
func (k ComKey) Primary() Identifier { return k.PK }

// UnlocatedComKey identifies a contained item whose containment context is
// unknown. Used for foreign-key references, where the referencing record
// stores only the target's own type and identifier.
type UnlocatedComKey struct {
	KT TypeTag
	PK Identifier
}

func (UnlocatedComKey) itemKey() {}

// Type returns the key's own type tag.
func (k UnlocatedComKey) Type() TypeTag { return k.KT }

// Primary returns the primary identifier.
func (k UnlocatedComKey) Primary() Identifier { return k.PK }

// IsPriKey reports whether k is a root-level primary key.
func IsPriKey(k ItemKey) bool {
	_, ok := k.(PriKey)
	return ok
}

// IsComKey reports whether k is a located composite key.
func IsComKey(k ItemKey) bool {
	_, ok := k.(ComKey)
	return ok
}

// IsUnlocated reports whether k is a composite key with unknown containment.
func IsUnlocated(k ItemKey) bool {
	_, ok := k.(UnlocatedComKey)
	return ok
}

// Equals reports exact key equality: same arm, same type tag, identifier
// equality by kind and value, and for ComKey the same chain length with every
// LocKey pairwise equal in order. A PriKey never equals a ComKey, even with
// matching tag and identifier. Nil keys equal nothing.
func Equals(a, b ItemKey) bool {
	if a == nil || b == nil {
		return false
	}
	switch ak := a.(type) {
	case PriKey:
		bk, ok := b.(PriKey)
		return ok && ak.KT == bk.KT && IdentifierEquals(ak.PK, bk.PK)
	case UnlocatedComKey:
		bk, ok := b.(UnlocatedComKey)
		return ok && ak.KT == bk.KT && IdentifierEquals(ak.PK, bk.PK)
	case ComKey:
		bk, ok := b.(ComKey)
		if !ok || ak.KT != bk.KT || !IdentifierEquals(ak.PK, bk.PK) {
			return false
		}
		if len(ak.Loc) != len(bk.Loc) {
			return false
		}
		for i := range ak.Loc {
			if ak.Loc[i].KT != bk.Loc[i].KT || !IdentifierEquals(ak.Loc[i].LK, bk.Loc[i].LK) {
				return false
			}
		}
		return true
	}
	return false
}

// NormalizedEquals reports key equality with identifiers compared by
// canonical string form instead of exact kind+value.
//
// Whole-key comparison deliberately collapses the tri-state: a nil side is
// false, not Incomparable. Callers comparing individual identifiers (form
// validation and the like) use CompareNormalized, which keeps the tri-state.
func NormalizedEquals(a, b ItemKey) bool {
	if a == nil || b == nil {
		return false
	}
	switch ak := a.(type) {
	case PriKey:
		bk, ok := b.(PriKey)
		return ok && ak.KT == bk.KT && CompareNormalized(ak.PK, bk.PK) == Equal
	case UnlocatedComKey:
		bk, ok := b.(UnlocatedComKey)
		return ok && ak.KT == bk.KT && CompareNormalized(ak.PK, bk.PK) == Equal
	case ComKey:
		bk, ok := b.(ComKey)
		if !ok || ak.KT != bk.KT || CompareNormalized(ak.PK, bk.PK) != Equal {
			return false
		}
		if len(ak.Loc) != len(bk.Loc) {
			return false
		}
		for i := range ak.Loc {
			if ak.Loc[i].KT != bk.Loc[i].KT || CompareNormalized(ak.Loc[i].LK, bk.Loc[i].LK) != Equal {
				return false
			}
		}
		return true
	}
	return false
}
