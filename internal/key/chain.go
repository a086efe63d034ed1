package key

import (
	"errors"
	"fmt"
)

// ErrEmptyLocationChain is returned when a zero-length location chain is
// inflated into a key. Deterministic given its input; never retried.
var ErrEmptyLocationChain = errors.New("cannot inflate an empty location chain")

// TypeChain returns the ordered list of type tags a key represents: the key's
// own tag first, followed by its containment chain's tags for a ComKey.
func TypeChain(k ItemKey) []TypeTag {
	switch key := k.(type) {
	case PriKey:
		return []TypeTag{key.KT}
	case UnlocatedComKey:
		return []TypeTag{key.KT}
	case ComKey:
		chain := make([]TypeTag, 0, len(key.Loc)+1)
		chain = append(chain, key.KT)
		for _, loc := range key.Loc {
			chain = append(chain, loc.KT)
		}
		return chain
	}
	return nil
}

// LocationOf projects a key to its location-chain representation: the item
// itself as a LocKey, followed by its parent chain. Aggregation queries use
// this to address the containment level where an item's children live.
//
// InflateLocation inverts it: LocationOf then InflateLocation reproduces the
// original PriKey or ComKey.
func LocationOf(k ItemKey) []LocKey {
	switch key := k.(type) {
	case PriKey:
		return []LocKey{{KT: key.KT, LK: key.PK}}
	case UnlocatedComKey:
		return []LocKey{{KT: key.KT, LK: key.PK}}
	case ComKey:
		chain := make([]LocKey, 0, len(key.Loc)+1)
		chain = append(chain, LocKey{KT: key.KT, LK: key.PK})
		chain = append(chain, key.Loc...)
		return chain
	}
	return nil
}

// InflateLocation builds a key from an ordered location chain. A one-element
// chain yields a PriKey; a longer chain yields a ComKey whose first element
// becomes the primary tag/identifier and whose remainder becomes the
// containment chain. An empty chain is an error.
func InflateLocation(chain []LocKey) (ItemKey, error) {
	if len(chain) == 0 {
		return nil, fmt.Errorf("inflate location: %w", ErrEmptyLocationChain)
	}
	head := chain[0]
	if len(chain) == 1 {
		return PriKey{KT: head.KT, PK: head.LK}, nil
	}
	loc := make([]LocKey, len(chain)-1)
	copy(loc, chain[1:])
	return ComKey{KT: head.KT, PK: head.LK, Loc: loc}, nil
}
