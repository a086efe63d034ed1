package coordinate

import (
	"fmt"
	"strings"

	"github.com/roach88/strata/internal/key"
)

// Coordinate declares the full hierarchy for one item family.
//
// OwnType is the family's own type tag; Ancestors is the expected order of a
// key's containment chain, nearest container first. Scopes optionally name
// the storage domains the family lives in.
type Coordinate struct {
	OwnType   key.TypeTag
	Ancestors []key.TypeTag
	Scopes    []string
}

// New builds a Coordinate from a validator-order tag sequence (own type
// first, ancestors after), the way item families declare themselves.
func New(chain []key.TypeTag, scopes ...string) (Coordinate, error) {
	if len(chain) == 0 {
		return Coordinate{}, fmt.Errorf("coordinate requires at least one type tag")
	}
	for i, tag := range chain {
		if tag == "" {
			return Coordinate{}, fmt.Errorf("coordinate tag at index %d is empty", i)
		}
	}
	ancestors := make([]key.TypeTag, len(chain)-1)
	copy(ancestors, chain[1:])
	return Coordinate{OwnType: chain[0], Ancestors: ancestors, Scopes: scopes}, nil
}

// Depth returns the number of hierarchy levels, the own type included.
func (c Coordinate) Depth() int {
	return len(c.Ancestors) + 1
}

// ValidatorChain returns the tag sequence in declaration order: own type
// first, then the expected containment chain. This is the order a ComKey's
// Loc field follows.
func (c Coordinate) ValidatorChain() []key.TypeTag {
	chain := make([]key.TypeTag, 0, c.Depth())
	chain = append(chain, c.OwnType)
	chain = append(chain, c.Ancestors...)
	return chain
}

// SubscriptionChain returns the tag sequence in subscription order: the
// ancestor chain reversed (root first), own type last. Location
// subscriptions declare their type chains this way.
func (c Coordinate) SubscriptionChain() []key.TypeTag {
	chain := make([]key.TypeTag, 0, c.Depth())
	for i := len(c.Ancestors) - 1; i >= 0; i-- {
		chain = append(chain, c.Ancestors[i])
	}
	chain = append(chain, c.OwnType)
	return chain
}

// String renders the validator-order chain for diagnostics.
func (c Coordinate) String() string {
	tags := c.ValidatorChain()
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = string(tag)
	}
	return strings.Join(parts, " > ")
}
