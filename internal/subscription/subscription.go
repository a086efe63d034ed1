package subscription

import (
	"time"

	"github.com/roach88/strata/internal/key"
)

// EventType classifies a change notification.
type EventType string

const (
	EventCreate EventType = "create"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
	EventAction EventType = "action"
)

// ChangeEvent is one change notification produced by an external event
// source: what happened, to which item, in which storage scopes.
type ChangeEvent struct {
	EventType EventType
	Key       key.ItemKey
	Scopes    []string
	Timestamp time.Time
}

// Subscription is the sealed union of subscription variants.
//
// Both variants share the scope and event-type filters. An empty filter
// accepts everything; a non-empty filter requires membership (event types)
// or intersection (scopes).
type Subscription interface {
	subscription() // Sealed - only types in this package implement it

	// ID identifies the subscription for delivery bookkeeping.
	ID() string

	// EventTypes returns the accepted event types; empty accepts all.
	EventTypes() []EventType

	// Scopes returns the required scope set; empty accepts any scope.
	Scopes() []string
}

// ItemSubscription subscribes to changes of exactly one item, by exact key
// equality. Variant-sensitive: a primary-key subscription never fires for a
// composite-key event, even with matching tag and identifier.
type ItemSubscription struct {
	SubID      string
	Key        key.ItemKey
	Types      []EventType
	ScopeNames []string
}

func (ItemSubscription) subscription() {}

// ID identifies the subscription.
func (s ItemSubscription) ID() string { return s.SubID }

// EventTypes returns the accepted event types.
func (s ItemSubscription) EventTypes() []EventType { return s.Types }

// Scopes returns the required scope set.
func (s ItemSubscription) Scopes() []string { return s.ScopeNames }

// LocationSubscription subscribes to changes of every item of one family
// within a containment subtree.
//
// TypeChain is in subscription order: ancestors first, the item's own type
// last. Note this is the opposite end-convention from a Coordinate's
// validator order; build it with Coordinate.SubscriptionChain rather than by
// hand. Location is the containment prefix to match, in the same order a
// composite key declares its chain; empty matches the whole family.
type LocationSubscription struct {
	SubID      string
	TypeChain  []key.TypeTag
	Location   []key.LocKey
	Types      []EventType
	ScopeNames []string
}

func (LocationSubscription) subscription() {}

// ID identifies the subscription.
func (s LocationSubscription) ID() string { return s.SubID }

// EventTypes returns the accepted event types.
func (s LocationSubscription) EventTypes() []EventType { return s.Types }

// Scopes returns the required scope set.
func (s LocationSubscription) Scopes() []string { return s.ScopeNames }
