package subscription

import (
	"github.com/roach88/strata/internal/key"
)

// Matches reports whether event should be delivered to sub.
//
// Filters short-circuit cheapest first:
//  1. Scopes: a subscription with no scopes accepts any scope; otherwise the
//     event's scope set must intersect the subscription's.
//  2. Event type: no declared types accepts any type; otherwise the event's
//     type must be a member.
//  3. Key or location, by subscription variant.
func Matches(event ChangeEvent, sub Subscription) bool {
	if !scopesAccept(sub.Scopes(), event.Scopes) {
		return false
	}
	if !typeAccepted(sub.EventTypes(), event.EventType) {
		return false
	}

	switch s := sub.(type) {
	case ItemSubscription:
		return key.Equals(event.Key, s.Key)
	case *ItemSubscription:
		return key.Equals(event.Key, s.Key)
	case LocationSubscription:
		return matchesLocation(event.Key, s)
	case *LocationSubscription:
		return matchesLocation(event.Key, *s)
	}
	return false
}

// FindMatching returns the subscriptions that should receive event,
// preserving input order. Invocation of the matched subscribers is the
// caller's concern.
func FindMatching(event ChangeEvent, subs []Subscription) []Subscription {
	var matched []Subscription
	for _, sub := range subs {
		if Matches(event, sub) {
			matched = append(matched, sub)
		}
	}
	return matched
}

// scopesAccept checks the scope filter: empty required set accepts anything,
// otherwise the event's scopes must intersect it.
func scopesAccept(required, got []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, want := range required {
		for _, scope := range got {
			if want == scope {
				return true
			}
		}
	}
	return false
}

// typeAccepted checks the event-type filter: empty set accepts any type.
func typeAccepted(accepted []EventType, t EventType) bool {
	if len(accepted) == 0 {
		return true
	}
	for _, want := range accepted {
		if want == t {
			return true
		}
	}
	return false
}

// matchesLocation applies the location-subscription rules.
//
// The subscription's type chain ends with the item's own type; an event for
// a different family never matches. Then:
//   - a primary-key event matches only a root-level subscription (empty
//     declared location)
//   - a composite-key event matches when the declared location is empty or
//     is a literal prefix of the event key's chain: pairwise tag and
//     identifier equality at each index, event chain at least as long
//   - an unlocated composite event carries no chain, so it matches only an
//     empty declared location
func matchesLocation(k key.ItemKey, sub LocationSubscription) bool {
	if k == nil || len(sub.TypeChain) == 0 {
		return false
	}
	if k.Type() != sub.TypeChain[len(sub.TypeChain)-1] {
		return false
	}

	switch kk := k.(type) {
	case key.PriKey:
		return len(sub.Location) == 0
	case key.UnlocatedComKey:
		return len(sub.Location) == 0
	case key.ComKey:
		if len(sub.Location) == 0 {
			return true
		}
		if len(sub.Location) > len(kk.Loc) {
			return false
		}
		for i, want := range sub.Location {
			got := kk.Loc[i]
			if want.KT != got.KT || !key.IdentifierEquals(want.LK, got.LK) {
				return false
			}
		}
		return true
	}
	return false
}
