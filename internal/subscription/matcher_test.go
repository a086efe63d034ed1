package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/key"
)

func productEvent() ChangeEvent {
	return ChangeEvent{
		EventType: EventUpdate,
		Key: key.ComKey{KT: "product", PK: key.IDString("p1"), Loc: []key.LocKey{
			{KT: "store", LK: key.IDString("s1")},
		}},
		Scopes: []string{"alpha"},
	}
}

func TestFindMatchingFiveSubscriptionScenario(t *testing.T) {
	event := productEvent()
	eventKey := event.Key

	subs := []Subscription{
		ItemSubscription{SubID: "s1", Key: eventKey, Types: []EventType{EventUpdate}, ScopeNames: []string{"alpha"}},
		ItemSubscription{SubID: "s2", Key: eventKey, Types: []EventType{EventDelete}},
		ItemSubscription{SubID: "s3", Key: key.ComKey{KT: "product", PK: key.IDString("p2"), Loc: []key.LocKey{
			{KT: "store", LK: key.IDString("s1")},
		}}},
		LocationSubscription{SubID: "s4", TypeChain: []key.TypeTag{"store", "product"}, Location: []key.LocKey{
			{KT: "store", LK: key.IDString("s1")},
		}, Types: []EventType{EventUpdate}},
		LocationSubscription{SubID: "s5", TypeChain: []key.TypeTag{"store", "product"}, Location: []key.LocKey{
			{KT: "store", LK: key.IDString("s1")},
		}, ScopeNames: []string{"beta"}},
	}

	matched := FindMatching(event, subs)

	require.Len(t, matched, 2)
	assert.Equal(t, "s1", matched[0].ID(), "input order is preserved")
	assert.Equal(t, "s4", matched[1].ID())
}

func TestMatchesScopeFilter(t *testing.T) {
	event := productEvent()
	sub := ItemSubscription{SubID: "s", Key: event.Key, ScopeNames: []string{"beta", "alpha"}}

	assert.True(t, Matches(event, sub), "any intersection accepts")

	sub.ScopeNames = []string{"beta"}
	assert.False(t, Matches(event, sub))

	sub.ScopeNames = nil
	assert.True(t, Matches(event, sub), "no required scopes accepts any scope")
}

func TestMatchesEventTypeFilter(t *testing.T) {
	event := productEvent()
	sub := ItemSubscription{SubID: "s", Key: event.Key}

	assert.True(t, Matches(event, sub), "no declared types accepts any type")

	sub.Types = []EventType{EventCreate, EventUpdate}
	assert.True(t, Matches(event, sub))

	sub.Types = []EventType{EventAction}
	assert.False(t, Matches(event, sub))
}

func TestMatchesItemSubscriptionVariantSensitive(t *testing.T) {
	event := ChangeEvent{
		EventType: EventUpdate,
		Key:       key.PriKey{KT: "product", PK: key.IDString("p1")},
	}
	sub := ItemSubscription{SubID: "s", Key: key.UnlocatedComKey{KT: "product", PK: key.IDString("p1")}}

	assert.False(t, Matches(event, sub),
		"matching tag and identifier across arms never fire")
}

func TestMatchesLocationPrefixContainment(t *testing.T) {
	event := ChangeEvent{
		EventType: EventCreate,
		Key: key.ComKey{KT: "listing", PK: key.IDString("l9"), Loc: []key.LocKey{
			{KT: "store", LK: key.IDString("s1")},
			{KT: "region", LK: key.IDString("r1")},
		}},
	}
	chain := []key.TypeTag{"region", "store", "listing"}

	empty := LocationSubscription{SubID: "w1", TypeChain: chain}
	assert.True(t, Matches(event, empty), "empty declared location matches the whole family")

	prefix := LocationSubscription{SubID: "w2", TypeChain: chain, Location: []key.LocKey{
		{KT: "store", LK: key.IDString("s1")},
	}}
	assert.True(t, Matches(event, prefix))

	full := LocationSubscription{SubID: "w3", TypeChain: chain, Location: []key.LocKey{
		{KT: "store", LK: key.IDString("s1")},
		{KT: "region", LK: key.IDString("r1")},
	}}
	assert.True(t, Matches(event, full), "the whole chain is its own prefix")

	notPrefix := LocationSubscription{SubID: "w4", TypeChain: chain, Location: []key.LocKey{
		{KT: "region", LK: key.IDString("r1")},
	}}
	assert.False(t, Matches(event, notPrefix), "a suffix is not a prefix")

	longer := LocationSubscription{SubID: "w5", TypeChain: chain, Location: []key.LocKey{
		{KT: "store", LK: key.IDString("s1")},
		{KT: "region", LK: key.IDString("r1")},
		{KT: "zone", LK: key.IDString("z1")},
	}}
	assert.False(t, Matches(event, longer), "a shorter event chain never matches")

	wrongID := LocationSubscription{SubID: "w6", TypeChain: chain, Location: []key.LocKey{
		{KT: "store", LK: key.IDString("s2")},
	}}
	assert.False(t, Matches(event, wrongID))
}

func TestMatchesLocationFamilyFilter(t *testing.T) {
	event := productEvent()
	sub := LocationSubscription{SubID: "s", TypeChain: []key.TypeTag{"store", "vendor"}}

	assert.False(t, Matches(event, sub), "own type is the chain's last element")
}

func TestMatchesLocationPrimaryKeyEvent(t *testing.T) {
	event := ChangeEvent{
		EventType: EventDelete,
		Key:       key.PriKey{KT: "vendor", PK: key.IDString("v1")},
	}

	root := LocationSubscription{SubID: "s", TypeChain: []key.TypeTag{"vendor"}}
	assert.True(t, Matches(event, root))

	located := LocationSubscription{SubID: "s", TypeChain: []key.TypeTag{"store", "vendor"}, Location: []key.LocKey{
		{KT: "store", LK: key.IDString("s1")},
	}}
	assert.False(t, Matches(event, located), "a primary key carries no chain to contain")
}

func TestMatchesLocationUnlocatedEvent(t *testing.T) {
	event := ChangeEvent{
		EventType: EventUpdate,
		Key:       key.UnlocatedComKey{KT: "product", PK: key.IDString("p1")},
	}
	chain := []key.TypeTag{"store", "product"}

	assert.True(t, Matches(event, LocationSubscription{SubID: "s", TypeChain: chain}))
	assert.False(t, Matches(event, LocationSubscription{SubID: "s", TypeChain: chain, Location: []key.LocKey{
		{KT: "store", LK: key.IDString("s1")},
	}}), "unknown containment matches only the empty declared location")
}

func TestMatchesNilEventKey(t *testing.T) {
	event := ChangeEvent{EventType: EventUpdate}

	assert.False(t, Matches(event, ItemSubscription{SubID: "s", Key: key.PriKey{KT: "p", PK: key.IDString("1")}}))
	assert.False(t, Matches(event, LocationSubscription{SubID: "s", TypeChain: []key.TypeTag{"p"}}))
}

func TestMatchesPointerVariants(t *testing.T) {
	event := productEvent()
	item := &ItemSubscription{SubID: "s", Key: event.Key}
	loc := &LocationSubscription{SubID: "l", TypeChain: []key.TypeTag{"store", "product"}}

	assert.True(t, Matches(event, item))
	assert.True(t, Matches(event, loc))
}

func TestFindMatchingEmptyInput(t *testing.T) {
	matched := FindMatching(productEvent(), nil)
	assert.Empty(t, matched)
}
