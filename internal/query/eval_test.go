package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/key"
	"github.com/roach88/strata/internal/testutil"
	"github.com/roach88/strata/internal/value"
)

func productItem() Item {
	return Item{
		Key: key.PriKey{KT: "product", PK: key.IDString("p1")},
		State: value.Map{
			"name":      value.String("widget"),
			"price":     value.Int(9),
			"tags":      value.Array{value.String("sale"), value.String("new")},
			"deletedAt": value.Null{},
		},
	}
}

func TestMatchesEmptyQuery(t *testing.T) {
	match, err := Matches(productItem(), ItemQuery{})
	require.NoError(t, err)
	assert.True(t, match, "a query with no clauses matches everything")
}

func TestMatchesConditionOperators(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"eq-match", Condition{Column: "name", Operator: OpEq, Value: value.String("widget")}, true},
		{"eq-miss", Condition{Column: "name", Operator: OpEq, Value: value.String("gadget")}, false},
		{"neq", Condition{Column: "price", Operator: OpNeq, Value: value.Int(10)}, true},
		{"gt", Condition{Column: "price", Operator: OpGt, Value: value.Int(8)}, true},
		{"gte-boundary", Condition{Column: "price", Operator: OpGte, Value: value.Int(9)}, true},
		{"lt-miss", Condition{Column: "price", Operator: OpLt, Value: value.Int(9)}, false},
		{"lte-boundary", Condition{Column: "price", Operator: OpLte, Value: value.Int(9)}, true},
		{"cross-numeric", Condition{Column: "price", Operator: OpGt, Value: value.Float(8.5)}, true},
		{"in", Condition{Column: "name", Operator: OpIn, Value: value.Array{value.String("widget"), value.String("gadget")}}, true},
		{"not-in", Condition{Column: "name", Operator: OpNotIn, Value: value.Array{value.String("gadget")}}, true},
		{"array-contains", Condition{Column: "tags", Operator: OpArrayContains, Value: value.String("sale")}, true},
		{"array-contains-miss", Condition{Column: "tags", Operator: OpArrayContains, Value: value.String("used")}, false},
		{"array-contains-any", Condition{Column: "tags", Operator: OpArrayContainsAny, Value: value.Array{value.String("used"), value.String("new")}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := Matches(productItem(), ItemQuery{Condition: tt.cond})
			require.NoError(t, err)
			assert.Equal(t, tt.want, match)
		})
	}
}

func TestMatchesMissingFieldIsNonMatch(t *testing.T) {
	cond := Condition{Column: "weight", Operator: OpEq, Value: value.Int(1)}

	match, err := Matches(productItem(), ItemQuery{Condition: cond})

	require.NoError(t, err, "a missing field is a non-match, not an error")
	assert.False(t, match)
}

func TestMatchesNullLiteralEquality(t *testing.T) {
	eq := Condition{Column: "deletedAt", Operator: OpEq, Value: value.Null{}}
	match, err := Matches(productItem(), ItemQuery{Condition: eq})
	require.NoError(t, err)
	assert.True(t, match)

	// A nil Value means the same null literal.
	nilValue := Condition{Column: "deletedAt", Operator: OpEq}
	match, err = Matches(productItem(), ItemQuery{Condition: nilValue})
	require.NoError(t, err)
	assert.True(t, match)

	neq := Condition{Column: "name", Operator: OpNeq, Value: value.Null{}}
	match, err = Matches(productItem(), ItemQuery{Condition: neq})
	require.NoError(t, err)
	assert.True(t, match)
}

func TestMatchesNullLiteralOrderingFails(t *testing.T) {
	cond := Condition{Column: "deletedAt", Operator: OpGt, Value: value.Null{}}

	_, err := Matches(productItem(), ItemQuery{Condition: cond})

	require.Error(t, err, "ordering against null is a malformed predicate, not a non-match")
	assert.True(t, IsOperatorError(err))
}

func TestMatchesInRequiresArrayLiteral(t *testing.T) {
	cond := Condition{Column: "name", Operator: OpIn, Value: value.String("widget")}

	_, err := Matches(productItem(), ItemQuery{Condition: cond})

	assert.True(t, IsOperatorError(err))
}

func TestMatchesArrayContainsAnyRequiresArrayLiteral(t *testing.T) {
	cond := Condition{Column: "tags", Operator: OpArrayContainsAny, Value: value.String("sale")}

	_, err := Matches(productItem(), ItemQuery{Condition: cond})

	assert.True(t, IsOperatorError(err))
}

func TestMatchesArrayContainsOnScalarField(t *testing.T) {
	cond := Condition{Column: "name", Operator: OpArrayContains, Value: value.String("w")}

	match, err := Matches(productItem(), ItemQuery{Condition: cond})

	require.NoError(t, err, "field shape is data, not predicate")
	assert.False(t, match)
}

func TestMatchesUnorderableComparisonIsNonMatch(t *testing.T) {
	cond := Condition{Column: "name", Operator: OpGt, Value: value.Int(1)}

	match, err := Matches(productItem(), ItemQuery{Condition: cond})

	require.NoError(t, err)
	assert.False(t, match, "string field never orders against a number")
}

func TestMatchesVacuousCompounds(t *testing.T) {
	match, err := Matches(productItem(), ItemQuery{Condition: Compound{Type: CompoundAnd}})
	require.NoError(t, err)
	assert.True(t, match, "AND over zero children is vacuously true")

	match, err = Matches(productItem(), ItemQuery{Condition: Compound{Type: CompoundOr}})
	require.NoError(t, err)
	assert.False(t, match, "OR over zero children is false")
}

func TestMatchesNestedCompound(t *testing.T) {
	// (price > 100) OR (name == widget AND sale IN tags)
	cond := Compound{Type: CompoundOr, Conditions: []Node{
		Condition{Column: "price", Operator: OpGt, Value: value.Int(100)},
		Compound{Type: CompoundAnd, Conditions: []Node{
			Condition{Column: "name", Operator: OpEq, Value: value.String("widget")},
			Condition{Column: "tags", Operator: OpArrayContains, Value: value.String("sale")},
		}},
	}}

	match, err := Matches(productItem(), ItemQuery{Condition: cond})

	require.NoError(t, err)
	assert.True(t, match)
}

func TestMatchesSiblingOrderIrrelevant(t *testing.T) {
	a := Condition{Column: "price", Operator: OpGte, Value: value.Int(5)}
	b := Condition{Column: "name", Operator: OpEq, Value: value.String("widget")}

	forward, err := Matches(productItem(), ItemQuery{Condition: Compound{Type: CompoundAnd, Conditions: []Node{a, b}}})
	require.NoError(t, err)
	backward, err := Matches(productItem(), ItemQuery{Condition: Compound{Type: CompoundAnd, Conditions: []Node{b, a}}})
	require.NoError(t, err)

	assert.Equal(t, forward, backward)
}

func TestMatchesRefs(t *testing.T) {
	vendor := key.PriKey{KT: "vendor", PK: key.IDString("v1")}
	item := productItem()
	item.Refs = map[string]key.ItemKey{"vendor": vendor}

	match, err := Matches(item, ItemQuery{Refs: map[string]key.ItemKey{"vendor": vendor}})
	require.NoError(t, err)
	assert.True(t, match)

	other := key.PriKey{KT: "vendor", PK: key.IDString("v2")}
	match, err = Matches(item, ItemQuery{Refs: map[string]key.ItemKey{"vendor": other}})
	require.NoError(t, err)
	assert.False(t, match)

	match, err = Matches(productItem(), ItemQuery{Refs: map[string]key.ItemKey{"vendor": vendor}})
	require.NoError(t, err)
	assert.False(t, match, "an item without refs never satisfies a refs clause")
}

func TestMatchesEventWindows(t *testing.T) {
	item := productItem()
	item.Events = map[string]Event{
		"shipped": {At: testutil.TimePtr(testutil.MustTime("2024-03-05T12:00:00Z"))},
		"deleted": {},
	}

	window := EventWindow{
		Start: testutil.TimePtr(testutil.MustTime("2024-03-01T00:00:00Z")),
		End:   testutil.TimePtr(testutil.MustTime("2024-04-01T00:00:00Z")),
	}

	match, err := Matches(item, ItemQuery{Events: map[string]EventWindow{"shipped": window}})
	require.NoError(t, err)
	assert.True(t, match)

	match, err = Matches(item, ItemQuery{Events: map[string]EventWindow{"deleted": {}}})
	require.NoError(t, err)
	assert.False(t, match, "an unoccurred event satisfies no window")

	match, err = Matches(item, ItemQuery{Events: map[string]EventWindow{"returned": {}}})
	require.NoError(t, err)
	assert.False(t, match, "an unknown event satisfies no window")
}

func TestEventWindowHalfOpen(t *testing.T) {
	start := testutil.MustTime("2024-03-01T00:00:00Z")
	end := testutil.MustTime("2024-04-01T00:00:00Z")
	window := EventWindow{Start: &start, End: &end}

	assert.True(t, window.Contains(start), "start is inclusive")
	assert.False(t, window.Contains(end), "end is exclusive")
	assert.True(t, window.Contains(start.AddDate(0, 0, 15)))
	assert.False(t, window.Contains(start.Add(-1)))
}

func TestEventWindowOpenBounds(t *testing.T) {
	at := testutil.MustTime("2024-03-05T12:00:00Z")

	assert.True(t, EventWindow{}.Contains(at), "both bounds nil only requires occurrence")

	start := testutil.MustTime("2024-03-01T00:00:00Z")
	assert.True(t, EventWindow{Start: &start}.Contains(at))

	end := testutil.MustTime("2024-03-01T00:00:00Z")
	assert.False(t, EventWindow{End: &end}.Contains(at))
}

func TestMatchesEventsShortCircuitAggs(t *testing.T) {
	item := productItem()
	item.Events = map[string]Event{
		"shipped": {At: testutil.TimePtr(testutil.MustTime("2024-03-05T12:00:00Z"))},
	}
	item.Aggs = map[string][]Item{
		"reviews": {{State: value.Map{"rating": value.Int(1)}}},
	}

	q := ItemQuery{
		Events: map[string]EventWindow{"shipped": {}},
		Aggs: map[string]*ItemQuery{
			"reviews": {Condition: Condition{Column: "rating", Operator: OpGte, Value: value.Int(4)}},
		},
	}

	match, err := Matches(item, q)

	require.NoError(t, err)
	assert.True(t, match, "a satisfied events clause decides the match; aggs are not consulted")
}

func TestMatchesFailedEventsShortCircuitAggs(t *testing.T) {
	item := productItem()
	item.Aggs = map[string][]Item{
		"reviews": {{State: value.Map{"rating": value.Int(5)}}},
	}

	q := ItemQuery{
		Events: map[string]EventWindow{"shipped": {}},
		Aggs: map[string]*ItemQuery{
			"reviews": {Condition: Condition{Column: "rating", Operator: OpGte, Value: value.Int(4)}},
		},
	}

	match, err := Matches(item, q)

	require.NoError(t, err)
	assert.False(t, match, "a failed events clause also bypasses aggs")
}

func TestMatchesAggsExistential(t *testing.T) {
	item := productItem()
	item.Aggs = map[string][]Item{
		"reviews": {
			{State: value.Map{"rating": value.Int(5)}},
			{State: value.Map{"rating": value.Int(2)}},
		},
	}

	q := ItemQuery{Aggs: map[string]*ItemQuery{
		"reviews": {Condition: Compound{Type: CompoundAnd, Conditions: []Node{
			Condition{Column: "rating", Operator: OpGte, Value: value.Int(4)},
		}}},
	}}

	match, err := Matches(item, q)

	require.NoError(t, err)
	assert.True(t, match, "one matching sub-item suffices")
}

func TestMatchesAggsNoMatchingChild(t *testing.T) {
	item := productItem()
	item.Aggs = map[string][]Item{
		"reviews": {{State: value.Map{"rating": value.Int(2)}}},
	}

	q := ItemQuery{Aggs: map[string]*ItemQuery{
		"reviews": {Condition: Condition{Column: "rating", Operator: OpGte, Value: value.Int(4)}},
	}}

	match, err := Matches(item, q)

	require.NoError(t, err)
	assert.False(t, match)
}

func TestMatchesAggsNilSubQueryMeansAnyChild(t *testing.T) {
	item := productItem()
	item.Aggs = map[string][]Item{
		"reviews": {{State: value.Map{"rating": value.Int(2)}}},
		"returns": {},
	}

	match, err := Matches(item, ItemQuery{Aggs: map[string]*ItemQuery{"reviews": nil}})
	require.NoError(t, err)
	assert.True(t, match)

	match, err = Matches(item, ItemQuery{Aggs: map[string]*ItemQuery{"returns": nil}})
	require.NoError(t, err)
	assert.False(t, match)

	match, err = Matches(item, ItemQuery{Aggs: map[string]*ItemQuery{"complaints": nil}})
	require.NoError(t, err)
	assert.False(t, match, "an absent aggregation never matches")
}

func TestMatchesAggsPropagateOperatorErrors(t *testing.T) {
	item := productItem()
	item.Aggs = map[string][]Item{
		"reviews": {{State: value.Map{"rating": value.Null{}}}},
	}

	q := ItemQuery{Aggs: map[string]*ItemQuery{
		"reviews": {Condition: Condition{Column: "rating", Operator: OpGt, Value: value.Null{}}},
	}}

	_, err := Matches(item, q)

	assert.True(t, IsOperatorError(err), "malformed sub-query predicates escalate")
}
