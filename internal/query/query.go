package query

import (
	"time"

	"github.com/roach88/strata/internal/key"
)

// EventWindow is a half-open time window [Start, End) over a named event.
// A nil bound leaves that side unchecked; a window with both bounds nil only
// requires the event to have occurred.
type EventWindow struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls within the window: start inclusive, end
// exclusive.
func (w EventWindow) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && !t.Before(*w.End) {
		return false
	}
	return true
}

// OrderBy is a sort hint for the storage layer. Not a predicate; evaluation
// ignores it. Carried so the parameter codec round-trips it.
type OrderBy struct {
	Field      string
	Descending bool
}

// ItemQuery is a declarative predicate over one item.
//
// Clauses combine as follows: refs, then the condition tree, then events,
// then aggs. A present events clause short-circuits: when it is satisfied
// the item matches regardless of any aggs clause. Existing consumers depend
// on that precedence; see Matches.
//
// Limit, Offset, and OrderBy are pagination/sort hints for the storage
// layer, not predicates.
type ItemQuery struct {
	Refs      map[string]key.ItemKey
	Condition Node
	Events    map[string]EventWindow
	Aggs      map[string]*ItemQuery
	Limit     int
	Offset    int
	OrderBy   []OrderBy
}
