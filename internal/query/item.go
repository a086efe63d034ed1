package query

import (
	"time"

	"github.com/roach88/strata/internal/key"
	"github.com/roach88/strata/internal/value"
)

// Event is a named timestamped occurrence on an item (created, deleted,
// shipped, ...). A nil At means the event has not occurred.
type Event struct {
	At *time.Time
}

// Item is the unit queries evaluate against: a key, an open bag of state
// fields, and optionally named key references, named events, and named
// arrays of contained sub-items.
type Item struct {
	Key    key.ItemKey
	State  value.Map
	Refs   map[string]key.ItemKey
	Events map[string]Event
	Aggs   map[string][]Item
}
