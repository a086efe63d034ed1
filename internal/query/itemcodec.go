package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/strata/internal/key"
	"github.com/roach88/strata/internal/value"
)

// Item wire form:
//
//	{
//	  "key": {"kt": "product", "pk": "p1"},
//	  "state": {"price": 9, "tags": ["a", "b"]},
//	  "refs": {"vendor": {"kt": "vendor", "pk": "v1"}},
//	  "events": {"created": "2024-01-02T03:04:05Z", "deleted": null},
//	  "aggs": {"reviews": [ ...items... ]}
//	}
//
// Events are RFC 3339 strings or null (not occurred). Fixture files and the
// harness both use this shape.

type wireItem struct {
	Key    json.RawMessage            `json:"key,omitempty"`
	State  map[string]json.RawMessage `json:"state,omitempty"`
	Refs   map[string]json.RawMessage `json:"refs,omitempty"`
	Events map[string]*string         `json:"events,omitempty"`
	Aggs   map[string][]wireItem      `json:"aggs,omitempty"`
}

// DecodeItem rebuilds an Item from its wire form.
func DecodeItem(data json.RawMessage) (Item, error) {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return Item{}, fmt.Errorf("decode item: %w", err)
	}
	return itemFromWire(w)
}

func itemFromWire(w wireItem) (Item, error) {
	var item Item

	if len(w.Key) > 0 {
		k, err := key.UnmarshalKey(w.Key)
		if err != nil {
			return item, fmt.Errorf("item key: %w", err)
		}
		item.Key = k
	}

	if len(w.State) > 0 {
		item.State = make(value.Map, len(w.State))
		for name, raw := range w.State {
			v, err := decodeStateField(raw)
			if err != nil {
				return item, fmt.Errorf("state field %q: %w", name, err)
			}
			item.State[name] = v
		}
	}

	if len(w.Refs) > 0 {
		item.Refs = make(map[string]key.ItemKey, len(w.Refs))
		for name, raw := range w.Refs {
			k, err := key.UnmarshalKey(raw)
			if err != nil {
				return item, fmt.Errorf("ref %q: %w", name, err)
			}
			item.Refs[name] = k
		}
	}

	if len(w.Events) > 0 {
		item.Events = make(map[string]Event, len(w.Events))
		for name, raw := range w.Events {
			var event Event
			if raw != nil {
				t, err := time.Parse(time.RFC3339Nano, *raw)
				if err != nil {
					return item, fmt.Errorf("event %q: not an ISO-8601 timestamp: %q", name, *raw)
				}
				event.At = &t
			}
			item.Events[name] = event
		}
	}

	if len(w.Aggs) > 0 {
		item.Aggs = make(map[string][]Item, len(w.Aggs))
		for name, children := range w.Aggs {
			decoded := make([]Item, len(children))
			for i, child := range children {
				sub, err := itemFromWire(child)
				if err != nil {
					return item, fmt.Errorf("agg %q[%d]: %w", name, i, err)
				}
				decoded[i] = sub
			}
			item.Aggs[name] = decoded
		}
	}

	return item, nil
}

// decodeStateField decodes one state field with integer-preserving numbers.
func decodeStateField(data json.RawMessage) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return value.FromAny(raw)
}
