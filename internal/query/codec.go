package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/strata/internal/key"
	"github.com/roach88/strata/internal/value"
)

// Parameter names for the flat encoding. Each structured clause serializes
// to exactly one parameter holding its JSON text; limit and offset stay
// numeric. The flat map travels as HTTP GET query parameters; very large
// condition trees should use a dedicated query endpoint instead.
const (
	ParamRefs      = "refs"
	ParamCondition = "compoundCondition"
	ParamEvents    = "events"
	ParamAggs      = "aggs"
	ParamOrderBy   = "orderBy"
	ParamLimit     = "limit"
	ParamOffset    = "offset"
)

// Encode serializes q into a flat parameter map. Inverse of Decode:
// Decode(Encode(q)) is deep-equal to q, timestamps included. A nil condition
// literal encodes as JSON null and decodes as value.Null.
func Encode(q ItemQuery) (map[string]any, error) {
	params := make(map[string]any)

	if len(q.Refs) > 0 {
		refs := make(map[string]json.RawMessage, len(q.Refs))
		for name, k := range q.Refs {
			data, err := key.MarshalKey(k)
			if err != nil {
				return nil, fmt.Errorf("encode ref %q: %w", name, err)
			}
			refs[name] = data
		}
		text, err := json.Marshal(refs)
		if err != nil {
			return nil, err
		}
		params[ParamRefs] = string(text)
	}

	if q.Condition != nil {
		text, err := json.Marshal(nodeToWire(q.Condition))
		if err != nil {
			return nil, fmt.Errorf("encode condition: %w", err)
		}
		params[ParamCondition] = string(text)
	}

	if len(q.Events) > 0 {
		text, err := json.Marshal(eventsToWire(q.Events))
		if err != nil {
			return nil, fmt.Errorf("encode events: %w", err)
		}
		params[ParamEvents] = string(text)
	}

	if len(q.Aggs) > 0 {
		aggs := make(map[string]any, len(q.Aggs))
		for name, sub := range q.Aggs {
			wire, err := queryToWire(sub)
			if err != nil {
				return nil, fmt.Errorf("encode agg %q: %w", name, err)
			}
			aggs[name] = wire
		}
		text, err := json.Marshal(aggs)
		if err != nil {
			return nil, err
		}
		params[ParamAggs] = string(text)
	}

	if len(q.OrderBy) > 0 {
		text, err := json.Marshal(orderByToWire(q.OrderBy))
		if err != nil {
			return nil, err
		}
		params[ParamOrderBy] = string(text)
	}

	if q.Limit != 0 {
		params[ParamLimit] = int64(q.Limit)
	}
	if q.Offset != 0 {
		params[ParamOffset] = int64(q.Offset)
	}

	return params, nil
}

// Decode rebuilds an ItemQuery from a flat parameter map produced by Encode.
// ISO-8601-looking strings inside event windows are revived to timestamps;
// strings elsewhere stay strings.
func Decode(params map[string]any) (ItemQuery, error) {
	var q ItemQuery

	if raw, ok := params[ParamRefs]; ok {
		text, err := paramText(ParamRefs, raw)
		if err != nil {
			return q, err
		}
		var refs map[string]json.RawMessage
		if err := json.Unmarshal([]byte(text), &refs); err != nil {
			return q, fmt.Errorf("decode refs: %w", err)
		}
		q.Refs = make(map[string]key.ItemKey, len(refs))
		for name, data := range refs {
			k, err := key.UnmarshalKey(data)
			if err != nil {
				return q, fmt.Errorf("decode ref %q: %w", name, err)
			}
			q.Refs[name] = k
		}
	}

	if raw, ok := params[ParamCondition]; ok {
		text, err := paramText(ParamCondition, raw)
		if err != nil {
			return q, err
		}
		node, err := decodeNode([]byte(text))
		if err != nil {
			return q, fmt.Errorf("decode condition: %w", err)
		}
		q.Condition = node
	}

	if raw, ok := params[ParamEvents]; ok {
		text, err := paramText(ParamEvents, raw)
		if err != nil {
			return q, err
		}
		events, err := decodeEvents([]byte(text))
		if err != nil {
			return q, fmt.Errorf("decode events: %w", err)
		}
		q.Events = events
	}

	if raw, ok := params[ParamAggs]; ok {
		text, err := paramText(ParamAggs, raw)
		if err != nil {
			return q, err
		}
		var aggs map[string]json.RawMessage
		if err := json.Unmarshal([]byte(text), &aggs); err != nil {
			return q, fmt.Errorf("decode aggs: %w", err)
		}
		q.Aggs = make(map[string]*ItemQuery, len(aggs))
		for name, data := range aggs {
			sub, err := queryFromWire(data)
			if err != nil {
				return q, fmt.Errorf("decode agg %q: %w", name, err)
			}
			q.Aggs[name] = sub
		}
	}

	if raw, ok := params[ParamOrderBy]; ok {
		text, err := paramText(ParamOrderBy, raw)
		if err != nil {
			return q, err
		}
		orderBy, err := decodeOrderBy([]byte(text))
		if err != nil {
			return q, fmt.Errorf("decode orderBy: %w", err)
		}
		q.OrderBy = orderBy
	}

	if raw, ok := params[ParamLimit]; ok {
		n, err := paramInt(ParamLimit, raw)
		if err != nil {
			return q, err
		}
		q.Limit = n
	}
	if raw, ok := params[ParamOffset]; ok {
		n, err := paramInt(ParamOffset, raw)
		if err != nil {
			return q, err
		}
		q.Offset = n
	}

	return q, nil
}

// EncodeWire serializes q into the nested JSON shape used for aggregation
// sub-queries and fixture files (the flat map wraps the same clauses).
func EncodeWire(q ItemQuery) ([]byte, error) {
	wire, err := queryToWire(&q)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

// DecodeWire rebuilds an ItemQuery from its nested JSON shape.
func DecodeWire(data json.RawMessage) (ItemQuery, error) {
	q, err := queryFromWire(data)
	if err != nil {
		return ItemQuery{}, err
	}
	return *q, nil
}

// wireCondition is the JSON shape of a condition-tree node. The compoundType
// field discriminates: present means compound, absent means leaf.
type wireCondition struct {
	Column   string          `json:"column,omitempty"`
	Operator Operator        `json:"operator,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`

	CompoundType CompoundType      `json:"compoundType,omitempty"`
	Conditions   []json.RawMessage `json:"conditions,omitempty"`
}

type wireWindow struct {
	Start *string `json:"start,omitempty"`
	End   *string `json:"end,omitempty"`
}

type wireOrderBy struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending,omitempty"`
}

// wireQuery is the nested JSON shape used for aggregation sub-queries.
type wireQuery struct {
	Refs      map[string]json.RawMessage `json:"refs,omitempty"`
	Condition any                        `json:"compoundCondition,omitempty"`
	Events    map[string]wireWindow      `json:"events,omitempty"`
	Aggs      map[string]any             `json:"aggs,omitempty"`
	OrderBy   []wireOrderBy              `json:"orderBy,omitempty"`
	Limit     int                        `json:"limit,omitempty"`
	Offset    int                        `json:"offset,omitempty"`
}

func nodeToWire(node Node) any {
	switch n := node.(type) {
	case Condition:
		literal := n.Value
		if literal == nil {
			literal = value.Null{}
		}
		return map[string]any{
			"column":   n.Column,
			"operator": n.Operator,
			"value":    value.ToAny(literal),
		}
	case *Condition:
		return nodeToWire(*n)
	case Compound:
		children := make([]any, len(n.Conditions))
		for i, child := range n.Conditions {
			children[i] = nodeToWire(child)
		}
		return map[string]any{
			"compoundType": n.Type,
			"conditions":   children,
		}
	case *Compound:
		return nodeToWire(*n)
	default:
		return nil
	}
}

func decodeNode(data []byte) (Node, error) {
	var w wireCondition
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}

	if w.CompoundType != "" {
		if w.CompoundType != CompoundAnd && w.CompoundType != CompoundOr {
			return nil, fmt.Errorf("unknown compound type %q", w.CompoundType)
		}
		children := make([]Node, len(w.Conditions))
		for i, raw := range w.Conditions {
			child, err := decodeNode(raw)
			if err != nil {
				return nil, fmt.Errorf("conditions[%d]: %w", i, err)
			}
			children[i] = child
		}
		return Compound{Type: w.CompoundType, Conditions: children}, nil
	}

	if w.Column == "" {
		return nil, fmt.Errorf("condition node has neither compoundType nor column")
	}
	literal, err := decodeLiteral(w.Value)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", w.Column, err)
	}
	return Condition{Column: w.Column, Operator: w.Operator, Value: literal}, nil
}

// decodeLiteral converts a JSON condition literal to a field value. Numbers
// decode through json.Number so integers survive without a float detour.
func decodeLiteral(data json.RawMessage) (value.Value, error) {
	if len(data) == 0 {
		return value.Null{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return value.FromAny(raw)
}

func eventsToWire(events map[string]EventWindow) map[string]wireWindow {
	wire := make(map[string]wireWindow, len(events))
	for name, window := range events {
		var w wireWindow
		if window.Start != nil {
			s := window.Start.Format(time.RFC3339Nano)
			w.Start = &s
		}
		if window.End != nil {
			s := window.End.Format(time.RFC3339Nano)
			w.End = &s
		}
		wire[name] = w
	}
	return wire
}

func decodeEvents(data []byte) (map[string]EventWindow, error) {
	var wire map[string]wireWindow
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	events := make(map[string]EventWindow, len(wire))
	for name, w := range wire {
		var window EventWindow
		if w.Start != nil {
			t, err := reviveTimestamp(*w.Start)
			if err != nil {
				return nil, fmt.Errorf("window %q start: %w", name, err)
			}
			window.Start = t
		}
		if w.End != nil {
			t, err := reviveTimestamp(*w.End)
			if err != nil {
				return nil, fmt.Errorf("window %q end: %w", name, err)
			}
			window.End = t
		}
		events[name] = window
	}
	return events, nil
}

// reviveTimestamp converts an ISO-8601 string back into a timestamp. Event
// windows are the one place the decoder revives strings; condition literals
// stay strings.
func reviveTimestamp(s string) (*time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, fmt.Errorf("not an ISO-8601 timestamp: %q", s)
	}
	return &t, nil
}

func orderByToWire(orderBy []OrderBy) []wireOrderBy {
	wire := make([]wireOrderBy, len(orderBy))
	for i, o := range orderBy {
		wire[i] = wireOrderBy{Field: o.Field, Descending: o.Descending}
	}
	return wire
}

func decodeOrderBy(data []byte) ([]OrderBy, error) {
	var wire []wireOrderBy
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	orderBy := make([]OrderBy, len(wire))
	for i, w := range wire {
		orderBy[i] = OrderBy{Field: w.Field, Descending: w.Descending}
	}
	return orderBy, nil
}

// queryToWire converts a sub-query to its nested JSON shape.
func queryToWire(q *ItemQuery) (*wireQuery, error) {
	if q == nil {
		return nil, nil
	}
	wire := &wireQuery{
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if len(q.Refs) > 0 {
		wire.Refs = make(map[string]json.RawMessage, len(q.Refs))
		for name, k := range q.Refs {
			data, err := key.MarshalKey(k)
			if err != nil {
				return nil, fmt.Errorf("ref %q: %w", name, err)
			}
			wire.Refs[name] = data
		}
	}
	if q.Condition != nil {
		wire.Condition = nodeToWire(q.Condition)
	}
	if len(q.Events) > 0 {
		wire.Events = eventsToWire(q.Events)
	}
	if len(q.Aggs) > 0 {
		wire.Aggs = make(map[string]any, len(q.Aggs))
		for name, sub := range q.Aggs {
			nested, err := queryToWire(sub)
			if err != nil {
				return nil, fmt.Errorf("agg %q: %w", name, err)
			}
			wire.Aggs[name] = nested
		}
	}
	if len(q.OrderBy) > 0 {
		wire.OrderBy = orderByToWire(q.OrderBy)
	}
	return wire, nil
}

// queryFromWire rebuilds a sub-query from its nested JSON shape.
func queryFromWire(data json.RawMessage) (*ItemQuery, error) {
	var w struct {
		Refs      map[string]json.RawMessage `json:"refs"`
		Condition json.RawMessage            `json:"compoundCondition"`
		Events    json.RawMessage            `json:"events"`
		Aggs      map[string]json.RawMessage `json:"aggs"`
		OrderBy   json.RawMessage            `json:"orderBy"`
		Limit     int                        `json:"limit"`
		Offset    int                        `json:"offset"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}

	q := &ItemQuery{Limit: w.Limit, Offset: w.Offset}

	if len(w.Refs) > 0 {
		q.Refs = make(map[string]key.ItemKey, len(w.Refs))
		for name, raw := range w.Refs {
			k, err := key.UnmarshalKey(raw)
			if err != nil {
				return nil, fmt.Errorf("ref %q: %w", name, err)
			}
			q.Refs[name] = k
		}
	}
	if len(w.Condition) > 0 {
		node, err := decodeNode(w.Condition)
		if err != nil {
			return nil, err
		}
		q.Condition = node
	}
	if len(w.Events) > 0 {
		events, err := decodeEvents(w.Events)
		if err != nil {
			return nil, err
		}
		q.Events = events
	}
	if len(w.Aggs) > 0 {
		q.Aggs = make(map[string]*ItemQuery, len(w.Aggs))
		for name, raw := range w.Aggs {
			sub, err := queryFromWire(raw)
			if err != nil {
				return nil, fmt.Errorf("agg %q: %w", name, err)
			}
			q.Aggs[name] = sub
		}
	}
	if len(w.OrderBy) > 0 {
		orderBy, err := decodeOrderBy(w.OrderBy)
		if err != nil {
			return nil, err
		}
		q.OrderBy = orderBy
	}
	return q, nil
}

func paramText(name string, raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string, got %T", name, raw)
	}
	return s, nil
}

func paramInt(name string, raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("parameter %q must be an integer, got %v", name, v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("parameter %q must be an integer: %w", name, err)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("parameter %q must be a number, got %T", name, raw)
	}
}
