package subscription

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/strata/internal/key"
)

// Wire forms:
//
//	event:        {"eventType": "update", "key": {...}, "scopes": ["alpha"],
//	               "timestamp": "2024-01-02T03:04:05Z"}
//	subscription: {"id": "s1", "key": {...}, "eventTypes": [...], "scopes": [...]}
//	              {"id": "s4", "kta": ["store", "product"], "location": [...], ...}
//
// The key field discriminates the subscription variant: present means item
// subscription, absent means location subscription via kta.

type wireEvent struct {
	EventType string          `json:"eventType"`
	Key       json.RawMessage `json:"key"`
	Scopes    []string        `json:"scopes"`
	Timestamp *string         `json:"timestamp"`
}

type wireSubscription struct {
	ID         string            `json:"id"`
	Key        json.RawMessage   `json:"key,omitempty"`
	KTA        []key.TypeTag     `json:"kta,omitempty"`
	Location   []json.RawMessage `json:"location,omitempty"`
	EventTypes []string          `json:"eventTypes,omitempty"`
	Scopes     []string          `json:"scopes,omitempty"`
}

// DecodeChangeEvent rebuilds a ChangeEvent from its wire form.
func DecodeChangeEvent(data json.RawMessage) (ChangeEvent, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return ChangeEvent{}, fmt.Errorf("decode change event: %w", err)
	}

	event := ChangeEvent{
		EventType: EventType(w.EventType),
		Scopes:    w.Scopes,
	}
	k, err := key.UnmarshalKey(w.Key)
	if err != nil {
		return event, fmt.Errorf("event key: %w", err)
	}
	event.Key = k
	if w.Timestamp != nil {
		t, err := time.Parse(time.RFC3339Nano, *w.Timestamp)
		if err != nil {
			return event, fmt.Errorf("event timestamp: %w", err)
		}
		event.Timestamp = t
	}
	return event, nil
}

// DecodeSubscription rebuilds one subscription from its wire form.
func DecodeSubscription(data json.RawMessage) (Subscription, error) {
	var w wireSubscription
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}

	types := make([]EventType, len(w.EventTypes))
	for i, t := range w.EventTypes {
		types[i] = EventType(t)
	}

	if len(w.Key) > 0 {
		k, err := key.UnmarshalKey(w.Key)
		if err != nil {
			return nil, fmt.Errorf("subscription key: %w", err)
		}
		return ItemSubscription{
			SubID:      w.ID,
			Key:        k,
			Types:      types,
			ScopeNames: w.Scopes,
		}, nil
	}

	if len(w.KTA) == 0 {
		return nil, fmt.Errorf("subscription needs either a key or a kta")
	}
	location := make([]key.LocKey, len(w.Location))
	for i, raw := range w.Location {
		loc, err := key.UnmarshalLocKey(raw)
		if err != nil {
			return nil, fmt.Errorf("subscription location[%d]: %w", i, err)
		}
		location[i] = loc
	}
	return LocationSubscription{
		SubID:      w.ID,
		TypeChain:  w.KTA,
		Location:   location,
		Types:      types,
		ScopeNames: w.Scopes,
	}, nil
}

// DecodeSubscriptions rebuilds a subscription list from its wire form.
func DecodeSubscriptions(data json.RawMessage) ([]Subscription, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode subscriptions: %w", err)
	}
	subs := make([]Subscription, 0, len(raws))
	for i, raw := range raws {
		sub, err := DecodeSubscription(raw)
		if err != nil {
			return nil, fmt.Errorf("subscription %d: %w", i, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
