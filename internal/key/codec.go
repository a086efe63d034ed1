package key

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Wire format for keys:
//
//	{"kt": "product", "pk": "p1", "loc": [{"kt": "store", "lk": "s1"}]}
//
// The loc field discriminates the arm: absent means PriKey, explicitly empty
// means UnlocatedComKey, non-empty means ComKey. This is the one boundary
// where the empty-chain ambiguity is visible; decoding resolves it into the
// explicit union immediately.

type wireLocKey struct {
	KT TypeTag         `json:"kt"`
	LK json.RawMessage `json:"lk"`
}

type wireKey struct {
	KT  TypeTag          `json:"kt"`
	PK  json.RawMessage  `json:"pk"`
	Loc *json.RawMessage `json:"loc,omitempty"`
}

// MarshalKey encodes any key arm to its wire form.
func MarshalKey(k ItemKey) ([]byte, error) {
	if k == nil {
		return nil, fmt.Errorf("cannot marshal nil key")
	}
	obj := map[string]any{
		"kt": k.Type(),
		"pk": identifierToAny(k.Primary()),
	}
	switch key := k.(type) {
	case UnlocatedComKey:
		obj["loc"] = []any{}
	case ComKey:
		locs := make([]any, len(key.Loc))
		for i, loc := range key.Loc {
			locs[i] = map[string]any{"kt": loc.KT, "lk": identifierToAny(loc.LK)}
		}
		obj["loc"] = locs
	}
	return json.Marshal(obj)
}

// UnmarshalKey decodes a wire-form key into the explicit union.
func UnmarshalKey(data []byte) (ItemKey, error) {
	var w wireKey
	if err := decodeStrictNumbers(data, &w); err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	if w.KT == "" {
		return nil, fmt.Errorf("decode key: missing kt")
	}
	pk, err := unmarshalIdentifier(w.PK)
	if err != nil {
		return nil, fmt.Errorf("decode key pk: %w", err)
	}

	if w.Loc == nil {
		return PriKey{KT: w.KT, PK: pk}, nil
	}

	var rawLocs []wireLocKey
	if err := decodeStrictNumbers(*w.Loc, &rawLocs); err != nil {
		return nil, fmt.Errorf("decode key loc: %w", err)
	}
	if len(rawLocs) == 0 {
		return UnlocatedComKey{KT: w.KT, PK: pk}, nil
	}

	locs := make([]LocKey, len(rawLocs))
	for i, raw := range rawLocs {
		lk, err := unmarshalIdentifier(raw.LK)
		if err != nil {
			return nil, fmt.Errorf("decode key loc[%d]: %w", i, err)
		}
		locs[i] = LocKey{KT: raw.KT, LK: lk}
	}
	return ComKey{KT: w.KT, PK: pk, Loc: locs}, nil
}

// MarshalLocKey encodes a single location entry.
func MarshalLocKey(l LocKey) ([]byte, error) {
	return json.Marshal(map[string]any{"kt": l.KT, "lk": identifierToAny(l.LK)})
}

// UnmarshalLocKey decodes a single location entry.
func UnmarshalLocKey(data []byte) (LocKey, error) {
	var w wireLocKey
	if err := decodeStrictNumbers(data, &w); err != nil {
		return LocKey{}, fmt.Errorf("decode loc key: %w", err)
	}
	lk, err := unmarshalIdentifier(w.LK)
	if err != nil {
		return LocKey{}, fmt.Errorf("decode loc key lk: %w", err)
	}
	return LocKey{KT: w.KT, LK: lk}, nil
}

// identifierToAny converts an identifier to its JSON-facing value.
func identifierToAny(id Identifier) any {
	switch v := id.(type) {
	case IDString:
		return string(v)
	case IDInt:
		return int64(v)
	case IDUUID:
		return v.Canonical()
	default:
		return nil
	}
}

// unmarshalIdentifier decodes a JSON scalar into an Identifier.
func unmarshalIdentifier(data json.RawMessage) (Identifier, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("missing identifier")
	}
	var raw any
	if err := decodeStrictNumbers(data, &raw); err != nil {
		return nil, err
	}
	return ParseIdentifier(raw)
}

// decodeStrictNumbers unmarshals with json.Number so integer identifiers
// survive without a float round-trip.
func decodeStrictNumbers(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(out)
}
