package key

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Identifier is a sealed interface over the identifier kinds a primary or
// location value may take: string, integer, or UUID.
//
// Exact equality is kind plus value. Normalized equality compares canonical
// string forms, which makes the number 42 and the string "42" identify the
// same logical item across representations.
type Identifier interface {
	identifier() // Sealed - only types in this package implement it

	// Canonical returns the normalized string form used for normalized
	// equality: NFC-normalized text for strings, base-10 for integers,
	// lowercase hyphenated form for UUIDs.
	Canonical() string
}

// IDString is a string identifier.
type IDString string

func (IDString) identifier() {}

// Canonical returns the NFC-normalized string.
func (s IDString) Canonical() string { return norm.NFC.String(string(s)) }

// IDInt is an integer identifier. Always int64.
type IDInt int64

func (IDInt) identifier() {}

// Canonical returns the base-10 representation.
func (n IDInt) Canonical() string { return strconv.FormatInt(int64(n), 10) }

// IDUUID is a UUID identifier (RFC 4122).
type IDUUID uuid.UUID

func (IDUUID) identifier() {}

// Canonical returns the lowercase hyphenated form, so two spellings of the
// same UUID compare equal under normalized equality.
func (u IDUUID) Canonical() string { return uuid.UUID(u).String() }

// NewUUID mints a fresh IDUUID. Uses UUIDv7 for time-ordered identifiers.
func NewUUID() IDUUID {
	return IDUUID(uuid.Must(uuid.NewV7()))
}

// ParseIdentifier converts a raw decoded value into an Identifier.
//
// Strings that parse as a full hyphenated UUID become IDUUID; other strings
// stay IDString. Numbers must be integral.
func ParseIdentifier(v any) (Identifier, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("identifier must not be null")
	case Identifier:
		return val, nil
	case string:
		if u, err := uuid.Parse(val); err == nil && len(val) == 36 {
			return IDUUID(u), nil
		}
		return IDString(val), nil
	case int:
		return IDInt(val), nil
	case int64:
		return IDInt(val), nil
	case float64:
		if val != float64(int64(val)) {
			return nil, fmt.Errorf("identifier must be an integer, got %v", val)
		}
		return IDInt(int64(val)), nil
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("identifier must be an integer, got %s", val)
		}
		return IDInt(n), nil
	default:
		return nil, fmt.Errorf("unsupported identifier type: %T", v)
	}
}

// IdentifierEquals reports exact equality: same kind, same value.
// Nil identifiers are never equal to anything, including each other.
func IdentifierEquals(a, b Identifier) bool {
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case IDString:
		bv, ok := b.(IDString)
		return ok && av == bv
	case IDInt:
		bv, ok := b.(IDInt)
		return ok && av == bv
	case IDUUID:
		bv, ok := b.(IDUUID)
		return ok && uuid.UUID(av) == uuid.UUID(bv)
	}
	return false
}

// Comparison is the tri-state result of a normalized identifier comparison.
// Incomparable (either side absent) is distinct from Unequal: callers that
// validate user input need to tell "nothing to compare" from "compared and
// differed".
type Comparison int

const (
	// Incomparable means at least one side was absent.
	Incomparable Comparison = iota
	// Unequal means both sides were present and their canonical forms differ.
	Unequal
	// Equal means both sides were present with matching canonical forms.
	Equal
)

// String returns the comparison name for diagnostics.
func (c Comparison) String() string {
	switch c {
	case Incomparable:
		return "incomparable"
	case Unequal:
		return "unequal"
	case Equal:
		return "equal"
	default:
		return fmt.Sprintf("Comparison(%d)", int(c))
	}
}

// CompareNormalized compares two identifiers by canonical string form.
// Returns Incomparable when either side is nil.
func CompareNormalized(a, b Identifier) Comparison {
	if a == nil || b == nil {
		return Incomparable
	}
	if a.Canonical() == b.Canonical() {
		return Equal
	}
	return Unequal
}

// identifierPresent reports whether an identifier carries a usable value:
// non-nil, non-empty, and not the literal string "null" (a decode artifact
// that must never address an item).
func identifierPresent(id Identifier) bool {
	if id == nil {
		return false
	}
	s := id.Canonical()
	return s != "" && s != "null"
}
