package coordinate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/key"
)

func orderStepCoordinate(t *testing.T) Coordinate {
	t.Helper()
	coord, err := New([]key.TypeTag{"orderStep", "order", "orderPhase"})
	require.NoError(t, err)
	return coord
}

func locatedOrderStep() key.ComKey {
	return key.ComKey{KT: "orderStep", PK: key.IDInt(25825), Loc: []key.LocKey{
		{KT: "order", LK: key.IDInt(26513)},
		{KT: "orderPhase", LK: key.IDInt(25826)},
	}}
}

func TestValidateKeyMatchingHierarchy(t *testing.T) {
	coord := orderStepCoordinate(t)

	err := ValidateKey(locatedOrderStep(), coord, "orders.update")

	assert.NoError(t, err, "a key built to the declared shape always validates")
}

func TestValidateKeyReversedChain(t *testing.T) {
	coord := orderStepCoordinate(t)
	k := key.ComKey{KT: "orderStep", PK: key.IDInt(25825), Loc: []key.LocKey{
		{KT: "orderPhase", LK: key.IDInt(25826)},
		{KT: "order", LK: key.IDInt(26513)},
	}}

	err := ValidateKey(k, coord, "orders.update")

	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, CodeLocationOrderMismatch, ve.Code)
	assert.Equal(t, 0, ve.Index, "divergence is reported at the first differing index")
	assert.Equal(t, "orders.update", ve.Op)
	assert.Equal(t, []key.TypeTag{"orderStep", "order", "orderPhase"}, ve.Expected)
	assert.Equal(t, []key.TypeTag{"orderStep", "orderPhase", "order"}, ve.Received)
}

func TestValidateKeyNil(t *testing.T) {
	coord := orderStepCoordinate(t)

	err := ValidateKey(nil, coord, "orders.get")

	assert.True(t, IsValidationError(err, CodeMalformedKey))
}

func TestValidateKeyNullPlaceholder(t *testing.T) {
	coord := orderStepCoordinate(t)
	k := locatedOrderStep()
	k.PK = key.IDString("null")

	err := ValidateKey(k, coord, "orders.get")

	assert.True(t, IsValidationError(err, CodeMalformedKey))
}

func TestValidateKeyVariantMismatch(t *testing.T) {
	nested := orderStepCoordinate(t)
	flat, err := New([]key.TypeTag{"product"})
	require.NoError(t, err)

	err = ValidateKey(key.PriKey{KT: "orderStep", PK: key.IDInt(1)}, nested, "orders.get")
	assert.True(t, IsValidationError(err, CodeKeyVariantMismatch),
		"primary key against a nested hierarchy")

	err = ValidateKey(key.ComKey{KT: "product", PK: key.IDString("p1"), Loc: []key.LocKey{
		{KT: "store", LK: key.IDString("s1")},
	}}, flat, "products.get")
	assert.True(t, IsValidationError(err, CodeKeyVariantMismatch),
		"composite key against a single-level hierarchy")

	err = ValidateKey(key.UnlocatedComKey{KT: "product", PK: key.IDString("p1")}, flat, "products.get")
	assert.True(t, IsValidationError(err, CodeKeyVariantMismatch),
		"unlocated composite against a single-level hierarchy")
}

func TestValidateKeyUnlocatedPassesNestedHierarchy(t *testing.T) {
	coord := orderStepCoordinate(t)

	err := ValidateKey(key.UnlocatedComKey{KT: "orderStep", PK: key.IDInt(1)}, coord, "orders.ref")

	assert.NoError(t, err, "a foreign-key reference carries no chain to check")
}

func TestValidateKeyTypeTagMismatch(t *testing.T) {
	flat, err := New([]key.TypeTag{"product"})
	require.NoError(t, err)

	err = ValidateKey(key.PriKey{KT: "vendor", PK: key.IDString("v1")}, flat, "products.get")

	assert.True(t, IsValidationError(err, CodeTypeTagMismatch))
}

func TestValidateKeyChainLength(t *testing.T) {
	coord := orderStepCoordinate(t)
	k := key.ComKey{KT: "orderStep", PK: key.IDInt(25825), Loc: []key.LocKey{
		{KT: "order", LK: key.IDInt(26513)},
	}}

	err := ValidateKey(k, coord, "orders.get")

	assert.True(t, IsValidationError(err, CodeLocationLengthMismatch))
}

func TestValidateKeyChainEntryPresence(t *testing.T) {
	coord := orderStepCoordinate(t)
	k := locatedOrderStep()
	k.Loc[1].LK = key.IDString("null")

	err := ValidateKey(k, coord, "orders.get")

	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, CodeMalformedKey, ve.Code)
	assert.Equal(t, 1, ve.Index)
}

func TestValidateLocationChainEmptyPasses(t *testing.T) {
	coord := orderStepCoordinate(t)

	assert.NoError(t, ValidateLocationChain(nil, coord, "orders.list"),
		"no containment filter means a root-level operation")
	assert.NoError(t, ValidateLocationChain([]key.LocKey{}, coord, "orders.list"))
}

func TestValidateLocationChainOrder(t *testing.T) {
	coord := orderStepCoordinate(t)
	chain := []key.LocKey{
		{KT: "orderPhase", LK: key.IDInt(25826)},
		{KT: "order", LK: key.IDInt(26513)},
	}

	err := ValidateLocationChain(chain, coord, "orders.list")

	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, CodeLocationOrderMismatch, ve.Code)
	assert.Equal(t, 0, ve.Index)
}

func TestValidateLocationChainLength(t *testing.T) {
	coord := orderStepCoordinate(t)
	chain := []key.LocKey{{KT: "order", LK: key.IDInt(26513)}}

	err := ValidateLocationChain(chain, coord, "orders.list")

	assert.True(t, IsValidationError(err, CodeLocationLengthMismatch))
}

func TestTryValidateKeyResult(t *testing.T) {
	coord := orderStepCoordinate(t)

	result := TryValidateKey(locatedOrderStep(), coord, "orders.form")
	assert.True(t, result.Valid)
	assert.Nil(t, result.Err)

	result = TryValidateKey(nil, coord, "orders.form")
	assert.False(t, result.Valid)
	require.NotNil(t, result.Err)
	assert.Equal(t, CodeMalformedKey, result.Err.Code)
}

func TestTryValidateLocationChainResult(t *testing.T) {
	coord := orderStepCoordinate(t)

	result := TryValidateLocationChain([]key.LocKey{{KT: "order", LK: key.IDInt(1)}}, coord, "orders.form")

	assert.False(t, result.Valid)
	require.NotNil(t, result.Err)
	assert.Equal(t, CodeLocationLengthMismatch, result.Err.Code)
}

func TestIsValidationErrorCodeSensitive(t *testing.T) {
	coord := orderStepCoordinate(t)
	err := ValidateKey(nil, coord, "orders.get")

	assert.True(t, IsValidationError(err, CodeMalformedKey))
	assert.False(t, IsValidationError(err, CodeTypeTagMismatch))
	assert.False(t, IsValidationError(nil, CodeMalformedKey))
}

func TestValidationErrorMessageIncludesIndex(t *testing.T) {
	coord := orderStepCoordinate(t)
	k := key.ComKey{KT: "orderStep", PK: key.IDInt(1), Loc: []key.LocKey{
		{KT: "orderPhase", LK: key.IDInt(2)},
		{KT: "order", LK: key.IDInt(3)},
	}}

	err := ValidateKey(k, coord, "orders.get")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "diverges at index 0")
	assert.Contains(t, err.Error(), "orders.get")
	assert.Contains(t, err.Error(), string(CodeLocationOrderMismatch))
}
