package query

import (
	"github.com/roach88/strata/internal/value"
)

// Operator is a leaf-condition comparison operator.
type Operator string

const (
	OpEq               Operator = "=="
	OpNeq              Operator = "!="
	OpGt               Operator = ">"
	OpGte              Operator = ">="
	OpLt               Operator = "<"
	OpLte              Operator = "<="
	OpIn               Operator = "in"
	OpNotIn            Operator = "not-in"
	OpArrayContains    Operator = "array-contains"
	OpArrayContainsAny Operator = "array-contains-any"
)

// CompoundType combines child condition results.
type CompoundType string

const (
	// CompoundAnd matches when every child matches. An empty child list
	// matches vacuously.
	CompoundAnd CompoundType = "AND"

	// CompoundOr matches when at least one child matches. An empty child
	// list fails: "some of zero" is false.
	CompoundOr CompoundType = "OR"
)

// Node is the sealed condition-tree interface. A node is either a leaf
// Condition or a Compound of child nodes; evaluation is structural
// recursion over this union.
type Node interface {
	conditionNode() // Marker method - seals interface to this package
}

// Condition is a leaf node: compare one state field against a literal.
//
// A nil Value and value.Null both mean the null literal; only == and != are
// legal against it. Any other operator against null is a programming error
// and fails evaluation loudly rather than returning a non-match.
type Condition struct {
	Column   string
	Operator Operator
	Value    value.Value
}

func (Condition) conditionNode() {}

// Compound is an AND/OR node over child conditions and compounds.
type Compound struct {
	Type       CompoundType
	Conditions []Node
}

func (Compound) conditionNode() {}
