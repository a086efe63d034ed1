package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// Scenarios declare the coordinate hierarchy under test and a list of checks
// with expected outcomes.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Coordinates declares the item families in scope, validator order
	// (own type first).
	Coordinates []CoordinateDecl `yaml:"coordinates"`

	// Checks are executed in order.
	Checks []Check `yaml:"checks"`
}

// CoordinateDecl declares one item family.
type CoordinateDecl struct {
	KTA    []string `yaml:"kta"`
	Scopes []string `yaml:"scopes,omitempty"`
}

// CheckKind names a check type.
type CheckKind string

const (
	// CheckValidateKey validates a key against its family's coordinate.
	CheckValidateKey CheckKind = "validate-key"

	// CheckValidateLocation validates a standalone location chain.
	CheckValidateLocation CheckKind = "validate-location"

	// CheckMatchEvent runs the subscription matcher over an event and a
	// subscription list.
	CheckMatchEvent CheckKind = "match-event"

	// CheckQuery evaluates a query against an item.
	CheckQuery CheckKind = "query"
)

// Check is one step of a scenario. Fields are used per kind; unused fields
// stay empty. Keys, events, items, and queries use the same shapes as the
// JSON fixtures (YAML being a superset, scenarios write them inline).
type Check struct {
	// Kind selects the check type.
	Kind CheckKind `yaml:"kind"`

	// Name labels the check in reports; defaults to "<kind>-<index>".
	Name string `yaml:"name,omitempty"`

	// Op is the operation label passed to the validator.
	Op string `yaml:"op,omitempty"`

	// Key is the key under validation (validate-key).
	Key map[string]any `yaml:"key,omitempty"`

	// Location is the standalone chain under validation (validate-location).
	// Type selects the coordinate to validate against.
	Type     string           `yaml:"type,omitempty"`
	Location []map[string]any `yaml:"location,omitempty"`

	// Expect is "ok" or a validation error code (validate-* checks), or
	// "error" for a query check whose evaluation should fail.
	Expect string `yaml:"expect,omitempty"`

	// Event and Subscriptions feed the matcher (match-event).
	Event         map[string]any   `yaml:"event,omitempty"`
	Subscriptions []map[string]any `yaml:"subscriptions,omitempty"`

	// ExpectMatches lists the subscription ids expected to match, in input
	// order (match-event).
	ExpectMatches []string `yaml:"expect_matches,omitempty"`

	// Item and Query feed the evaluator (query).
	Item  map[string]any `yaml:"item,omitempty"`
	Query map[string]any `yaml:"query,omitempty"`

	// ExpectMatch is the expected evaluation outcome (query).
	ExpectMatch bool `yaml:"expect_match,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if scenario.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if len(scenario.Checks) == 0 {
		return nil, fmt.Errorf("scenario %s: at least one check is required", path)
	}
	return &scenario, nil
}
