package harness

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/strata/internal/coordinate"
	"github.com/roach88/strata/internal/key"
	"github.com/roach88/strata/internal/query"
	"github.com/roach88/strata/internal/schema"
	"github.com/roach88/strata/internal/subscription"
)

// CheckResult is the outcome of one scenario check.
type CheckResult struct {
	Name   string    `json:"name"`
	Kind   CheckKind `json:"kind"`
	Passed bool      `json:"passed"`
	Want   string    `json:"want,omitempty"`
	Got    string    `json:"got,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// Result is the outcome of a whole scenario run.
type Result struct {
	ScenarioName string        `json:"scenario_name"`
	Passed       bool          `json:"passed"`
	Checks       []CheckResult `json:"checks"`
}

// Run executes every check of a scenario in order.
//
// Scenario files carry keys, events, items, and queries in the same shapes
// as the JSON fixtures; the runner routes them through the domain wire
// codecs. A malformed scenario is an error; a failed expectation is a
// failed check in the result, not an error.
func Run(scenario *Scenario) (*Result, error) {
	reg, err := buildRegistry(scenario.Coordinates)
	if err != nil {
		return nil, err
	}

	result := &Result{ScenarioName: scenario.Name, Passed: true}
	for i, check := range scenario.Checks {
		name := check.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", check.Kind, i)
		}

		var outcome CheckResult
		switch check.Kind {
		case CheckValidateKey:
			outcome, err = runValidateKey(reg, check)
		case CheckValidateLocation:
			outcome, err = runValidateLocation(reg, check)
		case CheckMatchEvent:
			outcome, err = runMatchEvent(check)
		case CheckQuery:
			outcome, err = runQueryCheck(check)
		default:
			err = fmt.Errorf("check %q: unknown kind %q", name, check.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("scenario %q check %q: %w", scenario.Name, name, err)
		}

		outcome.Name = name
		outcome.Kind = check.Kind
		if !outcome.Passed {
			result.Passed = false
		}
		result.Checks = append(result.Checks, outcome)
	}
	return result, nil
}

func buildRegistry(decls []CoordinateDecl) (*schema.Registry, error) {
	reg := schema.NewRegistry()
	for i, decl := range decls {
		chain := make([]key.TypeTag, len(decl.KTA))
		for j, tag := range decl.KTA {
			chain[j] = key.TypeTag(tag)
		}
		coord, err := coordinate.New(chain, decl.Scopes...)
		if err != nil {
			return nil, fmt.Errorf("coordinates[%d]: %w", i, err)
		}
		if err := reg.Register(coord); err != nil {
			return nil, fmt.Errorf("coordinates[%d]: %w", i, err)
		}
	}
	return reg, nil
}

func runValidateKey(reg *schema.Registry, check Check) (CheckResult, error) {
	k, err := decodeYAMLKey(check.Key)
	if err != nil {
		return CheckResult{}, err
	}
	coord, ok := reg.Lookup(k.Type())
	if !ok {
		return CheckResult{}, fmt.Errorf("no coordinate declared for type %q", k.Type())
	}

	got := validationOutcome(coordinate.ValidateKey(k, coord, opLabel(check)))
	want := expectOutcome(check.Expect)
	return CheckResult{Passed: got == want, Want: want, Got: got}, nil
}

func runValidateLocation(reg *schema.Registry, check Check) (CheckResult, error) {
	coord, ok := reg.Lookup(key.TypeTag(check.Type))
	if !ok {
		return CheckResult{}, fmt.Errorf("no coordinate declared for type %q", check.Type)
	}
	chain, err := decodeYAMLLocation(check.Location)
	if err != nil {
		return CheckResult{}, err
	}

	got := validationOutcome(coordinate.ValidateLocationChain(chain, coord, opLabel(check)))
	want := expectOutcome(check.Expect)
	return CheckResult{Passed: got == want, Want: want, Got: got}, nil
}

func runMatchEvent(check Check) (CheckResult, error) {
	eventJSON, err := json.Marshal(check.Event)
	if err != nil {
		return CheckResult{}, err
	}
	event, err := subscription.DecodeChangeEvent(eventJSON)
	if err != nil {
		return CheckResult{}, err
	}

	subsJSON, err := json.Marshal(check.Subscriptions)
	if err != nil {
		return CheckResult{}, err
	}
	subs, err := subscription.DecodeSubscriptions(subsJSON)
	if err != nil {
		return CheckResult{}, err
	}

	matched := subscription.FindMatching(event, subs)
	ids := make([]string, len(matched))
	for i, sub := range matched {
		ids[i] = sub.ID()
	}

	got := strings.Join(ids, ",")
	want := strings.Join(check.ExpectMatches, ",")
	return CheckResult{Passed: got == want, Want: want, Got: got}, nil
}

func runQueryCheck(check Check) (CheckResult, error) {
	itemJSON, err := json.Marshal(check.Item)
	if err != nil {
		return CheckResult{}, err
	}
	item, err := query.DecodeItem(itemJSON)
	if err != nil {
		return CheckResult{}, err
	}

	queryJSON, err := json.Marshal(check.Query)
	if err != nil {
		return CheckResult{}, err
	}
	q, err := query.DecodeWire(queryJSON)
	if err != nil {
		return CheckResult{}, err
	}

	want := fmt.Sprintf("%t", check.ExpectMatch)
	if check.Expect == "error" {
		want = "error"
	}

	match, err := query.Matches(item, q)
	if err != nil {
		// Malformed predicates fail the check (with the error attached)
		// unless the scenario expects them to.
		return CheckResult{
			Passed: want == "error",
			Want:   want,
			Got:    "error",
			Detail: err.Error(),
		}, nil
	}

	got := fmt.Sprintf("%t", match)
	return CheckResult{Passed: got == want, Want: want, Got: got}, nil
}

// validationOutcome renders a validation result as "ok" or the error code.
func validationOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	var ve *coordinate.ValidationError
	if errors.As(err, &ve) {
		return string(ve.Code)
	}
	return err.Error()
}

// expectOutcome normalizes the scenario's expect field; empty means "ok".
func expectOutcome(expect string) string {
	if expect == "" {
		return "ok"
	}
	return expect
}

func opLabel(check Check) string {
	if check.Op != "" {
		return check.Op
	}
	return "harness"
}

func decodeYAMLKey(raw map[string]any) (key.ItemKey, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return key.UnmarshalKey(data)
}

func decodeYAMLLocation(raw []map[string]any) ([]key.LocKey, error) {
	chain := make([]key.LocKey, len(raw))
	for i, entry := range raw {
		data, err := json.Marshal(entry)
		if err != nil {
			return nil, err
		}
		loc, err := key.UnmarshalLocKey(data)
		if err != nil {
			return nil, fmt.Errorf("location[%d]: %w", i, err)
		}
		chain[i] = loc
	}
	return chain, nil
}
