package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// RunWithGolden loads a scenario, runs it, and compares the JSON report to
// the golden file named after the scenario. Regenerate goldens with
// `go test ./internal/harness -update`.
func RunWithGolden(t *testing.T, scenarioPath string) *Result {
	t.Helper()

	scenario, err := LoadScenario(scenarioPath)
	require.NoError(t, err, "scenario should load")

	result, err := Run(scenario)
	require.NoError(t, err, "scenario should run")

	var report bytes.Buffer
	enc := json.NewEncoder(&report)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	require.NoError(t, enc.Encode(result), "report should marshal")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, report.Bytes())
	return result
}
