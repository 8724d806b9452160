package harness

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot is the golden-file form of a scenario trace.
type TraceSnapshot struct {
	Scenario string        `json:"scenario"`
	Records  []TraceRecord `json:"records"`
}

// RunWithGolden executes a scenario and compares its trace against
// the golden file testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error when the scenario fails to execute or its
// expectations and assertions do not hold; a trace mismatch fails the
// test through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("scenario %s failed:\n%s",
			scenario.Name, strings.Join(result.Errors, "\n"))
	}

	snapshot := TraceSnapshot{
		Scenario: scenario.Name,
		Records:  result.Trace,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
