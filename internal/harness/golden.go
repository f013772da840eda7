package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/greentic-ai/cardengine/internal/canonicaljson"
)

// RunSnapshot captures a scenario run for golden comparison. Canonical JSON
// serialization keeps the byte output stable across runs.
type RunSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Steps        []StepOutput `json:"steps"`
	FinalState   any          `json:"final_state,omitempty"`
	FinalSession any          `json:"final_session,omitempty"`
}

// RunWithGolden executes a scenario and compares the run snapshot against
// testdata/golden/{scenario.Name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
//
// Scenarios whose output carries generated values (instance ids, telemetry
// timestamps) need those pinned in the scenario to stay deterministic.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-obtained result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := RunSnapshot{
		ScenarioName: scenarioName,
		Steps:        result.Steps,
		FinalState:   result.FinalState,
		FinalSession: result.FinalSession,
	}

	raw, err := canonicaljson.Marshal(snapshotDocument(&snapshot))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, raw)
	return nil
}

// snapshotDocument lowers a snapshot to plain maps for canonical marshaling.
func snapshotDocument(s *RunSnapshot) map[string]any {
	steps := make([]any, len(s.Steps))
	for i, step := range s.Steps {
		doc := map[string]any{
			"operation": step.Operation,
			"output":    step.Output,
		}
		if step.ErrorCode != "" {
			doc["error_code"] = step.ErrorCode
		}
		steps[i] = doc
	}

	doc := map[string]any{
		"scenario_name": s.ScenarioName,
		"steps":         steps,
	}
	if s.FinalState != nil {
		doc["final_state"] = s.FinalState
	}
	if s.FinalSession != nil {
		doc["final_session"] = s.FinalSession
	}
	return doc
}
