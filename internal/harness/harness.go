package harness

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/greentic-ai/cardengine/internal/engine"
	"github.com/greentic-ai/cardengine/internal/model"
	"github.com/greentic-ai/cardengine/internal/statestore"
)

// defaultOperation is used when a step names no operation.
const defaultOperation = "card"

// Run executes a scenario against a fresh engine and returns the result.
//
// Each scenario runs against its own in-memory SQLite store so committed
// state and session documents carry between steps the way a host would
// carry them, without leaking across scenarios.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithEngine(scenario, engine.New())
}

// RunWithEngine executes a scenario against the given engine. Tests that
// need a custom asset resolver build the engine themselves.
func RunWithEngine(scenario *Scenario, eng *engine.Engine) (*Result, error) {
	store, err := statestore.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	key := scenario.Name
	result := NewResult()

	if scenario.Setup != nil {
		if scenario.Setup.State != nil {
			if err := store.SaveState(ctx, key, scenario.Setup.State); err != nil {
				return nil, fmt.Errorf("failed to seed state: %w", err)
			}
		}
		if scenario.Setup.Session != nil {
			if err := store.SaveSession(ctx, key, scenario.Setup.Session); err != nil {
				return nil, fmt.Errorf("failed to seed session: %w", err)
			}
		}
	}

	for i, step := range scenario.Steps {
		output, err := runStep(ctx, eng, store, key, &step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		result.Steps = append(result.Steps, *output)
		checkExpect(result, i, &step, output)
	}

	if state, found, err := store.LoadState(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to load final state: %w", err)
	} else if found {
		result.FinalState = state
	}
	if session, found, err := store.LoadSession(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to load final session: %w", err)
	} else if found {
		result.FinalSession = session
	}

	evaluateAssertions(result, scenario)
	return result, nil
}

// runStep sends one invocation through the engine and commits its updates.
// Stored documents are injected only when the step does not carry its own.
func runStep(ctx context.Context, eng *engine.Engine, store *statestore.Store, key string, step *Step) (*StepOutput, error) {
	invocation := cloneMap(step.Invocation)
	if _, ok := invocation["state"]; !ok {
		if state, found, err := store.LoadState(ctx, key); err != nil {
			return nil, err
		} else if found {
			invocation["state"] = state
		}
	}
	if _, ok := invocation["session"]; !ok {
		if session, found, err := store.LoadSession(ctx, key); err != nil {
			return nil, err
		} else if found {
			invocation["session"] = session
		}
	}

	input, err := json.Marshal(invocation)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize invocation: %w", err)
	}

	operation := step.Operation
	if operation == "" {
		operation = defaultOperation
	}
	raw := eng.HandleMessage(operation, input)

	output := &StepOutput{Operation: operation}
	if err := json.Unmarshal(raw, &output.Output); err != nil {
		return nil, fmt.Errorf("engine returned invalid JSON: %w", err)
	}
	output.ErrorCode = errorCode(output.Output)

	if output.ErrorCode == "" {
		var typed model.AdaptiveCardResult
		if err := json.Unmarshal(raw, &typed); err != nil {
			return nil, fmt.Errorf("failed to decode result: %w", err)
		}
		output.Result = &typed
		if err := store.Commit(ctx, key, &typed); err != nil {
			return nil, fmt.Errorf("failed to commit updates: %w", err)
		}
	}
	return output, nil
}

// checkExpect validates a step's inline expect clause against its output.
func checkExpect(result *Result, index int, step *Step, output *StepOutput) {
	if step.Expect == nil {
		return
	}

	if output.ErrorCode != step.Expect.ErrorCode {
		result.AddError(fmt.Sprintf(
			"steps[%d]: expected error code %q, got %q",
			index, step.Expect.ErrorCode, output.ErrorCode))
		return
	}

	if step.Expect.Result != nil {
		doc, ok := output.Output.(map[string]any)
		if !ok {
			result.AddError(fmt.Sprintf("steps[%d]: result is not an object", index))
			return
		}
		for field, want := range step.Expect.Result {
			got, present := doc[field]
			if !present {
				result.AddError(fmt.Sprintf(
					"steps[%d]: result field %q is missing", index, field))
				continue
			}
			if !valueEqual(got, want) {
				result.AddError(fmt.Sprintf(
					"steps[%d]: result field %q: expected %v, got %v",
					index, field, want, got))
			}
		}
	}
}

// errorCode extracts the code from an {"error": {...}} envelope, or "".
func errorCode(output any) string {
	doc, ok := output.(map[string]any)
	if !ok {
		return ""
	}
	body, ok := doc["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := body["code"].(string)
	return code
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
