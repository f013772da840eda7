package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: seeded documents, a sequence
// of invocations, and assertions over the results and committed state.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Setup seeds the state and session documents before the first step.
	Setup *Setup `yaml:"setup,omitempty"`

	// Steps are the invocations to run, in order. State and session
	// updates from each step are committed before the next one runs.
	Steps []Step `yaml:"steps"`

	// Assertions validate the step results and the final documents.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Setup holds the initial state and session documents.
type Setup struct {
	State   map[string]any `yaml:"state,omitempty"`
	Session map[string]any `yaml:"session,omitempty"`
}

// Step is one invocation sent through the engine.
type Step struct {
	// Operation is the host operation name. "validate" forces validate
	// mode; anything else renders. Defaults to "card".
	Operation string `yaml:"operation,omitempty"`

	// Invocation is the raw invocation envelope.
	Invocation map[string]any `yaml:"invocation"`

	// Expect optionally validates the step outcome inline.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	// ErrorCode is the expected error envelope code. Empty means the
	// step must succeed.
	ErrorCode string `yaml:"error_code,omitempty"`

	// Result contains expected top-level result fields. Subset match;
	// only the named fields are checked.
	Result map[string]any `yaml:"result,omitempty"`
}

// Assertion validates a step result or a final document.
type Assertion struct {
	// Type selects the assertion: result_path, error_code, issue_code,
	// final_state, or final_session.
	Type string `yaml:"type"`

	// Step indexes into the scenario steps. Defaults to the last step.
	Step *int `yaml:"step,omitempty"`

	// Path is a JSON pointer (used by result_path, final_state,
	// final_session).
	Path string `yaml:"path,omitempty"`

	// Equals is the expected value at Path.
	Equals any `yaml:"equals,omitempty"`

	// Code is the expected code (used by error_code and issue_code).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertResultPath   = "result_path"
	AssertErrorCode    = "error_code"
	AssertIssueCode    = "issue_code"
	AssertFinalState   = "final_state"
	AssertFinalSession = "final_session"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly instead of silently skipping checks.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// DiscoverScenarios lists the scenario YAML files under dir, sorted by name.
func DiscoverScenarios(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Invocation == nil {
			return fmt.Errorf("steps[%d]: invocation is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, len(s.Steps)); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion, stepCount int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Step != nil && (*a.Step < 0 || *a.Step >= stepCount) {
		return fmt.Errorf("assertions[%d]: step %d out of range", index, *a.Step)
	}

	switch a.Type {
	case AssertResultPath, AssertFinalState, AssertFinalSession:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for %s", index, a.Type)
		}
	case AssertErrorCode, AssertIssueCode:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
