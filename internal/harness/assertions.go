package harness

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// AssertionError is returned when an assertion fails. It carries expected
// and actual values for readable test output.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s\n  expected: %s\n  actual: %s",
		e.Type, e.Expected, e.Actual)
}

// evaluateAssertions runs every scenario assertion against the result and
// records failures on it.
func evaluateAssertions(result *Result, scenario *Scenario) {
	for i, assertion := range scenario.Assertions {
		if err := evaluateAssertion(result, &assertion); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
}

func evaluateAssertion(result *Result, a *Assertion) error {
	switch a.Type {
	case AssertResultPath:
		return assertResultPath(result, a)
	case AssertErrorCode:
		return assertErrorCode(result, a)
	case AssertIssueCode:
		return assertIssueCode(result, a)
	case AssertFinalState:
		return assertDocumentPath(a.Type, result.FinalState, a)
	case AssertFinalSession:
		return assertDocumentPath(a.Type, result.FinalSession, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// stepOutput resolves the assertion's step, defaulting to the last one.
func stepOutput(result *Result, a *Assertion) (*StepOutput, error) {
	if len(result.Steps) == 0 {
		return nil, fmt.Errorf("no steps were run")
	}
	index := len(result.Steps) - 1
	if a.Step != nil {
		index = *a.Step
	}
	return &result.Steps[index], nil
}

func assertResultPath(result *Result, a *Assertion) error {
	output, err := stepOutput(result, a)
	if err != nil {
		return err
	}
	value, found := lookupPointer(output.Output, a.Path)
	if !found {
		return &AssertionError{
			Type:     AssertResultPath,
			Expected: fmt.Sprintf("%s = %v", a.Path, a.Equals),
			Actual:   "path not found in result",
		}
	}
	if !valueEqual(value, a.Equals) {
		return &AssertionError{
			Type:     AssertResultPath,
			Expected: fmt.Sprintf("%s = %v", a.Path, a.Equals),
			Actual:   fmt.Sprintf("%v", value),
		}
	}
	return nil
}

func assertErrorCode(result *Result, a *Assertion) error {
	output, err := stepOutput(result, a)
	if err != nil {
		return err
	}
	if output.ErrorCode != a.Code {
		return &AssertionError{
			Type:     AssertErrorCode,
			Expected: fmt.Sprintf("error code %q", a.Code),
			Actual:   fmt.Sprintf("error code %q", output.ErrorCode),
		}
	}
	return nil
}

func assertIssueCode(result *Result, a *Assertion) error {
	output, err := stepOutput(result, a)
	if err != nil {
		return err
	}
	if output.Result != nil {
		for _, issue := range output.Result.ValidationIssues {
			if issue.Code == a.Code {
				return nil
			}
		}
	}
	return &AssertionError{
		Type:     AssertIssueCode,
		Expected: fmt.Sprintf("validation issue with code %q", a.Code),
		Actual:   "no matching issue",
	}
}

func assertDocumentPath(kind string, doc any, a *Assertion) error {
	value, found := lookupPointer(doc, a.Path)
	if !found {
		return &AssertionError{
			Type:     kind,
			Expected: fmt.Sprintf("%s = %v", a.Path, a.Equals),
			Actual:   "path not found",
		}
	}
	if !valueEqual(value, a.Equals) {
		return &AssertionError{
			Type:     kind,
			Expected: fmt.Sprintf("%s = %v", a.Path, a.Equals),
			Actual:   fmt.Sprintf("%v", value),
		}
	}
	return nil
}

// lookupPointer walks a JSON pointer ("/a/0/b") through decoded JSON.
func lookupPointer(doc any, pointer string) (any, bool) {
	if pointer == "" || pointer == "/" {
		return doc, true
	}
	current := doc
	for _, segment := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = value
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}
			current = node[index]
		default:
			return nil, false
		}
	}
	return current, true
}

// valueEqual compares values across YAML and JSON decoding. Numbers compare
// by value so a YAML int matches a JSON float64.
func valueEqual(got, want any) bool {
	if gotNum, ok := toFloat(got); ok {
		if wantNum, ok := toFloat(want); ok {
			return gotNum == wantNum
		}
		return false
	}

	switch wantTyped := want.(type) {
	case map[string]any:
		gotTyped, ok := got.(map[string]any)
		if !ok || len(gotTyped) != len(wantTyped) {
			return false
		}
		for key, wantValue := range wantTyped {
			gotValue, present := gotTyped[key]
			if !present || !valueEqual(gotValue, wantValue) {
				return false
			}
		}
		return true
	case []any:
		gotTyped, ok := got.([]any)
		if !ok || len(gotTyped) != len(wantTyped) {
			return false
		}
		for i := range wantTyped {
			if !valueEqual(gotTyped[i], wantTyped[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(got, want)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
