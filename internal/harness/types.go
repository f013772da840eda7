package harness

import (
	"github.com/greentic-ai/cardengine/internal/model"
)

// StepOutput captures what the engine returned for one scenario step.
type StepOutput struct {
	// Operation is the host operation name the step ran.
	Operation string `json:"operation"`

	// Output is the decoded engine response, result or error envelope.
	Output any `json:"output"`

	// ErrorCode is the error envelope code, empty on success.
	ErrorCode string `json:"error_code,omitempty"`

	// Result is the typed result. Nil when the engine refused the step.
	Result *model.AdaptiveCardResult `json:"-"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Steps holds the engine output for each step in order.
	Steps []StepOutput `json:"steps"`

	// Errors lists expect and assertion failures. Empty when Pass.
	Errors []string `json:"errors,omitempty"`

	// FinalState is the committed state document after the last step.
	FinalState any `json:"final_state,omitempty"`

	// FinalSession is the committed session document after the last step.
	FinalSession any `json:"final_session,omitempty"`
}

// NewResult creates a passing result to accumulate into.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepOutput{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
