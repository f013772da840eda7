// Package harness provides scenario-based conformance testing for the card
// engine.
//
// Scenarios are YAML files that seed state and session documents, send a
// sequence of invocations through the engine, and assert on the results and
// the committed state. Each scenario runs against a fresh in-memory SQLite
// store so state carries across steps the way a host would carry it.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario checks"
//	setup:
//	  state: { user: { name: "Ada" } }
//	  session: { route: "home" }
//	steps:
//	  - operation: card
//	    invocation:
//	      card_source: inline
//	      card_spec: { inline_json: { type: AdaptiveCard, version: "1.6", body: [] } }
//	    expect:
//	      error_code: ""
//	assertions:
//	  - type: result_path
//	    step: 0
//	    path: /renderedCard/body/0/text
//	    equals: "Hello Ada"
//	  - type: final_state
//	    path: /form_data/email
//	    equals: "ada@example.com"
//
// # Assertion Types
//
//   - result_path: a JSON pointer into a step's result equals a value
//   - error_code: a step produced an error envelope with the given code
//   - issue_code: a step's validation issues include the given code
//   - final_state: a pointer into the committed state document equals a value
//   - final_session: a pointer into the committed session document equals a value
//
// # Golden Files
//
// RunWithGolden serializes the full run in canonical JSON and compares it
// against testdata/golden/{name}.golden via goldie. Regenerate with:
//
//	go test ./internal/harness -update
package harness
