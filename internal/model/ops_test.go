package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateOpConstructors(t *testing.T) {
	set := SetState("form_data.email", "a@b.c")
	assert.Equal(t, StateOpSet, set.Op)
	assert.Equal(t, "form_data.email", set.Path)
	assert.Equal(t, "a@b.c", set.Value)

	merge := MergeState("form_data", map[string]any{"k": "v"})
	assert.Equal(t, StateOpMerge, merge.Op)

	del := DeleteState("form_data")
	assert.Equal(t, StateOpDelete, del.Op)
	assert.Nil(t, del.Value)
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"single segment", "form_data", false},
		{"dotted", "ui.visibility.a1", false},
		{"empty", "", true},
		{"leading dot", ".a", true},
		{"trailing dot", "a.", true},
		{"double dot", "a..b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SetState(tt.path, nil).ValidatePath()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSessionOpWireShape(t *testing.T) {
	tests := []struct {
		name     string
		op       SessionUpdateOp
		expected string
	}{
		{"set_route", SetRoute("checkout"), `{"op":"set_route","route":"checkout"}`},
		{"set_attribute", SetAttribute("card_id", "c1"), `{"op":"set_attribute","key":"card_id","value":"c1"}`},
		{"push_card", PushCard("details"), `{"op":"push_card","id":"details"}`},
		{"pop_card", PopCard(), `{"op":"pop_card"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.op)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(raw))
		})
	}
}

func TestNewResultWireArrays(t *testing.T) {
	raw, err := json.Marshal(NewResult())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, []any{}, doc["stateUpdates"])
	assert.Equal(t, []any{}, doc["sessionUpdates"])
	assert.Equal(t, []any{}, doc["validationIssues"])
	assert.NotContains(t, doc, "renderedCard")
	assert.NotContains(t, doc, "event")
}

func TestFeatureSummaryTotals(t *testing.T) {
	s := CardFeatureSummary{
		InputText:      1,
		InputChoiceSet: 2,
		ActionSubmit:   1,
		ActionOpenURL:  3,
	}
	assert.Equal(t, 3, s.Inputs())
	assert.Equal(t, 4, s.Actions())
}
