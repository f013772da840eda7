package features

import (
	"github.com/greentic-ai/cardengine/internal/model"
)

// Analyze produces the feature summary for a card document. Sub-cards under
// Action.ShowCard count toward the same summary.
func Analyze(card any) model.CardFeatureSummary {
	summary := model.CardFeatureSummary{}
	root, ok := card.(map[string]any)
	if !ok {
		return summary
	}
	analyzeCardObject(root, &summary)
	return summary
}

func analyzeCardObject(card map[string]any, s *model.CardFeatureSummary) {
	if _, present := card["authentication"]; present {
		s.Authentication++
	}
	if body, ok := card["body"].([]any); ok {
		for _, el := range body {
			analyzeElement(el, s)
		}
	}
	if actions, ok := card["actions"].([]any); ok {
		for _, a := range actions {
			analyzeAction(a, s)
		}
	}
	if sel, ok := card["selectAction"].(map[string]any); ok {
		analyzeAction(sel, s)
	}
}

func analyzeElement(el any, s *model.CardFeatureSummary) {
	obj, ok := el.(map[string]any)
	if !ok {
		return
	}

	switch obj["type"] {
	case "TextBlock", "RichTextBlock", "TextRun":
		s.TextElements++
	case "Container", "ColumnSet", "Column", "FactSet", "ImageSet", "Table":
		s.Containers++
	case "Image":
		s.Images++
	case "Media":
		s.Media++
	case "Input.Text":
		s.InputText++
	case "Input.Number":
		s.InputNumber++
	case "Input.Date":
		s.InputDate++
	case "Input.Time":
		s.InputTime++
	case "Input.Toggle":
		s.InputToggle++
	case "Input.ChoiceSet":
		s.InputChoiceSet++
	default:
		s.Unknown++
	}

	for _, field := range []string{"items", "columns", "images", "inlines"} {
		if children, ok := obj[field].([]any); ok {
			for _, child := range children {
				analyzeElement(child, s)
			}
		}
	}
	if sel, ok := obj["selectAction"].(map[string]any); ok {
		analyzeAction(sel, s)
	}
}

func analyzeAction(a any, s *model.CardFeatureSummary) {
	obj, ok := a.(map[string]any)
	if !ok {
		return
	}

	switch obj["type"] {
	case "Action.Submit":
		s.ActionSubmit++
	case "Action.Execute":
		s.ActionExecute++
	case "Action.OpenUrl":
		s.ActionOpenURL++
	case "Action.ShowCard":
		s.ActionShowCard++
		if sub, ok := obj["card"].(map[string]any); ok {
			analyzeCardObject(sub, s)
		}
	case "Action.ToggleVisibility":
		s.ActionToggleVisibility++
	default:
		s.Unknown++
	}
}
