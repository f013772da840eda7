package validate

import (
	"fmt"
	"strings"

	"github.com/greentic-ai/cardengine/internal/model"
)

// Validate checks the card document and returns every structural issue
// found, in document order. The returned slice is never nil.
func Validate(card any) []model.ValidationIssue {
	v := &validator{
		issues:    []model.ValidationIssue{},
		inputIDs:  map[string]bool{},
		actionIDs: map[string]bool{},
	}
	v.checkRoot(card)
	return v.issues
}

// validator accumulates issues while walking. Input and action id spaces are
// card-wide, including cards nested under Action.ShowCard.
type validator struct {
	issues    []model.ValidationIssue
	inputIDs  map[string]bool
	actionIDs map[string]bool
}

func (v *validator) errorf(path, code, format string, args ...any) {
	v.issues = append(v.issues, model.ValidationIssue{
		Path:     path,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: model.SeverityError,
	})
}

func (v *validator) warnf(path, code, format string, args ...any) {
	v.issues = append(v.issues, model.ValidationIssue{
		Path:     path,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: model.SeverityWarning,
	})
}

func (v *validator) checkRoot(card any) {
	root, ok := card.(map[string]any)
	if !ok {
		v.errorf("", CodeRootType, "card root must be a JSON object")
		return
	}

	if typ, _ := root["type"].(string); typ != "AdaptiveCard" {
		v.errorf("/type", CodeRootType, `root "type" must be "AdaptiveCard"`)
	}
	if ver, _ := root["version"].(string); strings.TrimSpace(ver) == "" {
		v.errorf("/version", CodeVersionRequired, `root "version" must be a non-empty string`)
	}

	v.checkCardObject(root, "")
}

// checkCardObject validates the body/actions/decorations of a card-shaped
// object. It is shared between the root card and ShowCard sub-cards.
func (v *validator) checkCardObject(card map[string]any, path string) {
	if body, present := card["body"]; present {
		items, ok := body.([]any)
		if !ok {
			v.errorf(path+"/body", CodeBodyType, `"body" must be an array`)
		} else {
			for i, el := range items {
				v.checkElement(el, fmt.Sprintf("%s/body/%d", path, i))
			}
		}
	}

	if actions, present := card["actions"]; present {
		items, ok := actions.([]any)
		if !ok {
			v.errorf(path+"/actions", CodeActionsType, `"actions" must be an array`)
		} else {
			for i, a := range items {
				v.checkAction(a, fmt.Sprintf("%s/actions/%d", path, i))
			}
		}
	}

	if sel, present := card["selectAction"]; present {
		v.checkSelectAction(sel, path+"/selectAction")
	}
	if bg, present := card["backgroundImage"]; present {
		v.checkBackgroundImage(bg, path+"/backgroundImage")
	}
	if fb, present := card["fallback"]; present {
		v.checkFallback(fb, path+"/fallback")
	}
}

func (v *validator) checkElement(el any, path string) {
	obj, ok := el.(map[string]any)
	if !ok {
		v.errorf(path, CodeElementShape, "element must be a JSON object")
		return
	}

	typ, _ := obj["type"].(string)
	if typ == "" {
		v.errorf(path+"/type", CodeElementType, `element is missing its "type"`)
	}

	if strings.HasPrefix(typ, "Input.") {
		v.checkInput(obj, typ, path)
	}

	switch typ {
	case "Container":
		v.checkChildElements(obj, "items", path)
	case "ColumnSet":
		cols, ok := obj["columns"].([]any)
		if !ok {
			v.errorf(path+"/columns", CodeColumnSetColumns, `ColumnSet "columns" must be an array`)
		} else {
			for i, col := range cols {
				v.checkElement(col, fmt.Sprintf("%s/columns/%d", path, i))
			}
		}
	case "Column":
		v.checkChildElements(obj, "items", path)
	case "ImageSet":
		v.checkChildElements(obj, "images", path)
	case "Media":
		v.checkMedia(obj, path)
	}

	if sel, present := obj["selectAction"]; present {
		v.checkSelectAction(sel, path+"/selectAction")
	}
	if fb, present := obj["fallback"]; present {
		v.checkFallback(fb, path+"/fallback")
	}
	if bg, present := obj["backgroundImage"]; present {
		v.checkBackgroundImage(bg, path+"/backgroundImage")
	}
}

// checkChildElements recurses into an optional array-valued child field.
func (v *validator) checkChildElements(obj map[string]any, field, path string) {
	raw, present := obj[field]
	if !present {
		return
	}
	items, ok := raw.([]any)
	if !ok {
		v.errorf(path+"/"+field, CodeElementShape, "%q must be an array", field)
		return
	}
	for i, el := range items {
		v.checkElement(el, fmt.Sprintf("%s/%s/%d", path, field, i))
	}
}

func (v *validator) checkInput(obj map[string]any, typ, path string) {
	id, _ := obj["id"].(string)
	if strings.TrimSpace(id) == "" {
		v.errorf(path+"/id", CodeInputIDRequired, `%s requires a non-empty "id"`, typ)
	} else if v.inputIDs[id] {
		v.errorf(path+"/id", CodeInputIDDuplicate, "input id %q is used more than once", id)
	} else {
		v.inputIDs[id] = true
	}

	if typ != "Input.ChoiceSet" {
		return
	}
	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		v.errorf(path+"/choices", CodeChoiceSetChoices, `Input.ChoiceSet requires a non-empty "choices" array`)
		return
	}
	for i, c := range choices {
		choice, ok := c.(map[string]any)
		if !ok {
			v.errorf(fmt.Sprintf("%s/choices/%d", path, i), CodeChoiceShape, "choice must be a JSON object")
			continue
		}
		if _, ok := choice["title"].(string); !ok {
			v.errorf(fmt.Sprintf("%s/choices/%d/title", path, i), CodeChoiceShape, `choice requires a "title"`)
		}
		if _, present := choice["value"]; !present {
			v.errorf(fmt.Sprintf("%s/choices/%d/value", path, i), CodeChoiceShape, `choice requires a "value"`)
		}
	}
}

func (v *validator) checkAction(a any, path string) {
	obj, ok := a.(map[string]any)
	if !ok {
		v.errorf(path, CodeActionShape, "action must be a JSON object")
		return
	}

	typ, _ := obj["type"].(string)
	if typ == "" {
		v.errorf(path+"/type", CodeActionType, `action is missing its "type"`)
	}

	if id, _ := obj["id"].(string); id != "" {
		if v.actionIDs[id] {
			v.errorf(path+"/id", CodeActionIDDuplicate, "action id %q is used more than once", id)
		} else {
			v.actionIDs[id] = true
		}
	}

	switch typ {
	case "Action.OpenUrl":
		if url, _ := obj["url"].(string); strings.TrimSpace(url) == "" {
			v.errorf(path+"/url", CodeOpenURLRequired, `Action.OpenUrl requires a non-empty "url"`)
		}
	case "Action.Submit", "Action.Execute":
		if data, present := obj["data"]; present {
			if _, ok := data.(map[string]any); !ok {
				v.errorf(path+"/data", CodeSubmitDataType, `%s "data" must be a JSON object`, typ)
			}
		}
	case "Action.ShowCard":
		card, present := obj["card"]
		if !present {
			return
		}
		sub, ok := card.(map[string]any)
		if !ok {
			v.errorf(path+"/card", CodeShowCardCard, `Action.ShowCard "card" must be a JSON object`)
			return
		}
		v.checkCardObject(sub, path+"/card")
	}

	if fb, present := obj["fallback"]; present {
		v.checkFallback(fb, path+"/fallback")
	}
}

// checkSelectAction validates the inline action attached to an element or
// the card root.
func (v *validator) checkSelectAction(sel any, path string) {
	if _, ok := sel.(map[string]any); !ok {
		v.errorf(path, CodeSelectAction, `"selectAction" must be a JSON object`)
		return
	}
	v.checkAction(sel, path)
}

// checkFallback accepts the literal "drop", an element object, or an action
// object. Anything else is the wrong shape.
func (v *validator) checkFallback(fb any, path string) {
	switch node := fb.(type) {
	case string:
		if node != "drop" {
			v.warnf(path, CodeFallbackShape, `string "fallback" must be "drop"`)
		}
	case map[string]any:
		v.checkElement(node, path)
	default:
		v.errorf(path, CodeFallbackShape, `"fallback" must be "drop" or an element object`)
	}
}

// checkBackgroundImage accepts a URL string or an object carrying a "url".
func (v *validator) checkBackgroundImage(bg any, path string) {
	switch node := bg.(type) {
	case string:
		if strings.TrimSpace(node) == "" {
			v.warnf(path, CodeBackgroundImage, `"backgroundImage" URL is empty`)
		}
	case map[string]any:
		if url, _ := node["url"].(string); strings.TrimSpace(url) == "" {
			v.errorf(path+"/url", CodeBackgroundImage, `"backgroundImage" object requires a "url"`)
		}
	default:
		v.errorf(path, CodeBackgroundImage, `"backgroundImage" must be a string or object`)
	}
}

func (v *validator) checkMedia(obj map[string]any, path string) {
	sources, ok := obj["sources"].([]any)
	if !ok || len(sources) == 0 {
		v.errorf(path+"/sources", CodeMediaSources, `Media requires a non-empty "sources" array`)
		return
	}
	for i, s := range sources {
		src, ok := s.(map[string]any)
		if !ok {
			v.errorf(fmt.Sprintf("%s/sources/%d", path, i), CodeMediaSourceURL, "media source must be a JSON object")
			continue
		}
		if url, _ := src["url"].(string); strings.TrimSpace(url) == "" {
			v.errorf(fmt.Sprintf("%s/sources/%d/url", path, i), CodeMediaSourceURL, `media source requires a "url"`)
		}
	}
}
