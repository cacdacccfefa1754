// Package fields maps template block kinds to their widget description and
// validation rules.
package fields

import (
	"strings"

	"github.com/childrens-bti/ticket-tracker-app/internal/models"
)

// Handler renders and validates one block kind.
type Handler interface {
	Render(block models.FieldBlock, current models.Answer) Widget
	Validate(block models.FieldBlock, answer models.Answer) Result
}

type Registry struct {
	text       Handler
	dropdown   Handler
	checkboxes Handler
	markdown   Handler
}

func NewRegistry() *Registry {
	return &Registry{
		text:       textHandler{},
		dropdown:   dropdownHandler{},
		checkboxes: checkboxesHandler{},
		markdown:   markdownHandler{},
	}
}

// handler returns nil for unsupported kinds.
func (r *Registry) handler(kind models.BlockKind) Handler {
	switch kind {
	case models.KindText, models.KindTextarea:
		return r.text
	case models.KindDropdown:
		return r.dropdown
	case models.KindCheckboxes:
		return r.checkboxes
	case models.KindMarkdown:
		return r.markdown
	case models.KindUnsupported:
		return nil
	default:
		return nil
	}
}

// Supports reports whether blocks of the given kind can be rendered.
func (r *Registry) Supports(kind models.BlockKind) bool {
	return r.handler(kind) != nil
}

// Render describes the widget for block, prefilled from current. Unsupported
// blocks yield an empty widget and a Skipped result.
func (r *Registry) Render(block models.FieldBlock, current models.Answer) (Widget, Result) {
	h := r.handler(block.Kind)
	if h == nil {
		return Widget{Kind: models.KindUnsupported, ID: block.ID, Label: block.Label, Default: -1}, skipped(block)
	}
	return h.Render(block, current), valid(block.ID, block.Label)
}

// Validate checks answer against the rules of block. A zero Answer means the
// field was never answered.
func (r *Registry) Validate(block models.FieldBlock, answer models.Answer) Result {
	h := r.handler(block.Kind)
	if h == nil {
		return skipped(block)
	}
	return h.Validate(block, answer)
}

func skipped(block models.FieldBlock) Result {
	return Result{Outcome: Skipped, FieldID: block.ID, Label: block.Label, Reason: ReasonUnsupported}
}

// ValidateRequiredText applies the required rule of text fields to a plain
// value. Fixed form fields use it too.
func ValidateRequiredText(id, label, value string, required bool) Result {
	if required && strings.TrimSpace(value) == "" {
		return Result{Outcome: MissingRequired, FieldID: id, Label: label, Reason: "is required"}
	}
	return valid(id, label)
}

// DefaultIndex resolves the declared default of a dropdown. A missing or out
// of range default selects the first option; -1 means there are no options.
func DefaultIndex(block models.FieldBlock) int {
	if len(block.Options) == 0 {
		return -1
	}
	if block.Default == nil || *block.Default < 0 || *block.Default >= len(block.Options) {
		return 0
	}
	return *block.Default
}

func baseWidget(block models.FieldBlock) Widget {
	return Widget{
		Kind:        block.Kind,
		ID:          block.ID,
		Label:       block.Label,
		Help:        block.Description,
		Placeholder: block.Placeholder,
		Required:    block.Required,
		Default:     -1,
	}
}

func indexOf(options []models.Option, label string) int {
	for i, o := range options {
		if o.Label == label {
			return i
		}
	}
	return -1
}

type textHandler struct{}

func (textHandler) Render(block models.FieldBlock, current models.Answer) Widget {
	w := baseWidget(block)
	if current.Kind() == models.AnswerText {
		w.Value = current.Text()
	}
	return w
}

func (textHandler) Validate(block models.FieldBlock, answer models.Answer) Result {
	if answer.Kind() == models.AnswerMultiSelect {
		return Result{Outcome: InvalidValue, FieldID: block.ID, Label: block.Label, Reason: "expected text"}
	}
	return ValidateRequiredText(block.ID, block.Label, answer.Text(), block.Required)
}

type dropdownHandler struct{}

func (dropdownHandler) Render(block models.FieldBlock, current models.Answer) Widget {
	w := baseWidget(block)
	w.Options = block.OptionLabels()
	w.Default = DefaultIndex(block)
	if current.Kind() == models.AnswerText {
		if i := indexOf(block.Options, current.Text()); i >= 0 {
			w.Default = i
		}
	}
	return w
}

func (dropdownHandler) Validate(block models.FieldBlock, answer models.Answer) Result {
	if answer.Kind() == models.AnswerMultiSelect {
		return Result{Outcome: InvalidValue, FieldID: block.ID, Label: block.Label, Reason: "expected a single choice"}
	}
	value := strings.TrimSpace(answer.Text())
	if value == "" {
		return ValidateRequiredText(block.ID, block.Label, value, block.Required)
	}
	if indexOf(block.Options, answer.Text()) < 0 {
		return Result{Outcome: InvalidValue, FieldID: block.ID, Label: block.Label, Reason: "not one of the declared options: " + value}
	}
	return valid(block.ID, block.Label)
}

type checkboxesHandler struct{}

func (checkboxesHandler) Render(block models.FieldBlock, current models.Answer) Widget {
	w := baseWidget(block)
	w.Options = block.OptionLabels()
	if current.Kind() == models.AnswerMultiSelect {
		for i, o := range block.Options {
			if current.IsSelected(o.Label) {
				w.Selected = append(w.Selected, i)
			}
		}
	}
	return w
}

func (checkboxesHandler) Validate(block models.FieldBlock, answer models.Answer) Result {
	if answer.Kind() == models.AnswerText {
		return Result{Outcome: InvalidValue, FieldID: block.ID, Label: block.Label, Reason: "expected a selection"}
	}
	selected := answer.Selected()
	if len(selected) == 0 {
		if block.Required {
			return Result{Outcome: MissingRequired, FieldID: block.ID, Label: block.Label, Reason: "select at least one option"}
		}
		return valid(block.ID, block.Label)
	}
	for _, s := range selected {
		if indexOf(block.Options, s) < 0 {
			return Result{Outcome: InvalidValue, FieldID: block.ID, Label: block.Label, Reason: "not one of the declared options: " + s}
		}
	}
	return valid(block.ID, block.Label)
}

type markdownHandler struct{}

func (markdownHandler) Render(block models.FieldBlock, _ models.Answer) Widget {
	w := baseWidget(block)
	w.Markdown = block.Value
	return w
}

func (markdownHandler) Validate(block models.FieldBlock, _ models.Answer) Result {
	return valid(block.ID, block.Label)
}
