package models

import "sort"

// AnswerKind tags the variant held by an Answer.
type AnswerKind int

const (
	AnswerText AnswerKind = iota + 1
	AnswerMultiSelect
)

// Answer is the value entered for a block: free text or a multi-select.
// The zero value is not a valid answer.
type Answer struct {
	kind     AnswerKind
	text     string
	options  []string
	selected map[string]struct{}
}

// TextAnswer builds a free text answer.
func TextAnswer(s string) Answer {
	return Answer{kind: AnswerText, text: s}
}

// MultiSelectAnswer builds a multi-select answer backed by the ordered option
// list of the block it answers.
func MultiSelectAnswer(options []string, selected ...string) Answer {
	a := Answer{
		kind:     AnswerMultiSelect,
		options:  append([]string(nil), options...),
		selected: make(map[string]struct{}, len(selected)),
	}
	for _, s := range selected {
		a.selected[s] = struct{}{}
	}
	return a
}

func (a Answer) Kind() AnswerKind { return a.kind }

func (a Answer) IsZero() bool { return a.kind == 0 }

// Text returns the text of a text answer.
func (a Answer) Text() string { return a.text }

// Options returns the option list backing a multi-select answer.
func (a Answer) Options() []string {
	return append([]string(nil), a.options...)
}

// IsSelected reports whether option is part of a multi-select answer.
func (a Answer) IsSelected(option string) bool {
	_, ok := a.selected[option]
	return ok
}

// Selected returns the selected options, ordered by the backing option list.
// Selections that are not in the option list come last, sorted.
func (a Answer) Selected() []string {
	out := make([]string, 0, len(a.selected))
	seen := make(map[string]struct{}, len(a.selected))
	for _, o := range a.options {
		if a.IsSelected(o) {
			out = append(out, o)
			seen[o] = struct{}{}
		}
	}
	var extra []string
	for s := range a.selected {
		if _, ok := seen[s]; !ok {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Clone returns a deep copy.
func (a Answer) Clone() Answer {
	c := a
	c.options = append([]string(nil), a.options...)
	if a.selected != nil {
		c.selected = make(map[string]struct{}, len(a.selected))
		for k := range a.selected {
			c.selected[k] = struct{}{}
		}
	}
	return c
}
