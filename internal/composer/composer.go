// Package composer turns a completed form into an issue payload.
package composer

import (
	"fmt"
	"strconv"
	"strings"

	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
	"github.com/childrens-bti/ticket-tracker-app/internal/fields"
	"github.com/childrens-bti/ticket-tracker-app/internal/form"
	"github.com/childrens-bti/ticket-tracker-app/internal/models"
	"github.com/childrens-bti/ticket-tracker-app/internal/regex"
)

// MaxTitleLength caps the user supplied part of an issue title, in runes.
const MaxTitleLength = 70

// NoResponse stands in for blank text answers.
const NoResponse = "_No response_"

type ComposeErrorKind int

const (
	InvalidProjectRef ComposeErrorKind = iota + 1
)

func (k ComposeErrorKind) String() string {
	switch k {
	case InvalidProjectRef:
		return "invalid project reference"
	default:
		return "unknown"
	}
}

// ComposeError aborts a composition.
type ComposeError struct {
	Kind ComposeErrorKind
	Ref  string
}

func (e *ComposeError) Error() string {
	return fmt.Sprintf("%s: %q", e.Kind, e.Ref)
}

func (e *ComposeError) Unwrap() error {
	return domainErrors.ErrInvalidProjectRef
}

// Compose validates the snapshot against the template and builds the issue
// payload. Validation failures are returned together as fields.ValidationErrors.
func Compose(tpl *models.Template, snap form.Snapshot) (*models.IssuePayload, error) {
	return ComposeWith(fields.NewRegistry(), tpl, snap)
}

// ComposeWith is Compose using the given registry.
func ComposeWith(registry *fields.Registry, tpl *models.Template, snap form.Snapshot) (*models.IssuePayload, error) {
	if errs := Validate(registry, tpl, snap); len(errs) > 0 {
		return nil, errs
	}

	projectIDs, err := ProjectIDs(tpl.ProjectRefs)
	if err != nil {
		return nil, err
	}

	return &models.IssuePayload{
		Title:      Title(tpl.TitlePrefix, snap.Fixed(form.TicketTitle)),
		Body:       Body(tpl, snap),
		Labels:     Labels(tpl),
		ProjectIDs: projectIDs,
	}, nil
}

// Validate checks the fixed fields and then every block in declaration order,
// returning every failure.
func Validate(registry *fields.Registry, tpl *models.Template, snap form.Snapshot) fields.ValidationErrors {
	var errs fields.ValidationErrors

	for _, f := range form.FixedFields {
		if r := fields.ValidateRequiredText(f.ID, f.Label, snap.Fixed(f.ID), true); r.Failed() {
			errs = append(errs, r.Err().(*fields.FieldError))
		}
	}

	for _, b := range tpl.Body {
		if !b.Stored() {
			continue
		}
		answer, _ := snap.Answer(b.ID)
		if r := registry.Validate(b, answer); r.Failed() {
			errs = append(errs, r.Err().(*fields.FieldError))
		}
	}

	return errs
}

// Title joins the template prefix with the trimmed ticket title, cut to
// MaxTitleLength runes.
func Title(prefix, ticketTitle string) string {
	title := truncate(strings.TrimSpace(ticketTitle), MaxTitleLength)
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return title
	}
	return prefix + " " + title
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Body renders the issue body. Submitter and lab always come first, then
// every answered block in template order.
func Body(tpl *models.Template, snap form.Snapshot) string {
	sections := []string{
		section("Submitter Name", textValue(snap.Fixed(form.SubmitterName))),
		section("Lab", textValue(snap.Fixed(form.Lab))),
	}

	for _, b := range tpl.Body {
		if !b.Stored() {
			continue
		}
		answer, ok := snap.Answer(b.ID)
		if !ok {
			continue
		}
		switch answer.Kind() {
		case models.AnswerText:
			sections = append(sections, section(b.Label, textValue(answer.Text())))
		case models.AnswerMultiSelect:
			sections = append(sections, section(b.Label, checklist(b.Options, answer)))
		}
	}

	return strings.Join(sections, "\n\n")
}

func section(heading, content string) string {
	return "### " + heading + "\n" + content
}

func textValue(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoResponse
	}
	return s
}

// checklist renders one line per declared option, selected or not.
func checklist(options []models.Option, answer models.Answer) string {
	lines := make([]string, len(options))
	for i, o := range options {
		mark := " "
		if answer.IsSelected(o.Label) {
			mark = "x"
		}
		lines[i] = fmt.Sprintf("- [%s] %s", mark, o.Label)
	}
	return strings.Join(lines, "\n")
}

// Labels returns the issue type label followed by the template labels,
// without blanks or duplicates.
func Labels(tpl *models.Template) []string {
	all := append([]string{tpl.IssueType}, tpl.Labels...)
	seen := make(map[string]struct{}, len(all))
	labels := make([]string, 0, len(all))
	for _, l := range all {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		labels = append(labels, l)
	}
	return labels
}

// ProjectIDs extracts the trailing project number of every reference.
func ProjectIDs(refs []string) ([]int, error) {
	ids := make([]int, 0, len(refs))
	for _, ref := range refs {
		m := regex.ProjectNumber.FindStringSubmatch(strings.TrimSpace(ref))
		if m == nil {
			return nil, &ComposeError{Kind: InvalidProjectRef, Ref: ref}
		}
		id, err := strconv.Atoi(m[1])
		if err != nil || id <= 0 {
			return nil, &ComposeError{Kind: InvalidProjectRef, Ref: ref}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
