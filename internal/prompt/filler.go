package prompt

import (
	"context"
	"strings"

	"github.com/childrens-bti/ticket-tracker-app/internal/fields"
	"github.com/childrens-bti/ticket-tracker-app/internal/form"
	"github.com/childrens-bti/ticket-tracker-app/internal/logger"
	"github.com/childrens-bti/ticket-tracker-app/internal/models"
)

const selectPageSize = 12

// Filler walks a form in template order and asks the driver for each answer.
type Filler struct {
	driver   Driver
	registry *fields.Registry
}

func NewFiller(driver Driver, registry *fields.Registry) *Filler {
	return &Filler{driver: driver, registry: registry}
}

// Fill asks for every fixed field that is still empty and then every block of
// the template. Fields that fail validation are kept and reported as session
// warnings; the walk continues with the next field.
func (f *Filler) Fill(ctx context.Context, session *form.Session) error {
	for _, n := range session.Notices() {
		if err := f.driver.Info(ctx, "ℹ "+n); err != nil {
			return err
		}
	}

	snap := session.Snapshot()
	for _, ff := range form.FixedFields {
		if strings.TrimSpace(snap.Fixed(ff.ID)) != "" {
			continue
		}
		value, err := f.driver.Input(ctx, InputConfig{Message: ff.Label + " *"})
		if err != nil {
			return err
		}
		if err := session.SetFixed(ff.ID, value); err != nil {
			return err
		}
		if r := fields.ValidateRequiredText(ff.ID, ff.Label, value, true); r.Failed() {
			session.Warn(r.Err().Error())
			if err := f.driver.Info(ctx, "⚠ "+r.Err().Error()); err != nil {
				return err
			}
		}
	}

	for _, b := range session.Template().Body {
		widget, result := f.registry.Render(b, session.Answer(b.ID))
		if result.Outcome == fields.Skipped {
			logger.Debug(ctx, "not prompting for unsupported block", "field", b.ID, "type", b.Type)
			continue
		}
		if widget.Kind == models.KindMarkdown {
			if strings.TrimSpace(widget.Markdown) != "" {
				if err := f.driver.Info(ctx, widget.Markdown); err != nil {
					return err
				}
			}
			continue
		}
		if !widget.Interactive() {
			continue
		}

		answer, err := f.ask(ctx, widget)
		if err != nil {
			return err
		}
		r, err := session.Edit(f.registry, b.ID, answer)
		if err != nil {
			return err
		}
		if r.Failed() {
			if err := f.driver.Info(ctx, "⚠ "+r.Err().Error()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *Filler) ask(ctx context.Context, w fields.Widget) (models.Answer, error) {
	message := w.Label
	if w.Required {
		message += " *"
	}
	help := w.Help
	if help == "" && w.Placeholder != "" {
		help = "e.g. " + w.Placeholder
	}

	switch w.Kind {
	case models.KindText:
		v, err := f.driver.Input(ctx, InputConfig{Message: message, Default: w.Value, Help: help})
		if err != nil {
			return models.Answer{}, err
		}
		return models.TextAnswer(v), nil
	case models.KindTextarea:
		v, err := f.driver.TextArea(ctx, InputConfig{Message: message, Default: w.Value, Help: help})
		if err != nil {
			return models.Answer{}, err
		}
		return models.TextAnswer(v), nil
	case models.KindDropdown:
		if len(w.Options) == 0 {
			return models.TextAnswer(""), nil
		}
		i, err := f.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      w.Options,
			DefaultIndex: w.Default,
			Help:         help,
			PageSize:     selectPageSize,
		})
		if err != nil {
			return models.Answer{}, err
		}
		if i < 0 || i >= len(w.Options) {
			return models.TextAnswer(""), nil
		}
		return models.TextAnswer(w.Options[i]), nil
	case models.KindCheckboxes:
		indices, err := f.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  w.Options,
			Defaults: w.Selected,
			Help:     help,
			PageSize: selectPageSize,
		})
		if err != nil {
			return models.Answer{}, err
		}
		return models.MultiSelectAnswer(w.Options, valuesAt(w.Options, indices)...), nil
	default:
		return models.Answer{}, nil
	}
}
