package services

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
	"github.com/childrens-bti/ticket-tracker-app/internal/form"
	"github.com/childrens-bti/ticket-tracker-app/internal/logger"
	"github.com/childrens-bti/ticket-tracker-app/internal/models"
)

// ApplyAnswers fills a session from a YAML mapping of field ids to values.
// Fixed fields take strings; checkboxes take a list or a single string.
// Invalid values are stored and show up as session warnings.
func (s *TicketService) ApplyAnswers(ctx context.Context, session *form.Session, raw []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return domainErrors.NewAppError(domainErrors.TypeValidation, "failed to parse answers file", err)
	}
	if len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return domainErrors.NewAppError(domainErrors.TypeValidation, "answers file must be a mapping of field ids to values", nil)
	}

	tpl := session.Template()
	for i := 0; i+1 < len(root.Content); i += 2 {
		id := root.Content[i].Value
		node := root.Content[i+1]
		if form.IsFixed(id) {
			var v string
			if err := node.Decode(&v); err != nil {
				return answerError(id, err)
			}
			if err := session.SetFixed(id, v); err != nil {
				return err
			}
			continue
		}

		b, ok := tpl.Block(id)
		if !ok || !b.Stored() {
			logger.Warn(ctx, "ignoring answer for unknown field", "field", id)
			session.Warn(fmt.Sprintf("%s: not a field of template %s", id, tpl.ID))
			continue
		}

		answer, err := decodeAnswer(b, node)
		if err != nil {
			return answerError(id, err)
		}
		if _, err := session.Edit(s.registry, id, answer); err != nil {
			return err
		}
	}
	return nil
}

func decodeAnswer(b models.FieldBlock, node *yaml.Node) (models.Answer, error) {
	if b.Kind != models.KindCheckboxes {
		var v string
		if err := node.Decode(&v); err != nil {
			return models.Answer{}, err
		}
		return models.TextAnswer(v), nil
	}

	var selected []string
	if node.Kind == yaml.ScalarNode {
		if v := strings.TrimSpace(node.Value); v != "" {
			selected = []string{v}
		}
	} else if err := node.Decode(&selected); err != nil {
		return models.Answer{}, err
	}
	return models.MultiSelectAnswer(b.OptionLabels(), selected...), nil
}

func answerError(id string, err error) error {
	return domainErrors.NewAppError(domainErrors.TypeValidation, "invalid value in answers file", err).
		WithContext("field", id)
}
