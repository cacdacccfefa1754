package templates

import (
	"fmt"
	"strings"

	"github.com/childrens-bti/ticket-tracker-app/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultTitlePrefix is used when a template declares no title.
const DefaultTitlePrefix = "[Ticket]"

type ParseErrorKind int

const (
	SyntaxError ParseErrorKind = iota + 1
	MissingType
	MissingID
	DuplicateID
)

func (k ParseErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "syntax error"
	case MissingType:
		return "missing type"
	case MissingID:
		return "missing id"
	case DuplicateID:
		return "duplicate id"
	default:
		return "unknown"
	}
}

// ParseError reports why a template document was rejected. BlockIndex is
// -1 for document level errors.
type ParseError struct {
	Kind       ParseErrorKind
	BlockIndex int
	FieldID    string
	Detail     string
	Err        error
}

func (e *ParseError) Error() string {
	switch {
	case e.BlockIndex < 0:
		return fmt.Sprintf("template %s: %s", e.Kind, e.Detail)
	case e.FieldID != "":
		return fmt.Sprintf("template block %d (%s): %s", e.BlockIndex, e.FieldID, e.Kind)
	default:
		return fmt.Sprintf("template block %d: %s", e.BlockIndex, e.Kind)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse turns a template document into a Template. Block order is kept as
// declared. Any error rejects the whole document.
func Parse(raw []byte) (*models.Template, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Kind: SyntaxError, BlockIndex: -1, Detail: err.Error(), Err: err}
	}

	tpl := &models.Template{
		Name:        strings.TrimSpace(doc.Name),
		Description: strings.TrimSpace(doc.Description),
		TitlePrefix: strings.TrimSpace(doc.Title),
		IssueType:   strings.TrimSpace(doc.IssueType),
		Labels:      append([]string(nil), doc.Labels...),
		ProjectRefs: append([]string(nil), doc.Projects...),
		Body:        make([]models.FieldBlock, 0, len(doc.Body)),
	}
	if tpl.TitlePrefix == "" {
		tpl.TitlePrefix = DefaultTitlePrefix
	}

	seen := make(map[string]int, len(doc.Body))
	for i, b := range doc.Body {
		blockType := strings.TrimSpace(b.Type)
		if blockType == "" {
			return nil, &ParseError{Kind: MissingType, BlockIndex: i, FieldID: b.ID}
		}

		block := models.FieldBlock{
			ID:          strings.TrimSpace(b.ID),
			Type:        blockType,
			Kind:        models.KindOf(blockType),
			Label:       b.Attributes.Label,
			Description: b.Attributes.Description,
			Placeholder: b.Attributes.Placeholder,
			Value:       b.Attributes.Value,
			Required:    b.Required || b.Validations.Required,
			Default:     b.Attributes.Default,
		}
		for _, o := range b.Attributes.Options {
			block.Options = append(block.Options, models.Option{Label: o.Label})
		}

		if block.Kind != models.KindMarkdown && block.Kind != models.KindUnsupported && block.ID == "" {
			return nil, &ParseError{Kind: MissingID, BlockIndex: i}
		}
		if block.ID != "" && block.Kind != models.KindMarkdown {
			if first, dup := seen[block.ID]; dup {
				return nil, &ParseError{
					Kind:       DuplicateID,
					BlockIndex: i,
					FieldID:    block.ID,
					Detail:     fmt.Sprintf("first declared by block %d", first),
				}
			}
			seen[block.ID] = i
		}
		if block.Label == "" {
			block.Label = block.ID
		}

		tpl.Body = append(tpl.Body, block)
	}

	return tpl, nil
}

// IssueTypeFor derives the type label of a template from its identifier:
// "harmonization" becomes "harmonization-request" and "access_request"
// becomes "access-request".
func IssueTypeFor(id string) string {
	t := strings.ToLower(strings.TrimSpace(id))
	t = strings.NewReplacer("_", "-", " ", "-").Replace(t)
	t = strings.Trim(t, "-")
	if t == "" {
		return ""
	}
	if !strings.HasSuffix(t, "-request") {
		t += "-request"
	}
	return t
}
