package models

// BlockKind is the closed set of field block kinds a template may declare.
type BlockKind int

const (
	KindUnsupported BlockKind = iota
	KindText
	KindTextarea
	KindDropdown
	KindCheckboxes
	KindMarkdown
)

// KindOf maps a template block type string to its kind. "input" is the
// GitHub Issue Forms name for a single-line text field.
func KindOf(blockType string) BlockKind {
	switch blockType {
	case "text", "input":
		return KindText
	case "textarea":
		return KindTextarea
	case "dropdown":
		return KindDropdown
	case "checkboxes":
		return KindCheckboxes
	case "markdown":
		return KindMarkdown
	default:
		return KindUnsupported
	}
}

func (k BlockKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTextarea:
		return "textarea"
	case KindDropdown:
		return "dropdown"
	case KindCheckboxes:
		return "checkboxes"
	case KindMarkdown:
		return "markdown"
	default:
		return "unsupported"
	}
}

// Option is one declared choice of a dropdown or checkboxes block.
type Option struct {
	Label string
}

// FieldBlock is one field definition within a template.
type FieldBlock struct {
	ID          string
	Type        string
	Kind        BlockKind
	Label       string
	Description string
	Placeholder string
	// Value holds the display text of markdown blocks.
	Value    string
	Required bool
	Options  []Option
	// Default is the declared default option index of a dropdown, if any.
	Default *int
}

// OptionLabels returns the declared option labels in template order.
func (b FieldBlock) OptionLabels() []string {
	labels := make([]string, len(b.Options))
	for i, o := range b.Options {
		labels[i] = o.Label
	}
	return labels
}

// Stored reports whether answers to this block are kept in a form session.
func (b FieldBlock) Stored() bool {
	return b.ID != "" && b.Kind != KindMarkdown && b.Kind != KindUnsupported
}

// Template is a parsed form definition. It is not modified after parsing.
type Template struct {
	// ID is the identifier the template was loaded by (e.g. "harmonization").
	ID          string
	Name        string
	Description string
	TitlePrefix string
	// IssueType becomes the type label of every issue created from the template.
	IssueType   string
	Labels      []string
	ProjectRefs []string
	Body        []FieldBlock
}

// Block returns the block with the given id.
func (t *Template) Block(id string) (FieldBlock, bool) {
	if id == "" {
		return FieldBlock{}, false
	}
	for _, b := range t.Body {
		if b.ID == id {
			return b, true
		}
	}
	return FieldBlock{}, false
}

type TemplateMetadata struct {
	ID          string
	Name        string
	Description string
}
