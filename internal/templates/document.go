package templates

import "gopkg.in/yaml.v3"

// document is the on-disk template format. It follows GitHub Issue Forms,
// extended with project references and an optional issue type.
type document struct {
	Name        string     `yaml:"name,omitempty"`
	Description string     `yaml:"description,omitempty"`
	Title       string     `yaml:"title,omitempty"`
	IssueType   string     `yaml:"issue_type,omitempty"`
	Labels      []string   `yaml:"labels,omitempty"`
	Projects    []string   `yaml:"projects,omitempty"`
	Body        []blockDoc `yaml:"body,omitempty"`
}

type blockDoc struct {
	Type        string         `yaml:"type"`
	ID          string         `yaml:"id,omitempty"`
	Required    bool           `yaml:"required,omitempty"`
	Attributes  attributesDoc  `yaml:"attributes,omitempty"`
	Validations validationsDoc `yaml:"validations,omitempty"`
}

type attributesDoc struct {
	Label       string      `yaml:"label,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Placeholder string      `yaml:"placeholder,omitempty"`
	Value       string      `yaml:"value,omitempty"`
	Options     []optionDoc `yaml:"options,omitempty"`
	Default     *int        `yaml:"default,omitempty"`
}

type validationsDoc struct {
	Required bool `yaml:"required,omitempty"`
}

// optionDoc accepts both `- Label` and `- label: Label`.
type optionDoc struct {
	Label string `yaml:"label"`
}

func (o *optionDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		o.Label = node.Value
		return nil
	}
	type plain optionDoc
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*o = optionDoc(p)
	return nil
}

func options(labels ...string) []optionDoc {
	out := make([]optionDoc, len(labels))
	for i, l := range labels {
		out[i] = optionDoc{Label: l}
	}
	return out
}
