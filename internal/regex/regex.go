package regex

import "regexp"

var (
	// Template identifiers double as file names, so no path separators.
	TemplateID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

	// ProjectNumber matches the trailing numeric identifier of a project
	// reference such as "childrens-bti/7".
	ProjectNumber = regexp.MustCompile(`^(?:.*/)?([0-9]+)$`)

	// Issue body patterns
	MarkdownCheckbox = regexp.MustCompile(`^\s*[\-*+]\s+\[([ xX])]\s+(.+)`)
	SectionHeading   = regexp.MustCompile(`^###\s+(.+)$`)
)
