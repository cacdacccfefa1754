package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/childrens-bti/ticket-tracker-app/internal/i18n"
	"github.com/childrens-bti/ticket-tracker-app/internal/models"
)

const previewWordWrap = 100

// Previewer prints a composed issue before it is submitted.
type Previewer struct {
	renderer *glamour.TermRenderer
	t        *i18n.Translations
}

// NewPreviewer renders bodies with the terminal's style. Pass "notty" as
// style to get plain output.
func NewPreviewer(style string, t *i18n.Translations) (*Previewer, error) {
	styleOption := glamour.WithAutoStyle()
	if style != "" {
		styleOption = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(
		styleOption,
		glamour.WithWordWrap(previewWordWrap),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating markdown renderer: %w", err)
	}
	return &Previewer{renderer: r, t: t}, nil
}

func (p *Previewer) message(id, fallback string) string {
	if p.t == nil {
		return fallback
	}
	return p.t.GetMessage(id, 0, nil)
}

// Print writes the title, labels and projects of payload followed by its
// rendered body. Bodies that fail to render are printed raw.
func (p *Previewer) Print(w io.Writer, payload *models.IssuePayload) {
	PrintSectionBanner(w, p.message("preview_header", "Ticket preview"))
	PrintKeyValue(w, p.message("preview_title", "Title"), payload.Title)
	if len(payload.Labels) > 0 {
		PrintKeyValue(w, p.message("preview_labels", "Labels"), strings.Join(payload.Labels, ", "))
	}
	if len(payload.ProjectIDs) > 0 {
		ids := make([]string, len(payload.ProjectIDs))
		for i, id := range payload.ProjectIDs {
			ids[i] = strconv.Itoa(id)
		}
		PrintKeyValue(w, p.message("preview_projects", "Projects"), strings.Join(ids, ", "))
	}

	rendered, err := p.renderer.Render(payload.Body)
	if err != nil {
		rendered = "\n" + payload.Body + "\n"
	}
	_, _ = fmt.Fprint(w, rendered)
}
