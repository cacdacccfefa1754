package fields

import "github.com/childrens-bti/ticket-tracker-app/internal/models"

// Widget describes the control a UI should draw for a block. It carries no
// behavior; a prompt driver or any other surface turns it into a real control.
type Widget struct {
	Kind        models.BlockKind
	ID          string
	Label       string
	Help        string
	Placeholder string
	Required    bool
	// Options lists the choices of dropdown and checkboxes widgets.
	Options []string
	// Default is the preselected option of a dropdown, -1 when there is none.
	Default int
	// Selected holds the preselected option indices of a checkboxes widget.
	Selected []int
	// Value is the current text of text and textarea widgets.
	Value string
	// Markdown is the display text of markdown widgets.
	Markdown string
}

// Multiline reports whether the widget expects multi-line text.
func (w Widget) Multiline() bool {
	return w.Kind == models.KindTextarea
}

// Interactive reports whether the widget collects an answer.
func (w Widget) Interactive() bool {
	switch w.Kind {
	case models.KindText, models.KindTextarea, models.KindDropdown, models.KindCheckboxes:
		return true
	default:
		return false
	}
}
