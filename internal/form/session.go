// Package form holds the answers of one form run.
package form

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
	"github.com/childrens-bti/ticket-tracker-app/internal/fields"
	"github.com/childrens-bti/ticket-tracker-app/internal/models"
)

// Fixed fields are present on every form regardless of its template.
const (
	SubmitterName = "submitter_name"
	Lab           = "lab"
	TicketTitle   = "ticket_title"
)

// FixedField describes one of the always-required fields.
type FixedField struct {
	ID    string
	Label string
}

// FixedFields lists the fixed fields in validation order.
var FixedFields = []FixedField{
	{ID: SubmitterName, Label: "Submitter Name"},
	{ID: Lab, Label: "Lab"},
	{ID: TicketTitle, Label: "Ticket Title"},
}

// IsFixed reports whether id names a fixed field.
func IsFixed(id string) bool {
	for _, f := range FixedFields {
		if f.ID == id {
			return true
		}
	}
	return false
}

// Session collects the answers of a single form. It is safe for concurrent
// use; every mutation is serialized.
type Session struct {
	mu       sync.Mutex
	id       string
	template *models.Template
	fixed    map[string]string
	answers  map[string]models.Answer
	warnings []string
	notices  []string
}

func NewSession(tpl *models.Template) *Session {
	return &Session{
		id:       uuid.New().String(),
		template: tpl,
		fixed:    make(map[string]string, len(FixedFields)),
		answers:  make(map[string]models.Answer),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Template() *models.Template {
	return s.template
}

// SetFixed sets a fixed field. Last write wins.
func (s *Session) SetFixed(id, value string) error {
	if !IsFixed(id) {
		return domainErrors.ErrUnknownField.WithContext("field", id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixed[id] = value
	return nil
}

// SetAnswer stores the answer of a template block. Last write wins and no
// history is kept. Markdown, unsupported and undeclared blocks are rejected.
func (s *Session) SetAnswer(id string, answer models.Answer) error {
	b, ok := s.template.Block(id)
	if !ok {
		return domainErrors.ErrUnknownField.WithContext("field", id)
	}
	if !b.Stored() {
		return domainErrors.ErrUnknownField.
			WithContext("field", id).
			WithContext("detail", fmt.Sprintf("%s blocks do not take answers", b.Kind))
	}
	if answer.IsZero() {
		return domainErrors.NewAppError(domainErrors.TypeValidation, "empty answer", nil).WithContext("field", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[id] = answer.Clone()
	return nil
}

// Edit stores answer and validates it against its block, recording a warning
// when validation fails. The answer is kept either way.
func (s *Session) Edit(registry *fields.Registry, id string, answer models.Answer) (fields.Result, error) {
	if err := s.SetAnswer(id, answer); err != nil {
		return fields.Result{}, err
	}
	b, _ := s.template.Block(id)
	result := registry.Validate(b, answer)
	if result.Failed() {
		s.Warn(result.Err().Error())
	}
	return result, nil
}

// Clear removes the answer of a block.
func (s *Session) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.answers, id)
}

// Answer returns the current answer of a block, zero when unanswered.
func (s *Session) Answer(id string) models.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers[id].Clone()
}

func (s *Session) Warn(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, msg)
}

// Notice records an informational message, such as a skipped block.
func (s *Session) Notice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, msg)
}

func (s *Session) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

func (s *Session) Notices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.notices...)
}

// Snapshot freezes the current state of the session. Later edits do not
// affect the returned value.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		sessionID: s.id,
		fixed:     make(map[string]string, len(s.fixed)),
		answers:   make(map[string]models.Answer, len(s.answers)),
		warnings:  append([]string(nil), s.warnings...),
		notices:   append([]string(nil), s.notices...),
	}
	for k, v := range s.fixed {
		snap.fixed[k] = v
	}
	for k, v := range s.answers {
		snap.answers[k] = v.Clone()
	}
	return snap
}

// Snapshot is an immutable copy of a session.
type Snapshot struct {
	sessionID string
	fixed     map[string]string
	answers   map[string]models.Answer
	warnings  []string
	notices   []string
}

// NewSnapshot builds a snapshot directly, without a session.
func NewSnapshot(fixed map[string]string, answers map[string]models.Answer) Snapshot {
	snap := Snapshot{
		fixed:   make(map[string]string, len(fixed)),
		answers: make(map[string]models.Answer, len(answers)),
	}
	for k, v := range fixed {
		snap.fixed[k] = v
	}
	for k, v := range answers {
		snap.answers[k] = v.Clone()
	}
	return snap
}

func (s Snapshot) SessionID() string {
	return s.sessionID
}

// Fixed returns the value of a fixed field, empty when unset.
func (s Snapshot) Fixed(id string) string {
	return s.fixed[id]
}

// Answer returns the answer of a block and whether one was given.
func (s Snapshot) Answer(id string) (models.Answer, bool) {
	a, ok := s.answers[id]
	if !ok {
		return models.Answer{}, false
	}
	return a.Clone(), true
}

// AnsweredIDs returns the ids of answered blocks, sorted.
func (s Snapshot) AnsweredIDs() []string {
	ids := make([]string, 0, len(s.answers))
	for id := range s.answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s Snapshot) Warnings() []string {
	return append([]string(nil), s.warnings...)
}

func (s Snapshot) Notices() []string {
	return append([]string(nil), s.notices...)
}

// Title returns the trimmed ticket title.
func (s Snapshot) Title() string {
	return strings.TrimSpace(s.fixed[TicketTitle])
}
