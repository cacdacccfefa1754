package form

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
	"github.com/childrens-bti/ticket-tracker-app/internal/fields"
	"github.com/childrens-bti/ticket-tracker-app/internal/models"
)

func testTemplate() *models.Template {
	return &models.Template{
		ID:          "harmonization",
		TitlePrefix: "[Harmonization]",
		Body: []models.FieldBlock{
			{Kind: models.KindMarkdown, Type: "markdown", Value: "Welcome"},
			{ID: "cohort", Kind: models.KindText, Type: "input", Label: "Cohort", Required: true},
			{ID: "workflows", Kind: models.KindCheckboxes, Type: "checkboxes", Label: "Workflows", Required: true,
				Options: []models.Option{{Label: "A"}, {Label: "B"}}},
			{ID: "sig", Kind: models.KindUnsupported, Type: "unknown", Label: "Signature"},
		},
	}
}

func TestSession_SetAnswer(t *testing.T) {
	s := NewSession(testTemplate())

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, s.SetAnswer("cohort", models.TextAnswer("first")))
		require.NoError(t, s.SetAnswer("cohort", models.TextAnswer("second")))
		require.NoError(t, s.SetAnswer("cohort", models.TextAnswer("second")))

		assert.Equal(t, "second", s.Answer("cohort").Text())
	})

	t.Run("unknown field", func(t *testing.T) {
		err := s.SetAnswer("nope", models.TextAnswer("x"))
		assert.True(t, errors.Is(err, domainErrors.ErrUnknownField))
	})

	t.Run("unsupported blocks take no answers", func(t *testing.T) {
		err := s.SetAnswer("sig", models.TextAnswer("x"))
		assert.True(t, errors.Is(err, domainErrors.ErrUnknownField))
		assert.True(t, s.Answer("sig").IsZero())
	})

	t.Run("markdown blocks take no answers", func(t *testing.T) {
		err := s.SetAnswer("", models.TextAnswer("x"))
		assert.Error(t, err)
	})

	t.Run("zero answer is rejected", func(t *testing.T) {
		assert.Error(t, s.SetAnswer("cohort", models.Answer{}))
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, s.SetAnswer("workflows", models.MultiSelectAnswer([]string{"A", "B"}, "A")))
		s.Clear("workflows")
		assert.True(t, s.Answer("workflows").IsZero())
	})
}

func TestSession_SetFixed(t *testing.T) {
	s := NewSession(testTemplate())

	require.NoError(t, s.SetFixed(SubmitterName, "Ada"))
	require.NoError(t, s.SetFixed(Lab, "D3b"))
	require.NoError(t, s.SetFixed(TicketTitle, "  Harmonize PBTA  "))
	require.NoError(t, s.SetFixed(Lab, "CCDL"))

	err := s.SetFixed("email", "a@b.c")
	assert.True(t, errors.Is(err, domainErrors.ErrUnknownField))

	snap := s.Snapshot()
	assert.Equal(t, "Ada", snap.Fixed(SubmitterName))
	assert.Equal(t, "CCDL", snap.Fixed(Lab))
	assert.Equal(t, "Harmonize PBTA", snap.Title())
	assert.Equal(t, "", snap.Fixed("email"))
}

func TestSession_Edit(t *testing.T) {
	s := NewSession(testTemplate())
	registry := fields.NewRegistry()

	result, err := s.Edit(registry, "cohort", models.TextAnswer("   "))
	require.NoError(t, err)
	assert.Equal(t, fields.MissingRequired, result.Outcome)

	result, err = s.Edit(registry, "workflows", models.MultiSelectAnswer([]string{"A", "B"}, "B"))
	require.NoError(t, err)
	assert.Equal(t, fields.Valid, result.Outcome)

	require.Len(t, s.Warnings(), 1)
	assert.Contains(t, s.Warnings()[0], "Cohort")
	assert.Equal(t, "   ", s.Answer("cohort").Text())

	_, err = s.Edit(registry, "nope", models.TextAnswer("x"))
	assert.Error(t, err)
}

func TestSession_SnapshotIsImmutable(t *testing.T) {
	s := NewSession(testTemplate())
	require.NoError(t, s.SetFixed(SubmitterName, "Ada"))
	require.NoError(t, s.SetAnswer("cohort", models.TextAnswer("PBTA")))
	require.NoError(t, s.SetAnswer("workflows", models.MultiSelectAnswer([]string{"A", "B"}, "A")))
	s.Notice("Signature: unsupported type")

	snap := s.Snapshot()

	require.NoError(t, s.SetFixed(SubmitterName, "Grace"))
	require.NoError(t, s.SetAnswer("cohort", models.TextAnswer("CBTN")))
	require.NoError(t, s.SetAnswer("workflows", models.MultiSelectAnswer([]string{"A", "B"}, "B")))
	s.Notice("another")
	s.Warn("late warning")

	assert.Equal(t, s.ID(), snap.SessionID())
	assert.Equal(t, "Ada", snap.Fixed(SubmitterName))
	cohort, ok := snap.Answer("cohort")
	require.True(t, ok)
	assert.Equal(t, "PBTA", cohort.Text())
	workflows, ok := snap.Answer("workflows")
	require.True(t, ok)
	assert.Equal(t, []string{"A"}, workflows.Selected())
	assert.Equal(t, []string{"Signature: unsupported type"}, snap.Notices())
	assert.Empty(t, snap.Warnings())
	assert.Equal(t, []string{"cohort", "workflows"}, snap.AnsweredIDs())

	_, ok = snap.Answer("sig")
	assert.False(t, ok)
}

func TestSession_ConcurrentWriters(t *testing.T) {
	s := NewSession(testTemplate())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.SetAnswer("cohort", models.TextAnswer("PBTA"))
			_ = s.SetFixed(Lab, "D3b")
			s.Notice("n")
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	assert.Len(t, s.Notices(), 50)
	assert.Equal(t, "PBTA", s.Answer("cohort").Text())
}

func TestSessionsAreIndependent(t *testing.T) {
	tpl := testTemplate()
	a := NewSession(tpl)
	b := NewSession(tpl)

	require.NoError(t, a.SetAnswer("cohort", models.TextAnswer("PBTA")))

	assert.NotEqual(t, a.ID(), b.ID())
	assert.True(t, b.Answer("cohort").IsZero())
}

func TestNewSnapshot(t *testing.T) {
	fixed := map[string]string{TicketTitle: "x"}
	snap := NewSnapshot(fixed, map[string]models.Answer{"cohort": models.TextAnswer("PBTA")})
	fixed[TicketTitle] = "changed"

	assert.Equal(t, "x", snap.Title())
	assert.Empty(t, snap.SessionID())
}
