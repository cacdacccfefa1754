package templates

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/childrens-bti/ticket-tracker-app/internal/models"
)

func TestParse(t *testing.T) {
	t.Run("GitHub issue form with mixed block types", func(t *testing.T) {
		content := `name: Harmonization Request
description: Harmonize a cohort
title: '[Harmonization]'
labels:
  - harmonization
projects:
  - childrens-bti/7
body:
  - type: markdown
    attributes:
      value: "Thanks for the request!"
  - type: input
    id: cohort_name
    attributes:
      label: Cohort Name
      placeholder: PBTA
    validations:
      required: true
  - type: dropdown
    id: priority
    attributes:
      label: Priority
      options: [Low, High]
      default: 1
  - type: checkboxes
    id: workflows
    attributes:
      label: Workflows
      options:
        - label: RNA-Seq
        - label: WGS
    validations:
      required: true`

		tpl, err := Parse([]byte(content))

		require.NoError(t, err)
		assert.Equal(t, "Harmonization Request", tpl.Name)
		assert.Equal(t, "[Harmonization]", tpl.TitlePrefix)
		assert.Equal(t, []string{"harmonization"}, tpl.Labels)
		assert.Equal(t, []string{"childrens-bti/7"}, tpl.ProjectRefs)
		require.Len(t, tpl.Body, 4)

		assert.Equal(t, models.KindMarkdown, tpl.Body[0].Kind)
		assert.Equal(t, "Thanks for the request!", tpl.Body[0].Value)

		assert.Equal(t, "cohort_name", tpl.Body[1].ID)
		assert.Equal(t, models.KindText, tpl.Body[1].Kind)
		assert.Equal(t, "input", tpl.Body[1].Type)
		assert.Equal(t, "PBTA", tpl.Body[1].Placeholder)
		assert.True(t, tpl.Body[1].Required)

		assert.Equal(t, models.KindDropdown, tpl.Body[2].Kind)
		assert.Equal(t, []string{"Low", "High"}, tpl.Body[2].OptionLabels())
		require.NotNil(t, tpl.Body[2].Default)
		assert.Equal(t, 1, *tpl.Body[2].Default)
		assert.False(t, tpl.Body[2].Required)

		assert.Equal(t, models.KindCheckboxes, tpl.Body[3].Kind)
		assert.Equal(t, []string{"RNA-Seq", "WGS"}, tpl.Body[3].OptionLabels())
	})

	t.Run("block order is kept as declared", func(t *testing.T) {
		content := `body:
  - {type: textarea, id: zeta}
  - {type: input, id: alpha}
  - {type: textarea, id: mid}`

		tpl, err := Parse([]byte(content))

		require.NoError(t, err)
		ids := make([]string, 0, len(tpl.Body))
		for _, b := range tpl.Body {
			ids = append(ids, b.ID)
		}
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, ids)
	})

	t.Run("missing title falls back to the default prefix", func(t *testing.T) {
		tpl, err := Parse([]byte("name: No title\n"))

		require.NoError(t, err)
		assert.Equal(t, DefaultTitlePrefix, tpl.TitlePrefix)
		assert.Empty(t, tpl.Body)
	})

	t.Run("empty document is an empty template", func(t *testing.T) {
		tpl, err := Parse(nil)

		require.NoError(t, err)
		assert.Equal(t, "[Ticket]", tpl.TitlePrefix)
		assert.Empty(t, tpl.Body)
	})

	t.Run("block-level required flag", func(t *testing.T) {
		tpl, err := Parse([]byte("body:\n  - {type: text, id: a, required: true, attributes: {label: A}}\n"))

		require.NoError(t, err)
		assert.True(t, tpl.Body[0].Required)
		assert.Equal(t, models.KindText, tpl.Body[0].Kind)
	})

	t.Run("label defaults to the id", func(t *testing.T) {
		tpl, err := Parse([]byte("body:\n  - {type: textarea, id: notes}\n"))

		require.NoError(t, err)
		assert.Equal(t, "notes", tpl.Body[0].Label)
	})

	t.Run("unknown block types are kept as unsupported", func(t *testing.T) {
		tpl, err := Parse([]byte("body:\n  - {type: unknown, id: x}\n  - {type: signature}\n"))

		require.NoError(t, err)
		require.Len(t, tpl.Body, 2)
		assert.Equal(t, models.KindUnsupported, tpl.Body[0].Kind)
		assert.Equal(t, models.KindUnsupported, tpl.Body[1].Kind)
	})
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		kind       ParseErrorKind
		blockIndex int
	}{
		{
			name:       "syntax error",
			content:    "title: [unclosed\nbody: {",
			kind:       SyntaxError,
			blockIndex: -1,
		},
		{
			name:       "block that is not a mapping",
			content:    "body:\n  - just a string\n",
			kind:       SyntaxError,
			blockIndex: -1,
		},
		{
			name:       "missing type",
			content:    "body:\n  - {type: input, id: a}\n  - {id: b, attributes: {label: B}}\n",
			kind:       MissingType,
			blockIndex: 1,
		},
		{
			name:       "field without id",
			content:    "body:\n  - {type: textarea, attributes: {label: Notes}}\n",
			kind:       MissingID,
			blockIndex: 0,
		},
		{
			name:       "duplicate id",
			content:    "body:\n  - {type: input, id: a}\n  - {type: textarea, id: a}\n",
			kind:       DuplicateID,
			blockIndex: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := Parse([]byte(tt.content))

			assert.Nil(t, tpl)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected *ParseError, got %T", err)
			assert.Equal(t, tt.kind, parseErr.Kind)
			assert.Equal(t, tt.blockIndex, parseErr.BlockIndex)
		})
	}
}

func TestParse_MarkdownBlocksNeedNoID(t *testing.T) {
	content := `body:
  - type: markdown
    attributes: {value: one}
  - type: markdown
    attributes: {value: two}`

	tpl, err := Parse([]byte(content))

	require.NoError(t, err)
	assert.Len(t, tpl.Body, 2)
	assert.False(t, tpl.Body[0].Stored())
}

func TestIssueTypeFor(t *testing.T) {
	tests := map[string]string{
		"harmonization":  "harmonization-request",
		"access_request": "access-request",
		"Transfer":       "transfer-request",
		"analysis":       "analysis-request",
		"":               "",
	}
	for id, want := range tests {
		assert.Equal(t, want, IssueTypeFor(id), id)
	}
}

func TestBuiltinTemplatesParse(t *testing.T) {
	for id, doc := range builtinTemplates() {
		t.Run(id, func(t *testing.T) {
			content, err := renderDocument(doc)
			require.NoError(t, err)

			tpl, err := Parse([]byte(content))
			require.NoError(t, err)
			assert.NotEmpty(t, tpl.Name)
			assert.NotEmpty(t, tpl.Body)
		})
	}
}
