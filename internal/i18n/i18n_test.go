package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranslations(t *testing.T) {
	t.Run("empty language", func(t *testing.T) {
		tr, err := NewTranslations("", "")
		assert.Nil(t, tr)
		assert.EqualError(t, err, "language cannot be empty")
	})

	t.Run("built-in messages without a locales dir", func(t *testing.T) {
		tr, err := NewTranslations("en", "")
		require.NoError(t, err)
		assert.Equal(t, "Ticket not submitted", tr.GetMessage("submission_cancelled", 0, nil))
	})

	t.Run("missing locales dir is ignored", func(t *testing.T) {
		tr, err := NewTranslations("en", filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.NotNil(t, tr)
	})

	t.Run("override file replaces a message", func(t *testing.T) {
		dir := t.TempDir()
		content := "[submission_cancelled]\nother = \"Nothing sent\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "active.en.toml"), []byte(content), 0o644))

		tr, err := NewTranslations("en", dir)
		require.NoError(t, err)
		assert.Equal(t, "Nothing sent", tr.GetMessage("submission_cancelled", 0, nil))
		assert.Equal(t, "Dry run: nothing was submitted", tr.GetMessage("dry_run_notice", 0, nil))
	})

	t.Run("invalid override file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "active.en.toml"), []byte("invalid = toml = content"), 0o644))

		tr, err := NewTranslations("en", dir)
		assert.Nil(t, tr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error loading locale file")
	})
}

func TestGetMessage(t *testing.T) {
	tr, err := NewTranslations("en", "")
	require.NoError(t, err)

	t.Run("template data", func(t *testing.T) {
		msg := tr.GetMessage("ticket_created", 0, map[string]interface{}{
			"Number": 42,
			"URL":    "https://github.com/org/repo/issues/42",
		})
		assert.Equal(t, "Issue #42 created: https://github.com/org/repo/issues/42", msg)
	})

	t.Run("plural forms", func(t *testing.T) {
		one := tr.GetMessage("validation_failed_header", 1, map[string]interface{}{"Count": 1})
		many := tr.GetMessage("validation_failed_header", 3, map[string]interface{}{"Count": 3})
		assert.Equal(t, "1 field needs attention before the ticket can be submitted:", one)
		assert.Equal(t, "3 fields need attention before the ticket can be submitted:", many)
	})

	t.Run("missing message", func(t *testing.T) {
		assert.Equal(t, "Translation missing: nope", tr.GetMessage("nope", 0, nil))
	})
}

func TestSetLanguage(t *testing.T) {
	tr, err := NewTranslations("en", "")
	require.NoError(t, err)

	require.NoError(t, tr.SetLanguage("es"))
	assert.Equal(t, "El ticket no se envió", tr.GetMessage("submission_cancelled", 0, nil))

	err = tr.SetLanguage("fr")
	assert.EqualError(t, err, "language 'fr' not supported")
	assert.Equal(t, "El ticket no se envió", tr.GetMessage("submission_cancelled", 0, nil))
}

func TestLocalesDefineSameMessages(t *testing.T) {
	tr, err := NewTranslations("en", "")
	require.NoError(t, err)

	for _, id := range []string{"app_usage", "new_command_usage", "template_list_usage", "config_init_usage", "ui_error.try_suggestion"} {
		require.NoError(t, tr.SetLanguage("en"))
		en := tr.GetMessage(id, 0, nil)
		require.NoError(t, tr.SetLanguage("es"))
		es := tr.GetMessage(id, 0, nil)
		assert.NotContains(t, en, "Translation missing", id)
		assert.NotContains(t, es, "Translation missing", id)
		assert.NotEqual(t, en, es, id)
	}
}
