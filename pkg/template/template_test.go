package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/template"
)

func rawTemplate(content string) map[string]any {
	return map[string]any{
		"id":            "5e6b3a1f",
		"name":          "reminder",
		"content":       content,
		"template_type": "sms",
	}
}

func TestNewTemplate(t *testing.T) {
	t.Parallel()

	t.Run("valid input", func(t *testing.T) {
		t.Parallel()

		tmpl, err := template.NewTemplate(rawTemplate("Hello ((name))"), nil)
		require.NoError(t, err)
		assert.Equal(t, "5e6b3a1f", tmpl.ID)
		assert.Equal(t, "reminder", tmpl.Name)
		assert.Equal(t, "Hello ((name))", tmpl.Content)
		assert.Equal(t, template.TypeSMS, tmpl.Type)
	})

	t.Run("raw not a map", func(t *testing.T) {
		t.Parallel()

		_, err := template.NewTemplate("just a string", nil)
		require.ErrorIs(t, err, template.ErrTemplateNotMap)
	})

	t.Run("missing content", func(t *testing.T) {
		t.Parallel()

		_, err := template.NewTemplate(map[string]any{"id": "x"}, nil)
		require.ErrorIs(t, err, template.ErrMissingContent)
	})

	t.Run("values not a map", func(t *testing.T) {
		t.Parallel()

		_, err := template.NewTemplate(rawTemplate("hi"), []string{"nope"})
		require.ErrorIs(t, err, template.ErrValuesNotMap)
	})
}

func TestTemplateSetValues(t *testing.T) {
	t.Parallel()

	t.Run("matching keys stored under placeholder name", func(t *testing.T) {
		t.Parallel()

		tmpl, err := template.NewTemplate(rawTemplate("Hello ((First Name))"), map[string]any{
			"FIRST_NAME": "Alice",
			"extra":      1,
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"First Name": "Alice", "extra": 1}, tmpl.Values())
	})

	t.Run("nil values allowed", func(t *testing.T) {
		t.Parallel()

		tmpl, err := template.NewTemplate(rawTemplate("hi"), nil)
		require.NoError(t, err)
		assert.Empty(t, tmpl.Values())
	})
}

func TestTemplateMissingAndAdditionalData(t *testing.T) {
	t.Parallel()

	tmpl, err := template.NewTemplate(rawTemplate("((a)) ((b)) ((c??opt))"), map[string]any{
		"a":     "x",
		"extra": true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "c"}, tmpl.MissingData())
	assert.Equal(t, []string{"extra"}, tmpl.AdditionalData())
}

func TestTemplateRender(t *testing.T) {
	t.Parallel()

	t.Run("escapes markup", func(t *testing.T) {
		t.Parallel()

		tmpl, err := template.NewTemplate(rawTemplate("<b>((name))</b>"), map[string]any{"name": "<i>"})
		require.NoError(t, err)

		got, err := tmpl.Render()
		require.NoError(t, err)
		assert.Equal(t, "&lt;b&gt;&lt;i&gt;&lt;/b&gt;", got)
	})

	t.Run("missing value fails", func(t *testing.T) {
		t.Parallel()

		tmpl, err := template.NewTemplate(rawTemplate("((name))"), map[string]any{"other": 1})
		require.NoError(t, err)

		_, err = tmpl.Render()
		require.ErrorIs(t, err, template.ErrMissingPlaceholderValue)
	})

	t.Run("redaction option tolerates missing values", func(t *testing.T) {
		t.Parallel()

		tmpl, err := template.NewTemplate(rawTemplate("code ((secret))"), map[string]any{"other": 1},
			template.WithRedactMissingPersonalisation())
		require.NoError(t, err)

		got, err := tmpl.Render()
		require.NoError(t, err)
		assert.Equal(t, "code <span class='placeholder-redacted'>hidden</span>", got)
	})
}

func TestTemplateGetRaw(t *testing.T) {
	t.Parallel()

	raw := rawTemplate("hi")
	raw["archived"] = true

	tmpl, err := template.NewTemplate(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, true, tmpl.GetRaw("archived"))
	assert.Nil(t, tmpl.GetRaw("unknown"))
}

func TestTemplateIsMessageTooLong(t *testing.T) {
	t.Parallel()

	tmpl, err := template.NewTemplate(rawTemplate("short"), nil)
	require.NoError(t, err)
	assert.False(t, tmpl.IsMessageTooLong())
}
