package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/template"
)

func TestFieldRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		values  map[string]any
		opts    []template.FieldOption
		want    string
	}{
		{
			name:    "simple substitution",
			content: "Hello ((name))",
			values:  map[string]any{"name": "Alice"},
			want:    "Hello Alice",
		},
		{
			name:    "numeric value stringified",
			content: "Code: ((code))",
			values:  map[string]any{"code": 1234},
			want:    "Code: 1234",
		},
		{
			name:    "key binding ignores casing and separators",
			content: "Hello ((First Name))",
			values:  map[string]any{"first_name": "Alice"},
			want:    "Hello Alice",
		},
		{
			name:    "no values renders inert markup",
			content: "Hello ((name))",
			want:    "Hello <span class='placeholder'>((name))</span>",
		},
		{
			name:    "no brackets markup",
			content: "Hello ((name))",
			opts:    []template.FieldOption{template.WithoutBrackets()},
			want:    "Hello <span class='placeholder-no-brackets'>name</span>",
		},
		{
			name:    "preview always highlights even with values",
			content: "Hello ((name))",
			values:  map[string]any{"name": "Alice"},
			opts:    []template.FieldOption{template.WithPreview()},
			want:    "Hello <span class='placeholder'><mark>((name))</mark></span>",
		},
		{
			name:    "strip mode removes markup from content and values",
			content: "<b>bold</b> ((name))",
			values:  map[string]any{"name": "<i>x</i>"},
			want:    "bold x",
		},
		{
			name:    "escape mode encodes markup",
			content: "<b>((name))</b>",
			values:  map[string]any{"name": "<i>"},
			opts:    []template.FieldOption{template.WithMode(template.ModeEscape)},
			want:    "&lt;b&gt;&lt;i&gt;&lt;/b&gt;",
		},
		{
			name:    "passthrough mode leaves markup alone",
			content: "<b>((name))</b>",
			values:  map[string]any{"name": "<i>"},
			opts:    []template.FieldOption{template.WithMode(template.ModePassthrough)},
			want:    "<b><i></b>",
		},
		{
			name:    "dvla markup mode strips letter tags",
			content: "<h1>HEADING<normal>body ((name))",
			values:  map[string]any{"name": "x"},
			opts:    []template.FieldOption{template.WithMode(template.ModeStripDVLAMarkup)},
			want:    "HEADINGbody x",
		},
		{
			name:    "conditional renders body when truthy",
			content: "before ((show??extra text)) after",
			values:  map[string]any{"show": "yes"},
			want:    "before extra text after",
		},
		{
			name:    "conditional renders empty when falsy",
			content: "before ((show??extra text)) after",
			values:  map[string]any{"show": false},
			want:    "before  after",
		},
		{
			name:    "conditional substitutes value markers",
			content: "((count??You have {} items))",
			values:  map[string]any{"count": 3},
			want:    "You have 3 items",
		},
		{
			name:    "unbound conditional renders inert markup",
			content: "((x??hi))",
			values:  map[string]any{"other": 1},
			want:    "<span class='placeholder-conditional'>((x??</span>hi))",
		},
		{
			name:    "redacted missing value",
			content: "Your code: ((secret))",
			values:  map[string]any{"other": 1},
			opts:    []template.FieldOption{template.WithRedactMissing()},
			want:    "Your code: <span class='placeholder-redacted'>hidden</span>",
		},
		{
			name:    "list values render as prose by default",
			content: "Fruit: ((list))",
			values:  map[string]any{"list": []string{"apples", "pears", "plums"}},
			want:    "Fruit: apples, pears and plums",
		},
		{
			name:    "list values drop falsy entries",
			content: "((list))",
			values:  map[string]any{"list": []any{"a", "", nil, false, "b"}},
			want:    "a and b",
		},
		{
			name:    "list keeps strings that spell falsy values",
			content: "((list))",
			values:  map[string]any{"list": []string{"0", "false", "False"}},
			want:    "0, false and False",
		},
		{
			name:    "single zero string list renders",
			content: "((x))",
			values:  map[string]any{"x": []string{"0"}},
			want:    "0",
		},
		{
			name:    "markdown list option renders bullets",
			content: "Items: ((list))",
			values:  map[string]any{"list": []string{"a", "b"}},
			opts:    []template.FieldOption{template.WithMode(template.ModePassthrough), template.WithMarkdownLists()},
			want:    "Items: \n\n* a\n* b",
		},
		{
			name:    "markdown list inside block quote keeps quote markers",
			content: "^ Quote ((list))",
			values:  map[string]any{"list": []string{"a", "b"}},
			opts:    []template.FieldOption{template.WithMode(template.ModePassthrough), template.WithMarkdownLists()},
			want:    "^ Quote \n\n^ * a\n^ * b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := template.NewField(tt.content, tt.values, tt.opts...).Render()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldRenderMissingValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		values  map[string]any
	}{
		{
			name:    "unbound placeholder",
			content: "((a)) and ((b))",
			values:  map[string]any{"a": "x"},
		},
		{
			name:    "nil value counts as missing",
			content: "((a))",
			values:  map[string]any{"a": nil, "b": 1},
		},
		{
			name:    "list empty after dropping falsy entries",
			content: "((list))",
			values:  map[string]any{"list": []any{"", nil, false}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := template.NewField(tt.content, tt.values).Render()
			require.ErrorIs(t, err, template.ErrMissingPlaceholderValue)
		})
	}
}

func TestFieldPlaceholders(t *testing.T) {
	t.Parallel()

	t.Run("distinct names in first-seen order", func(t *testing.T) {
		t.Parallel()

		f := template.NewField("((b)) ((a)) ((b))", nil)
		assert.Equal(t, []string{"b", "a"}, f.PlaceholderNames())
	})

	t.Run("conditional and plain share a name", func(t *testing.T) {
		t.Parallel()

		f := template.NewField("((a??hi)) and ((a))", nil)
		assert.Equal(t, []string{"a"}, f.PlaceholderNames())
		assert.Len(t, f.Placeholders(), 2)
	})

	t.Run("no placeholders", func(t *testing.T) {
		t.Parallel()

		f := template.NewField("plain text", nil)
		assert.Empty(t, f.PlaceholderNames())
	})
}

func TestFieldString(t *testing.T) {
	t.Parallel()

	// String cannot surface an error, so a failed substitution falls back to
	// the inert highlighted form.
	f := template.NewField("((a))", map[string]any{"b": 1})
	assert.Equal(t, "<span class='placeholder'>((a))</span>", f.String())
}

func TestFieldSetValues(t *testing.T) {
	t.Parallel()

	f := template.NewField("Hello ((name))", nil)
	assert.False(t, f.HasValues())

	f.SetValues(map[string]any{"name": "Alice"})
	assert.True(t, f.HasValues())

	got, err := f.Render()
	require.NoError(t, err)
	assert.Equal(t, "Hello Alice", got)
}
