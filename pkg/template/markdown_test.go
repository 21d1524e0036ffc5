package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "caret becomes block quote", input: "^ quoted line", want: "> quoted line"},
		{name: "caret with no space", input: "^quoted", want: ">quoted"},
		{name: "star bullet gets a space", input: "*item", want: "- item"},
		{name: "dash bullet normalized", input: "-item", want: "- item"},
		{name: "literal bullet becomes marker", input: "• item", want: "- item"},
		{name: "ordered marker gets a space", input: "1.item", want: "1. item"},
		{name: "bold left alone", input: "**bold**", want: "**bold**"},
		{name: "thematic break left alone", input: "---", want: "---"},
		{name: "indent preserved", input: "  * item", want: "  - item"},
		{name: "plain text untouched", input: "nothing here", want: "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, preprocessMarkdown(tt.input))
		})
	}
}

func TestRenderEmailMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("paragraph", func(t *testing.T) {
		t.Parallel()
		got := renderEmailMarkdown("Hello world")
		assert.Equal(t, `<p style="`+paragraphStyle+`">Hello world</p>`+"\n", got)
	})

	t.Run("heading", func(t *testing.T) {
		t.Parallel()
		got := renderEmailMarkdown("# Title")
		assert.Equal(t, `<h1 style="`+h1Style+`">Title</h1>`+"\n", got)
	})

	t.Run("link carries style and target", func(t *testing.T) {
		t.Parallel()
		got := renderEmailMarkdown("[example](https://example.com)")
		assert.Contains(t, got, `<a style="`+linkStyle+`" target="_blank" href="https://example.com">example</a>`)
	})

	t.Run("block quote from caret convention", func(t *testing.T) {
		t.Parallel()
		got := renderEmailMarkdown("^ quoted")
		assert.Contains(t, got, `<blockquote style="`+blockQuoteStyle+`">`)
		assert.Contains(t, got, "quoted")
	})

	t.Run("unordered list", func(t *testing.T) {
		t.Parallel()
		got := renderEmailMarkdown("* one\n* two")
		assert.Contains(t, got, `<ul role="presentation" style="`+unorderedListStyle+`">`)
		assert.Contains(t, got, `<li style="`+listItemStyle+`">one</li>`)
	})

	t.Run("ordered list keeps start number", func(t *testing.T) {
		t.Parallel()
		got := renderEmailMarkdown("3. three\n4. four")
		assert.Contains(t, got, `<ol start="3" role="presentation" style="`+orderedListStyle+`">`)
	})

	t.Run("thematic break", func(t *testing.T) {
		t.Parallel()
		got := renderEmailMarkdown("before\n\n---\n\nafter")
		assert.Contains(t, got, `<hr style="`+thematicBreakStyle+`">`)
	})

	t.Run("images dropped", func(t *testing.T) {
		t.Parallel()
		got := renderEmailMarkdown("![alt](https://example.com/x.png)")
		assert.NotContains(t, got, "<img")
		assert.NotContains(t, got, "x.png")
	})
}

func TestRenderPlainTextMarkdown(t *testing.T) {
	t.Parallel()

	rule := strings.Repeat("-", columnWidth)

	t.Run("heading ruled", func(t *testing.T) {
		t.Parallel()
		got := renderPlainTextMarkdown("# Title\ntext")
		assert.Equal(t, "\n\nTitle\n"+rule+"\ntext", got)
	})

	t.Run("subheading gets a smaller gap", func(t *testing.T) {
		t.Parallel()
		got := renderPlainTextMarkdown("## Sub")
		assert.Equal(t, "\nSub\n"+rule, got)
	})

	t.Run("bullets", func(t *testing.T) {
		t.Parallel()
		got := renderPlainTextMarkdown("* one\n* two")
		assert.Equal(t, "• one\n• two", got)
	})

	t.Run("links become text colon url", func(t *testing.T) {
		t.Parallel()
		got := renderPlainTextMarkdown("see [the site](https://example.com) today")
		assert.Equal(t, "see the site: https://example.com today", got)
	})

	t.Run("thematic break becomes equals rule", func(t *testing.T) {
		t.Parallel()
		got := renderPlainTextMarkdown("---")
		assert.Equal(t, strings.Repeat("=", columnWidth), got)
	})

	t.Run("block quote marker stripped", func(t *testing.T) {
		t.Parallel()
		got := renderPlainTextMarkdown("^ quoted text")
		assert.Equal(t, "quoted text", got)
	})

	t.Run("emphasis stripped", func(t *testing.T) {
		t.Parallel()
		got := renderPlainTextMarkdown("some **bold** and _italic_ words")
		assert.Equal(t, "some bold and italic words", got)
	})
}

func TestRenderPreheaderMarkdown(t *testing.T) {
	t.Parallel()

	got := renderPreheaderMarkdown("# Title\nsee [the site](https://example.com)\n* a\n---\nend")
	assert.Equal(t, "Title\nsee the site\n• a\nend", got)
}
