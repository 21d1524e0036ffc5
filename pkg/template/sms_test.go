package template_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/template"
)

func rawSMS(content string) map[string]any {
	return map[string]any{"content": content, "template_type": "sms"}
}

func TestSMSMessageRender(t *testing.T) {
	t.Parallel()

	t.Run("substitutes and prefixes", func(t *testing.T) {
		t.Parallel()

		msg, err := template.NewSMSMessage(rawSMS("Hello ((name))"), map[string]any{"name": "Alice"},
			template.WithPrefix("Example Service"))
		require.NoError(t, err)

		got, err := msg.Render()
		require.NoError(t, err)
		assert.Equal(t, "Example Service: Hello Alice", got)
	})

	t.Run("prefix suppressed", func(t *testing.T) {
		t.Parallel()

		msg, err := template.NewSMSMessage(rawSMS("Hello"), map[string]any{"x": 1},
			template.WithPrefix("Example Service"), template.WithoutPrefix())
		require.NoError(t, err)

		got, err := msg.Render()
		require.NoError(t, err)
		assert.Equal(t, "Hello", got)
		assert.Equal(t, "", msg.Prefix())
	})

	t.Run("downgrades to the sms character set", func(t *testing.T) {
		t.Parallel()

		msg, err := template.NewSMSMessage(rawSMS("A – B… “done”"), nil)
		require.NoError(t, err)

		got, err := msg.Render()
		require.NoError(t, err)
		assert.Equal(t, `A - B... "done"`, got)
	})

	t.Run("removes whitespace before punctuation", func(t *testing.T) {
		t.Parallel()

		msg, err := template.NewSMSMessage(rawSMS("Hello ((name)) , bye"), map[string]any{"name": "Alice"})
		require.NoError(t, err)

		got, err := msg.Render()
		require.NoError(t, err)
		assert.Equal(t, "Hello Alice, bye", got)
	})

	t.Run("missing value fails", func(t *testing.T) {
		t.Parallel()

		msg, err := template.NewSMSMessage(rawSMS("((name))"), map[string]any{"other": 1})
		require.NoError(t, err)

		_, err = msg.Render()
		require.ErrorIs(t, err, template.ErrMissingPlaceholderValue)
	})
}

func TestSMSMessageContentCount(t *testing.T) {
	t.Parallel()

	t.Run("rendered length with values", func(t *testing.T) {
		t.Parallel()

		msg, err := template.NewSMSMessage(rawSMS("Hi ((name))"), map[string]any{"name": "Al"})
		require.NoError(t, err)

		count, err := msg.ContentCount()
		require.NoError(t, err)
		assert.Equal(t, len("Hi Al"), count)
	})

	t.Run("placeholders count literally without values", func(t *testing.T) {
		t.Parallel()

		msg, err := template.NewSMSMessage(rawSMS("((name))"), nil)
		require.NoError(t, err)

		count, err := msg.ContentCount()
		require.NoError(t, err)
		assert.Equal(t, 8, count)
	})

	t.Run("prefix counts", func(t *testing.T) {
		t.Parallel()

		msg, err := template.NewSMSMessage(rawSMS("body"), nil, template.WithPrefix("Svc"))
		require.NoError(t, err)

		count, err := msg.ContentCount()
		require.NoError(t, err)
		assert.Equal(t, len("Svc: body"), count)
	})
}

func TestSMSMessageFragmentCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{
			name:    "single gsm fragment at the boundary",
			content: strings.Repeat("a", 160),
			want:    1,
		},
		{
			name:    "two gsm fragments just past the boundary",
			content: strings.Repeat("a", 161),
			want:    2,
		},
		{
			name:    "three gsm fragments",
			content: strings.Repeat("a", 307),
			want:    3,
		},
		{
			name:    "welsh characters force unicode fragments",
			content: strings.Repeat("a", 68) + "Ŵ",
			want:    1,
		},
		{
			name:    "welsh characters past the unicode boundary",
			content: strings.Repeat("a", 70) + "Ŵ",
			want:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg, err := template.NewSMSMessage(rawSMS(tt.content), nil)
			require.NoError(t, err)

			count, err := msg.FragmentCount()
			require.NoError(t, err)
			assert.Equal(t, tt.want, count)
		})
	}
}

func TestSMSMessageIsMessageTooLong(t *testing.T) {
	t.Parallel()

	within, err := template.NewSMSMessage(rawSMS(strings.Repeat("a", template.SMSCharCountLimit)), nil)
	require.NoError(t, err)
	assert.False(t, within.IsMessageTooLong())

	over, err := template.NewSMSMessage(rawSMS(strings.Repeat("a", template.SMSCharCountLimit+1)), nil)
	require.NoError(t, err)
	assert.True(t, over.IsMessageTooLong())
}

func TestSMSPreviewRender(t *testing.T) {
	t.Parallel()

	t.Run("escapes and wraps", func(t *testing.T) {
		t.Parallel()

		preview, err := template.NewSMSPreview(rawSMS("Hello\n((name))"), map[string]any{"name": "<b>"}, nil)
		require.NoError(t, err)

		got, err := preview.Render()
		require.NoError(t, err)
		assert.Equal(t, "<div class=\"sms-message-wrapper\">\n  Hello<br>&lt;b&gt;\n</div>", got)
	})

	t.Run("shows sender and recipient", func(t *testing.T) {
		t.Parallel()

		preview, err := template.NewSMSPreview(rawSMS("Hello"),
			map[string]any{"phone number": "+16135550123", "x": 1},
			[]template.SMSOption{template.WithSender("EXAMPLE")},
			template.WithSenderShown(), template.WithRecipientShown())
		require.NoError(t, err)

		got, err := preview.Render()
		require.NoError(t, err)
		assert.Contains(t, got, `<span class="sms-message-sender">EXAMPLE</span>`)
		assert.Contains(t, got, `<span class="sms-message-recipient">+16135550123</span>`)
	})

	t.Run("french recipient placeholder", func(t *testing.T) {
		t.Parallel()

		preview, err := template.NewSMSPreview(rawSMS("Bonjour"), nil, nil,
			template.WithRecipientShown(), template.WithPreviewLanguage("fr"))
		require.NoError(t, err)

		got, err := preview.Render()
		require.NoError(t, err)
		assert.Contains(t, got, "((numéro de téléphone))")
	})

	t.Run("auto links bare urls", func(t *testing.T) {
		t.Parallel()

		preview, err := template.NewSMSPreview(rawSMS("go to https://example.com"), map[string]any{"x": 1}, nil)
		require.NoError(t, err)

		got, err := preview.Render()
		require.NoError(t, err)
		assert.Contains(t, got, `href="https://example.com"`)
		assert.Contains(t, got, `target="_blank"`)
	})

	t.Run("redacted personalisation", func(t *testing.T) {
		t.Parallel()

		preview, err := template.NewSMSPreview(rawSMS("code ((secret))"), map[string]any{"x": 1}, nil,
			template.WithRedactedPersonalisation())
		require.NoError(t, err)

		got, err := preview.Render()
		require.NoError(t, err)
		assert.Contains(t, got, "<span class='placeholder-redacted'>hidden</span>")
	})
}
