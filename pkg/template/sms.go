package template

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/notifykit/pkg/charset"
)

// SMSCharCountLimit is the platform ceiling for a single SMS message,
// four maximum-size fragments of 153 GSM characters each.
const SMSCharCountLimit = 612

// Fragment boundaries per GSM 03.38: a single-fragment GSM message holds 160
// characters, multipart fragments hold 153. Messages forced into Unicode
// encoding drop to 70 and 67.
const (
	gsmSingleFragment     = 160
	gsmMultiFragment      = 153
	unicodeSingleFragment = 70
	unicodeMultiFragment  = 67
)

// SMSMessage renders a template for SMS delivery: no markup, GSM-compatible
// characters, optional service-name prefix.
type SMSMessage struct {
	*Template

	prefix     string
	showPrefix bool
	sender     string
}

// SMSOption configures SMS rendering.
type SMSOption func(*SMSMessage)

// WithPrefix prepends "prefix: " to the message body, conventionally the
// sending service's name.
func WithPrefix(prefix string) SMSOption {
	return func(t *SMSMessage) { t.prefix = prefix }
}

// WithoutPrefix suppresses the service-name prefix.
func WithoutPrefix() SMSOption {
	return func(t *SMSMessage) { t.showPrefix = false }
}

// WithSender records the sender id for preview display.
func WithSender(sender string) SMSOption {
	return func(t *SMSMessage) { t.sender = sender }
}

// NewSMSMessage builds an SMS template from a raw template mapping and
// personalisation values.
func NewSMSMessage(raw any, values any, opts ...SMSOption) (*SMSMessage, error) {
	base, err := NewTemplate(raw, values)
	if err != nil {
		return nil, err
	}
	t := &SMSMessage{Template: base, showPrefix: true}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Prefix returns the active prefix, empty when suppressed.
func (t *SMSMessage) Prefix() string {
	if !t.showPrefix {
		return ""
	}
	return t.prefix
}

// Render produces the final SMS body: placeholders substituted without any
// HTML handling, prefixed, downgraded to the SMS character set, and
// whitespace-normalized.
func (t *SMSMessage) Render() (string, error) {
	body, err := t.field(ModePassthrough).Render()
	if err != nil {
		return "", err
	}
	body = addPrefix(body, t.Prefix())
	body = charset.SMS.Encode(body)
	body = removeWhitespaceBeforePunctuation(body)
	body = normaliseNewlines(body)
	return strings.TrimSpace(body), nil
}

// ContentCount is the byte length of the rendered message. With no values
// bound, placeholders count at their literal length ("((name))" is 8).
func (t *SMSMessage) ContentCount() (int, error) {
	if len(t.values) > 0 {
		rendered, err := t.Render()
		if err != nil {
			return 0, err
		}
		return len(rendered), nil
	}
	return len(charset.SMS.Encode(addPrefix(strings.TrimSpace(t.Content), t.Prefix()))), nil
}

// FragmentCount is the number of SMS segments the message occupies. Welsh
// characters outside GSM force Unicode encoding with smaller fragments.
func (t *SMSMessage) FragmentCount() (int, error) {
	count, err := t.ContentCount()
	if err != nil {
		return 0, err
	}
	rendered, err := t.Render()
	if err != nil {
		return 0, err
	}
	return fragmentCount(count, containsWelshNonGSM(rendered)), nil
}

// IsMessageTooLong reports whether the rendered content exceeds the platform
// character limit.
func (t *SMSMessage) IsMessageTooLong() bool {
	count, err := t.ContentCount()
	if err != nil {
		return false
	}
	return count > SMSCharCountLimit
}

func fragmentCount(characterCount int, isUnicode bool) int {
	single, multi := gsmSingleFragment, gsmMultiFragment
	if isUnicode {
		single, multi = unicodeSingleFragment, unicodeMultiFragment
	}
	if characterCount <= single {
		return 1
	}
	return (characterCount + multi - 1) / multi
}

func containsWelshNonGSM(content string) bool {
	for _, r := range content {
		if charset.WelshNonGSM.Allows(r) {
			return true
		}
	}
	return false
}

// Default recipient placeholders per display language, used when previews
// show who a message goes to.
var smsRecipientPlaceholders = map[string]string{
	"en": "((phone number))",
	"fr": "((numéro de téléphone))",
}

// SMSPreview renders an SMS template as HTML for human review in the admin
// interface.
type SMSPreview struct {
	*SMSMessage

	showRecipient  bool
	showSender     bool
	downgradeChars bool
	language       string
}

// SMSPreviewOption configures preview rendering.
type SMSPreviewOption func(*SMSPreview)

// WithRecipientShown displays the resolved recipient above the message body.
func WithRecipientShown() SMSPreviewOption {
	return func(t *SMSPreview) { t.showRecipient = true }
}

// WithSenderShown displays the sender id above the message body.
func WithSenderShown() SMSPreviewOption {
	return func(t *SMSPreview) { t.showSender = true }
}

// WithoutCharacterDowngrade previews the message without the GSM character
// substitution applied on delivery.
func WithoutCharacterDowngrade() SMSPreviewOption {
	return func(t *SMSPreview) { t.downgradeChars = false }
}

// WithRedactedPersonalisation previews unfilled placeholders as redaction
// tags instead of failing the render.
func WithRedactedPersonalisation() SMSPreviewOption {
	return func(t *SMSPreview) { t.redactMissing = true }
}

// WithPreviewLanguage selects the display language for default recipient
// placeholders. Supported: "en" (default) and "fr".
func WithPreviewLanguage(lang string) SMSPreviewOption {
	return func(t *SMSPreview) {
		if _, ok := smsRecipientPlaceholders[lang]; ok {
			t.language = lang
		}
	}
}

// NewSMSPreview builds a human-preview SMS template.
func NewSMSPreview(raw any, values any, smsOpts []SMSOption, opts ...SMSPreviewOption) (*SMSPreview, error) {
	msg, err := NewSMSMessage(raw, values, smsOpts...)
	if err != nil {
		return nil, err
	}
	t := &SMSPreview{SMSMessage: msg, downgradeChars: true, language: "en"}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Render produces HTML preview markup: escaped body with <br> line breaks,
// auto-linked URLs, and optional sender/recipient lines.
func (t *SMSPreview) Render() (string, error) {
	body, err := t.field(ModeEscape).Render()
	if err != nil {
		return "", err
	}
	if prefix := t.Prefix(); prefix != "" {
		body = addPrefix(body, escapeHTML(prefix))
	}
	if t.downgradeChars {
		body = charset.SMS.Encode(body)
	}
	body = removeWhitespaceBeforePunctuation(body)
	body = nl2br(body)
	body = autolinkSMS(body)

	var b strings.Builder
	b.WriteString("<div class=\"sms-message-wrapper\">\n")
	if t.showSender && t.sender != "" {
		fmt.Fprintf(&b, "  <span class=\"sms-message-sender\">%s</span>\n", escapeHTML(t.sender))
	}
	if t.showRecipient {
		recipient := NewField(smsRecipientPlaceholders[t.language], t.values, WithMode(ModeEscape))
		rendered, err := recipient.Render()
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "  <span class=\"sms-message-recipient\">%s</span>\n", rendered)
	}
	b.WriteString("  " + body + "\n</div>")
	return b.String(), nil
}
