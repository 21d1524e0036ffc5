package template

import (
	"fmt"
	stdhtml "html"
	"strings"

	"github.com/dmitrymomot/notifykit/pkg/columns"
)

// EmailCharCountLimit caps the rendered size of an email body.
const EmailCharCountLimit = 2000000

// PreheaderLength is the number of characters email clients show before the
// body is opened.
const PreheaderLength = 256

// WithSubjectTemplate adds a subject line that runs through the same
// placeholder pipeline as the body. The union of body and subject
// placeholders is the template's placeholder set.
type WithSubjectTemplate struct {
	*Template
}

// NewWithSubjectTemplate builds a subject-bearing template. The raw mapping
// must carry both content and subject.
func NewWithSubjectTemplate(raw any, values any, opts ...Option) (*WithSubjectTemplate, error) {
	base, err := NewTemplate(raw, values, opts...)
	if err != nil {
		return nil, err
	}
	if base.Subject == "" {
		return nil, ErrMissingSubject
	}
	return &WithSubjectTemplate{Template: base}, nil
}

// PlaceholderNames is the union of body and subject placeholder names.
func (t *WithSubjectTemplate) PlaceholderNames() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, name := range append(
		NewField(t.Content, nil).PlaceholderNames(),
		NewField(t.Subject, nil).PlaceholderNames()...,
	) {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// MissingData lists placeholder names, across body and subject, with no
// usable bound value.
func (t *WithSubjectTemplate) MissingData() []string {
	bound := columns.FromMap(t.Values())
	var missing []string
	for _, name := range t.PlaceholderNames() {
		if v, ok := bound.Get(name); !ok || v == nil {
			missing = append(missing, name)
		}
	}
	return missing
}

// RenderSubject produces the final subject line: escaped, typography-cleaned
// and whitespace-normalized.
func (t *WithSubjectTemplate) RenderSubject() (string, error) {
	return t.renderSubject(ModeEscape)
}

func (t *WithSubjectTemplate) renderSubject(mode Mode) (string, error) {
	subjectOpts := []FieldOption{WithMode(mode)}
	if t.redactMissing {
		subjectOpts = append(subjectOpts, WithRedactMissing())
	}
	subject, err := NewField(t.Subject, t.values, subjectOpts...).Render()
	if err != nil {
		return "", err
	}
	return normaliseWhitespace(niceTypography(subject)), nil
}

// Render substitutes placeholders without markup handling; channel renderers
// layer their own formatting on top.
func (t *WithSubjectTemplate) Render() (string, error) {
	return t.field(ModePassthrough, WithMarkdownLists()).Render()
}

// PlainTextEmailTemplate renders the text/plain part of an email.
type PlainTextEmailTemplate struct {
	*WithSubjectTemplate
}

// NewPlainTextEmailTemplate builds a plain-text email template.
func NewPlainTextEmailTemplate(raw any, values any, opts ...Option) (*PlainTextEmailTemplate, error) {
	base, err := NewWithSubjectTemplate(raw, values, opts...)
	if err != nil {
		return nil, err
	}
	return &PlainTextEmailTemplate{WithSubjectTemplate: base}, nil
}

// Render produces the plain-text body: markdown flattened to fixed-width
// text, typography cleaned, entities resolved.
func (t *PlainTextEmailTemplate) Render() (string, error) {
	body, err := t.field(ModePassthrough, WithMarkdownLists()).Render()
	if err != nil {
		return "", err
	}
	body = stripUnsupportedCharacters(body)
	body = addTrailingNewline(body)
	body = renderPlainTextMarkdown(body)
	body = niceTypography(body)
	body = stdhtml.UnescapeString(body)
	body = stripLeadingWhitespace(body)
	return addTrailingNewline(body), nil
}

// RenderSubject keeps the subject unescaped: there is no markup in a
// plain-text channel.
func (t *PlainTextEmailTemplate) RenderSubject() (string, error) {
	return t.renderSubject(ModePassthrough)
}

// HTMLEmailTemplate renders the text/html part of an email with inline
// styles and a fixed document wrapper.
type HTMLEmailTemplate struct {
	*WithSubjectTemplate

	completeHTML bool
	allowHTML    bool
	brandName    string
	brandColour  string
}

// HTMLEmailOption configures HTML email rendering.
type HTMLEmailOption func(*HTMLEmailTemplate)

// WithFragmentHTML emits only the body markup without the surrounding
// document, for embedding in another page.
func WithFragmentHTML() HTMLEmailOption {
	return func(t *HTMLEmailTemplate) { t.completeHTML = false }
}

// WithAllowHTML passes template-author HTML through instead of escaping it.
// Only for templates from trusted authors.
func WithAllowHTML() HTMLEmailOption {
	return func(t *HTMLEmailTemplate) { t.allowHTML = true }
}

// WithBrand sets the brand name and banner colour of the email header.
func WithBrand(name, colour string) HTMLEmailOption {
	return func(t *HTMLEmailTemplate) {
		t.brandName = name
		t.brandColour = colour
	}
}

// NewHTMLEmailTemplate builds an HTML email template.
func NewHTMLEmailTemplate(raw any, values any, opts ...HTMLEmailOption) (*HTMLEmailTemplate, error) {
	base, err := NewWithSubjectTemplate(raw, values)
	if err != nil {
		return nil, err
	}
	t := &HTMLEmailTemplate{WithSubjectTemplate: base, completeHTML: true}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *HTMLEmailTemplate) bodyMode() Mode {
	if t.allowHTML {
		return ModePassthrough
	}
	return ModeEscape
}

// RenderBody produces the styled HTML body markup without the document
// wrapper.
func (t *HTMLEmailTemplate) RenderBody() (string, error) {
	body, err := t.field(t.bodyMode(), WithMarkdownLists()).Render()
	if err != nil {
		return "", err
	}
	body = stripUnsupportedCharacters(body)
	// Typography runs before markdown: the quote smartener is not HTML-aware
	// and must never see rendered attribute quotes.
	body = niceTypography(body)
	body = addTrailingNewline(body)
	return renderEmailMarkdown(body), nil
}

// Preheader derives the short plain-text summary email clients display
// before the body is opened, capped at PreheaderLength characters.
func (t *HTMLEmailTemplate) Preheader() (string, error) {
	mode := ModeEscape
	if t.allowHTML {
		mode = ModeStrip
	}
	body, err := t.field(mode, WithMarkdownLists()).Render()
	if err != nil {
		return "", err
	}
	body = stripUnsupportedCharacters(body)
	body = niceTypography(body)
	body = addTrailingNewline(body)
	body = renderPreheaderMarkdown(body)

	collapsed := strings.Join(strings.Fields(body), " ")
	// The cap counts characters, not bytes, so multi-byte text is never
	// split mid-rune.
	if runes := []rune(collapsed); len(runes) > PreheaderLength {
		collapsed = strings.TrimSpace(string(runes[:PreheaderLength]))
	}
	return collapsed, nil
}

// Render produces the complete HTML email document: subject, preheader and
// styled body inside a fixed wrapper with inline CSS only.
func (t *HTMLEmailTemplate) Render() (string, error) {
	subject, err := t.RenderSubject()
	if err != nil {
		return "", err
	}
	body, err := t.RenderBody()
	if err != nil {
		return "", err
	}
	if !t.completeHTML {
		return body, nil
	}
	preheader, err := t.Preheader()
	if err != nil {
		return "", err
	}
	return wrapEmailDocument(subject, preheader, body, t.brandName, t.brandColour), nil
}

// ContentCount is the length of the personalised body text. With values
// missing, placeholders count at their literal length.
func (t *HTMLEmailTemplate) ContentCount() (int, error) {
	if len(t.MissingData()) > 0 {
		return len(t.Content), nil
	}
	body, err := t.field(ModePassthrough, WithMarkdownLists()).Render()
	if err != nil {
		return 0, err
	}
	return len(body), nil
}

// IsMessageTooLong reports whether the body exceeds the platform email limit.
func (t *HTMLEmailTemplate) IsMessageTooLong() bool {
	count, err := t.ContentCount()
	if err != nil {
		return false
	}
	return count > EmailCharCountLimit
}

// EmailPreviewTemplate renders an email for human review with its metadata:
// recipient, sender and subject lines above the body.
type EmailPreviewTemplate struct {
	*HTMLEmailTemplate

	fromName      string
	fromAddress   string
	replyTo       string
	showRecipient bool
	language      string
}

var emailRecipientPlaceholders = map[string]string{
	"en": "((email address))",
	"fr": "((adresse courriel))",
}

// EmailPreviewOption configures preview rendering.
type EmailPreviewOption func(*EmailPreviewTemplate)

// WithFrom sets the displayed sender name and address.
func WithFrom(name, address string) EmailPreviewOption {
	return func(t *EmailPreviewTemplate) {
		t.fromName = name
		t.fromAddress = address
	}
}

// WithReplyTo sets the displayed reply-to address.
func WithReplyTo(address string) EmailPreviewOption {
	return func(t *EmailPreviewTemplate) { t.replyTo = address }
}

// WithoutRecipientShown hides the To line.
func WithoutRecipientShown() EmailPreviewOption {
	return func(t *EmailPreviewTemplate) { t.showRecipient = false }
}

// WithEmailPreviewLanguage selects the display language for the default
// recipient placeholder. Supported: "en" (default) and "fr".
func WithEmailPreviewLanguage(lang string) EmailPreviewOption {
	return func(t *EmailPreviewTemplate) {
		if _, ok := emailRecipientPlaceholders[lang]; ok {
			t.language = lang
		}
	}
}

// NewEmailPreviewTemplate builds an email preview template.
func NewEmailPreviewTemplate(raw any, values any, opts ...EmailPreviewOption) (*EmailPreviewTemplate, error) {
	base, err := NewHTMLEmailTemplate(raw, values, WithFragmentHTML())
	if err != nil {
		return nil, err
	}
	t := &EmailPreviewTemplate{HTMLEmailTemplate: base, showRecipient: true, language: "en"}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Render produces preview markup: metadata rows followed by the styled body.
func (t *EmailPreviewTemplate) Render() (string, error) {
	subject, err := t.RenderSubject()
	if err != nil {
		return "", err
	}
	body, err := t.RenderBody()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("<table class=\"email-message-meta\">\n")
	if t.fromName != "" || t.fromAddress != "" {
		fmt.Fprintf(&b, "  <tr><th>From</th><td>%s &lt;%s&gt;</td></tr>\n", escapeHTML(t.fromName), escapeHTML(t.fromAddress))
	}
	if t.replyTo != "" {
		fmt.Fprintf(&b, "  <tr><th>Reply to</th><td>%s</td></tr>\n", escapeHTML(t.replyTo))
	}
	if t.showRecipient {
		recipient, err := NewField(emailRecipientPlaceholders[t.language], t.values, WithMode(ModeEscape)).Render()
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "  <tr><th>To</th><td>%s</td></tr>\n", recipient)
	}
	fmt.Fprintf(&b, "  <tr><th>Subject</th><td>%s</td></tr>\n", subject)
	b.WriteString("</table>\n")
	b.WriteString(body)
	return b.String(), nil
}

// wrapEmailDocument wraps rendered body markup into a complete standalone
// HTML document. All styling is inline, email clients ignore stylesheets.
func wrapEmailDocument(subject, preheader, body, brandName, brandColour string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html PUBLIC \"-//W3C//DTD XHTML 1.0 Transitional//EN\" \"http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd\">\n")
	b.WriteString("<html lang=\"en\" xmlns=\"http://www.w3.org/1999/xhtml\">\n<head>\n")
	b.WriteString("  <meta http-equiv=\"Content-Type\" content=\"text/html; charset=UTF-8\" />\n")
	b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\" />\n")
	fmt.Fprintf(&b, "  <title>%s</title>\n</head>\n", escapeHTML(subject))
	b.WriteString("<body style=\"font-family: Helvetica, Arial, sans-serif; font-size: 16px; margin: 0; color: #0B0C0C;\">\n")
	if preheader != "" {
		fmt.Fprintf(&b, "  <span style=\"display: none; font-size: 1px; color: #FFFFFF; max-height: 0;\">%s</span>\n", escapeHTML(preheader))
	}
	if brandName != "" {
		colour := brandColour
		if colour == "" {
			colour = "#0B0C0C"
		}
		fmt.Fprintf(&b, "  <table width=\"100%%\" role=\"presentation\"><tr><td style=\"background: %s; color: #FFFFFF; font-size: 24px; padding: 10px 15px;\">%s</td></tr></table>\n",
			escapeHTML(colour), escapeHTML(brandName))
	}
	b.WriteString("  <table width=\"100%\" role=\"presentation\"><tr><td style=\"padding: 20px 15px 30px 15px; max-width: 580px;\">\n")
	b.WriteString(body)
	b.WriteString("\n  </td></tr></table>\n</body>\n</html>\n")
	return b.String()
}
