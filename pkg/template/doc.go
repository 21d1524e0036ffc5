// Package template renders notification message templates for SMS, email
// and preview surfaces, with ((placeholder)) personalisation.
//
// A template is a raw mapping (content, optional id/name/subject/type) plus
// a personalisation mapping. Placeholder names are column-key-normalized, so
// "First Name", "first_name" and "FIRSTNAME" all bind the same value.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/notifykit/pkg/template"
//
//	raw := map[string]any{
//		"content":       "Hello ((name)), your code is ((code)).",
//		"template_type": "sms",
//	}
//	msg, err := template.NewSMSMessage(raw, map[string]any{
//		"name": "Alice",
//		"code": 1234,
//	}, template.WithPrefix("Example Service"))
//	if err != nil {
//		return err
//	}
//	body, err := msg.Render()
//	// Output: "Example Service: Hello Alice, your code is 1234."
//
// # Placeholders
//
// A placeholder is ((name)) in template content. Conditional placeholders
// carry body text shown only when the bound value is truthy:
//
//	((has discount??Use code SAVE10 at checkout))
//
// Inside a conditional body, {} is replaced by the bound value itself.
// Rendering with bound values fails with ErrMissingPlaceholderValue when a
// non-conditional placeholder has no value; rendering with no values at all
// produces inert highlighted markup for previews instead.
//
// # Channels
//
// SMSMessage renders plain text through the GSM-compatible character
// downgrade and reports fragment counts (160/153 characters per fragment,
// or 70/67 when Welsh diacritics force UCS-2 encoding). SMSPreview renders
// the same content as HTML for admin display.
//
// PlainTextEmailTemplate and HTMLEmailTemplate render the two email body
// parts from the same markdown-flavoured content: fixed-width text on one
// side, inline-styled HTML with a preheader on the other. A leading ^ marks
// a block-quoted line in template content. EmailPreviewTemplate adds
// From/Reply-To/To/Subject metadata for admin display.
//
// # Error Handling
//
// Constructors reject malformed input with sentinel errors
// (ErrTemplateNotMap, ErrMissingContent, ErrMissingSubject, ErrValuesNotMap)
// that callers can match with errors.Is.
package template
