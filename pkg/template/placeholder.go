package template

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches ((name)) and ((name??conditional text)) tokens.
// The name part allows word characters, spaces and hyphens; the conditional
// part after ?? is free text up to the first closing )).
var placeholderPattern = regexp.MustCompile(`\({2}([\w \-]+(?:\?{2}.*?)?)\){2}`)

// conditionalValuePattern finds the {} markers inside a conditional body that
// get substituted with the bound value.
var conditionalValuePattern = regexp.MustCompile(`\{\}`)

// Placeholder is one parsed occurrence of a ((body)) token. Constructed fresh
// per regex match during a render pass, never mutated afterwards.
type Placeholder struct {
	// Body is the raw text between the double parentheses.
	Body string
}

// NewPlaceholder builds a Placeholder from raw matched text, stripping the
// surrounding (( and )) if present.
func NewPlaceholder(body string) Placeholder {
	body = strings.TrimPrefix(body, "((")
	body = strings.TrimSuffix(body, "))")
	return Placeholder{Body: body}
}

// IsConditional reports whether the body carries a ?? separator.
func (p Placeholder) IsConditional() bool {
	return strings.Contains(p.Body, "??")
}

// Name is the text before the ?? separator. For non-conditional placeholders
// the name equals the body.
func (p Placeholder) Name() string {
	name, _, _ := strings.Cut(p.Body, "??")
	return name
}

// ConditionalText is the text after the first ?? separator, empty for
// non-conditional placeholders. ((a?? b??c)) yields " b??c".
func (p Placeholder) ConditionalText() string {
	_, text, _ := strings.Cut(p.Body, "??")
	return text
}

// ConditionalBody returns the conditional text when value is truthy by the
// placeholder convention, and the empty string otherwise.
func (p Placeholder) ConditionalBody(value any) string {
	if ShouldRenderConditional(value) {
		return p.ConditionalText()
	}
	return ""
}

func (p Placeholder) String() string {
	return fmt.Sprintf("Placeholder(%s)", p.Body)
}

// ShouldRenderConditional implements the truthiness convention for
// conditional placeholders: everything renders except the empty string and
// the literal stringified false.
func ShouldRenderConditional(value any) bool {
	switch stringify(value) {
	case "", "False", "false":
		return false
	}
	return true
}

// stringify renders a personalisation value the way it appears in a message.
func stringify(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
