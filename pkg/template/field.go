package template

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/notifykit/pkg/columns"
)

// Mode selects how a Field treats HTML in template content and values.
type Mode string

const (
	// ModeStrip removes all markup and entity-encodes what remains.
	ModeStrip Mode = "strip"
	// ModeEscape entity-encodes markup without removing it.
	ModeEscape Mode = "escape"
	// ModePassthrough applies no transformation. Used for channels with no
	// markup at all, such as SMS.
	ModePassthrough Mode = "passthrough"
	// ModeStripDVLAMarkup removes letter-composition markup tags only.
	ModeStripDVLAMarkup Mode = "strip_dvla_markup"
)

// Inert placeholder markup emitted for preview and unfilled renders. The
// class names are a compatibility contract with downstream CSS.
const (
	placeholderTag            = "<span class='placeholder'>((%s))</span>"
	placeholderTagHighlighted = "<span class='placeholder'><mark>((%s))</mark></span>"
	conditionalPlaceholderTag = "<span class='placeholder-conditional'>((%s??</span>%s))"
	placeholderTagNoBrackets  = "<span class='placeholder-no-brackets'>%s</span>"
	placeholderTagRedacted    = "<span class='placeholder-redacted'>hidden</span>"
)

// Field is a renderable unit: template content, an optional personalisation
// mapping, and render configuration. Fields are cheap to construct and scoped
// to a single render.
type Field struct {
	// Content is the raw template text containing ((placeholder)) tokens.
	Content string

	values        *columns.Columns[any]
	mode          Mode
	withBrackets  bool
	markdownLists bool
	redactMissing bool
	preview       bool
}

// FieldOption configures a Field at construction.
type FieldOption func(*Field)

// WithMode selects the HTML handling mode. Default is ModeStrip.
func WithMode(m Mode) FieldOption {
	return func(f *Field) { f.mode = m }
}

// WithoutBrackets renders unfilled placeholders as bare highlighted names.
func WithoutBrackets() FieldOption {
	return func(f *Field) { f.withBrackets = false }
}

// WithMarkdownLists renders list values as markdown bullet lists instead of
// inline prose.
func WithMarkdownLists() FieldOption {
	return func(f *Field) { f.markdownLists = true }
}

// WithRedactMissing replaces unfilled placeholders with a redaction tag
// instead of failing the render.
func WithRedactMissing() FieldOption {
	return func(f *Field) { f.redactMissing = true }
}

// WithPreview renders every placeholder as highlighted markup regardless of
// bound values.
func WithPreview() FieldOption {
	return func(f *Field) { f.preview = true }
}

// NewField builds a Field over content with an optional personalisation
// mapping. Values keys are column-key-normalized, so any casing or spacing
// variant of a placeholder name binds to it.
func NewField(content string, values map[string]any, opts ...FieldOption) *Field {
	f := &Field{
		Content:      content,
		values:       columns.FromMap(values),
		mode:         ModeStrip,
		withBrackets: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetValues replaces the personalisation mapping.
func (f *Field) SetValues(values map[string]any) {
	f.values = columns.FromMap(values)
}

// HasValues reports whether any personalisation is bound.
func (f *Field) HasValues() bool {
	return f.values.Len() > 0
}

func (f *Field) sanitize(value string) string {
	switch f.mode {
	case ModeEscape:
		return escapeHTML(value)
	case ModePassthrough:
		return value
	case ModeStripDVLAMarkup:
		return stripDVLAMarkup(value)
	default:
		return stripHTML(value)
	}
}

// Placeholders returns the distinct placeholders found in the sanitized
// content, in first-seen order.
func (f *Field) Placeholders() []Placeholder {
	seen := map[string]struct{}{}
	var out []Placeholder
	for _, m := range placeholderPattern.FindAllStringSubmatch(f.sanitize(f.Content), -1) {
		p := NewPlaceholder(m[1])
		if _, dup := seen[p.Body]; dup {
			continue
		}
		seen[p.Body] = struct{}{}
		out = append(out, p)
	}
	return out
}

// PlaceholderNames returns the distinct placeholder names in first-seen order.
func (f *Field) PlaceholderNames() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range f.Placeholders() {
		if _, dup := seen[p.Name()]; dup {
			continue
		}
		seen[p.Name()] = struct{}{}
		out = append(out, p.Name())
	}
	return out
}

// Formatted renders every placeholder as inert highlighted markup. Used when
// no personalisation is bound.
func (f *Field) Formatted() string {
	return placeholderPattern.ReplaceAllStringFunc(f.sanitize(f.Content), f.formatMatch)
}

// Replaced substitutes placeholders with their bound values. Content is
// processed line by line because conditional and list substitutions may span
// multiple output lines and must not leak into adjacent block-quote state
// (lines starting with ^ by the markdown convention used here).
func (f *Field) Replaced() (string, error) {
	lines := strings.Split(f.sanitize(f.Content), "\n")
	var renderErr error

	for i, line := range lines {
		if !strings.Contains(line, "((") || !strings.Contains(line, "))") {
			continue
		}
		inQuote := strings.HasPrefix(strings.TrimLeft(line, " \t"), "^")
		replaced := placeholderPattern.ReplaceAllStringFunc(line, func(match string) string {
			out, err := f.replaceMatch(match, inQuote)
			if err != nil && renderErr == nil {
				renderErr = err
			}
			return out
		})
		// A substitution ending in a multi-line block can leave a dangling
		// block-quote continuation marker behind it.
		lines[i] = strings.TrimSuffix(strings.TrimSuffix(replaced, "^"), "\n")
	}
	if renderErr != nil {
		return "", renderErr
	}
	return strings.TrimSuffix(strings.Join(lines, "\n"), "\n"), nil
}

// Render substitutes values when any are bound, and falls back to the inert
// highlighted form otherwise.
func (f *Field) Render() (string, error) {
	if f.HasValues() {
		return f.Replaced()
	}
	return f.Formatted(), nil
}

func (f *Field) String() string {
	out, err := f.Render()
	if err != nil {
		return f.Formatted()
	}
	return out
}

func (f *Field) formatMatch(match string) string {
	p := NewPlaceholder(match)

	if f.redactMissing {
		return placeholderTagRedacted
	}
	if p.IsConditional() {
		return fmt.Sprintf(conditionalPlaceholderTag, f.sanitize(p.Name()), f.sanitize(p.ConditionalText()))
	}
	tag := placeholderTag
	if !f.withBrackets {
		tag = placeholderTagNoBrackets
	}
	if f.preview {
		tag = placeholderTagHighlighted
	}
	return fmt.Sprintf(tag, f.sanitize(p.Name()))
}

func (f *Field) replaceMatch(match string, inQuote bool) (string, error) {
	p := NewPlaceholder(match)

	if value, ok := f.values.Get(p.Name()); ok && value != nil && p.IsConditional() {
		return conditionalValuePattern.ReplaceAllString(
			p.ConditionalBody(value),
			f.sanitize(stringify(value)),
		), nil
	}

	if !f.preview {
		replacement, ok := f.replacementFor(p, inQuote)
		if !ok && !f.nullValueAllowed(p) {
			return "", fmt.Errorf("%w: %s", ErrMissingPlaceholderValue, p.Name())
		}
		if ok {
			return replacement, nil
		}
	}

	return f.formatMatch(match), nil
}

// nullValueAllowed reports whether an unbound value is tolerable for this
// placeholder: conditionals render empty and redaction substitutes a tag, so
// neither is a hard error.
func (f *Field) nullValueAllowed(p Placeholder) bool {
	return f.redactMissing || p.IsConditional()
}

func (f *Field) replacementFor(p Placeholder, inQuote bool) (string, bool) {
	value, ok := f.values.Get(p.Name())
	if !ok || value == nil {
		return "", false
	}
	if items, isList := listItems(value); isList {
		kept := dropFalsy(items)
		if len(kept) == 0 {
			return "", false
		}
		return f.sanitize(f.listReplacement(kept, inQuote)), true
	}
	return f.sanitize(stringify(value)), true
}

func (f *Field) listReplacement(items []string, inQuote bool) string {
	if !f.markdownLists {
		return formattedList(items)
	}
	prefix := "* "
	if inQuote {
		prefix = "^ * "
	}
	bullets := make([]string, len(items))
	for i, item := range items {
		bullets[i] = prefix + item
	}
	return "\n\n" + strings.Join(bullets, "\n")
}

func listItems(value any) ([]any, bool) {
	switch v := value.(type) {
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, true
	case []any:
		return v, true
	}
	return nil, false
}

// dropFalsy keeps item order while removing nil, empty strings, false and
// numeric zero. Falsiness is judged on the value itself, so non-empty
// strings survive even when they spell a falsy value ("0", "false").
func dropFalsy(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if isFalsyItem(item) {
			continue
		}
		out = append(out, stringify(item))
	}
	return out
}

func isFalsyItem(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case int:
		return v == 0
	case int64:
		return v == 0
	case float64:
		return v == 0
	}
	return false
}
