package template

import (
	"github.com/dmitrymomot/notifykit/pkg/columns"
)

// Type discriminates the delivery channel a template targets.
type Type string

const (
	TypeSMS    Type = "sms"
	TypeEmail  Type = "email"
	TypeLetter Type = "letter"
)

// Template wraps a raw template mapping (immutable content, mutable values)
// sourced from persistent storage. It is constructed once per render request
// and discarded after rendering.
type Template struct {
	ID      string
	Name    string
	Content string
	Subject string
	Type    Type

	raw           map[string]any
	values        map[string]any
	redactMissing bool
}

// Option configures a Template at construction.
type Option func(*Template)

// WithRedactMissingPersonalisation renders unfilled placeholders as redacted
// tags instead of failing.
func WithRedactMissingPersonalisation() Option {
	return func(t *Template) { t.redactMissing = true }
}

// NewTemplate builds a Template from a raw template mapping and an optional
// personalisation mapping. The raw value must be a map with a string content
// key; values must be a map or nil. Anything else is a caller error reported
// immediately.
func NewTemplate(raw any, values any, opts ...Option) (*Template, error) {
	rawMap, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrTemplateNotMap
	}
	content, ok := rawMap["content"].(string)
	if !ok {
		return nil, ErrMissingContent
	}

	t := &Template{
		ID:      stringValue(rawMap, "id"),
		Name:    stringValue(rawMap, "name"),
		Content: content,
		Subject: stringValue(rawMap, "subject"),
		Type:    Type(stringValue(rawMap, "template_type")),
		raw:     rawMap,
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.SetValues(values); err != nil {
		return nil, err
	}
	return t, nil
}

func stringValue(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// SetValues replaces the personalisation mapping. Stored keys are restricted
// to the template's own placeholder names plus any keys not matching a known
// placeholder, which pass through untouched for downstream use.
func (t *Template) SetValues(values any) error {
	if values == nil {
		t.values = map[string]any{}
		return nil
	}
	valueMap, ok := values.(map[string]any)
	if !ok {
		return ErrValuesNotMap
	}

	known := columns.FromKeys(t.PlaceholderNames())
	kept := map[string]any{}
	for key, value := range valueMap {
		if original, match := known.Get(key); match {
			kept[original] = value
			continue
		}
		kept[key] = value
	}
	t.values = kept
	return nil
}

// Values returns the current personalisation mapping.
func (t *Template) Values() map[string]any {
	return t.values
}

// GetRaw reads an arbitrary key from the underlying template mapping.
func (t *Template) GetRaw(key string) any {
	return t.raw[key]
}

// Placeholders returns the distinct placeholders of the template content.
func (t *Template) Placeholders() []Placeholder {
	return NewField(t.Content, nil).Placeholders()
}

// PlaceholderNames returns the distinct placeholder names of the content.
func (t *Template) PlaceholderNames() []string {
	return NewField(t.Content, nil).PlaceholderNames()
}

// MissingData lists placeholder names with no usable bound value.
func (t *Template) MissingData() []string {
	bound := columns.FromMap(t.values)
	var missing []string
	for _, name := range t.PlaceholderNames() {
		if v, ok := bound.Get(name); !ok || v == nil {
			missing = append(missing, name)
		}
	}
	return missing
}

// AdditionalData lists bound value keys that match no placeholder.
func (t *Template) AdditionalData() []string {
	known := columns.FromKeys(t.PlaceholderNames())
	var extra []string
	for key := range t.values {
		if !known.Contains(key) {
			extra = append(extra, key)
		}
	}
	return extra
}

// Render substitutes placeholders with HTML escaping and no channel-specific
// post-processing.
func (t *Template) Render() (string, error) {
	return t.field(ModeEscape).Render()
}

// IsMessageTooLong reports whether the rendered message exceeds the channel
// limit. The base template has none.
func (t *Template) IsMessageTooLong() bool {
	return false
}

func (t *Template) field(mode Mode, opts ...FieldOption) *Field {
	fieldOpts := []FieldOption{WithMode(mode)}
	if t.redactMissing {
		fieldOpts = append(fieldOpts, WithRedactMissing())
	}
	return NewField(t.Content, t.values, append(fieldOpts, opts...)...)
}
