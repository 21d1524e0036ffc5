package template

import "errors"

// Sentinel errors for template construction and rendering.
var (
	// ErrTemplateNotMap is returned when the raw template is not a mapping.
	ErrTemplateNotMap = errors.New("template: template must be a map")

	// ErrValuesNotMap is returned when personalisation values are not a mapping.
	ErrValuesNotMap = errors.New("template: values must be a map")

	// ErrMissingContent is returned when the template mapping has no content key.
	ErrMissingContent = errors.New("template: missing content")

	// ErrMissingSubject is returned when a subject-bearing template has no subject key.
	ErrMissingSubject = errors.New("template: missing subject")

	// ErrMissingPlaceholderValue is returned when rendering hits a
	// non-conditional placeholder with no bound value and redaction is off.
	// This is a caller contract violation: the personalisation is incomplete.
	ErrMissingPlaceholderValue = errors.New("template: missing value for non-conditional placeholder")
)
