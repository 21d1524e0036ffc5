package recipients

import (
	"strings"

	"github.com/dmitrymomot/notifykit/pkg/columns"
)

// MissingFieldError is the cell error recorded when a required value is
// absent. The exact text is displayed to uploaders.
const MissingFieldError = "Missing"

// Cell is one validated value from an uploaded row. Errors are plain strings,
// validation never aborts a row: every problem in a file gets reported in one
// pass.
type Cell struct {
	// Data is the cell value: a string, a list of values when the file
	// repeated a header, or nil when the cell was empty.
	Data any
	// Error is the validation message for this cell, empty when valid.
	Error string
	// Ignore marks cells under headers that match no known placeholder.
	Ignore bool
}

// RecipientError reports whether the cell holds an undeliverable recipient,
// as opposed to merely missing data. Combined-length warnings are
// personalisation problems, not recipient problems.
func (c Cell) RecipientError() bool {
	if c.Error == "" || c.Error == MissingFieldError {
		return false
	}
	return !strings.Contains(c.Error, "Some messages may be too long due to custom content.")
}

// Row is one parsed and validated CSV data row.
type Row struct {
	// Index is the zero-based position of the row among data rows.
	Index int
	// MessageTooLong is set at construction when a bound SMS template
	// rendered with this row's personalisation exceeds the platform limit.
	MessageTooLong bool

	cells            *columns.Columns[Cell]
	placeholderKeys  map[string]bool
	langCheckHeaders []string
}

// recipientLangCheckHeaders are the headers searched for the recipient value
// within a row, both display languages plus the generic "to".
func recipientLangCheckHeaders(templateType string) []string {
	if templateType == "email" {
		return []string{"email address", "adresse courriel", "to"}
	}
	return []string{"phone number", "numéro de téléphone", "to"}
}

func newRow(
	index int,
	data *columns.Columns[any],
	errorFn func(key string, value any) string,
	placeholderKeys map[string]bool,
	templateType string,
	messageTooLong bool,
) *Row {
	cells := columns.New[Cell]()
	for _, key := range data.Keys() {
		value, _ := data.Get(key)
		cells.Set(key, Cell{
			Data:   value,
			Error:  errorFn(key, value),
			Ignore: !placeholderKeys[columns.MakeKey(key)],
		})
	}
	return &Row{
		Index:            index,
		MessageTooLong:   messageTooLong,
		cells:            cells,
		placeholderKeys:  placeholderKeys,
		langCheckHeaders: recipientLangCheckHeaders(templateType),
	}
}

// Get returns the cell under any spelling of key, or a zero Cell when the
// column does not exist.
func (r *Row) Get(key string) Cell {
	return r.cells.GetOr(key, Cell{})
}

// Keys returns the row's column names in file order.
func (r *Row) Keys() []string {
	return r.cells.Keys()
}

// HasError reports whether any cell failed validation or the rendered
// message is too long.
func (r *Row) HasError() bool {
	if r.MessageTooLong {
		return true
	}
	for _, key := range r.cells.Keys() {
		if cell, ok := r.cells.Get(key); ok && cell.Error != "" {
			return true
		}
	}
	return false
}

// HasBadRecipient reports whether the recipient column holds an
// undeliverable value.
func (r *Row) HasBadRecipient() bool {
	for _, header := range r.langCheckHeaders {
		if r.Get(header).RecipientError() {
			return true
		}
	}
	return false
}

// HasMissingData reports whether any required cell is empty.
func (r *Row) HasMissingData() bool {
	for _, key := range r.cells.Keys() {
		if cell, ok := r.cells.Get(key); ok && cell.Error == MissingFieldError {
			return true
		}
	}
	return false
}

// Recipient returns the destination value, checking the recipient headers in
// both display languages. The header language in a file is independent of
// the uploader's interface language.
func (r *Row) Recipient() any {
	for _, header := range r.langCheckHeaders {
		if cell := r.Get(header); cell.Data != nil {
			return cell.Data
		}
	}
	return nil
}

// Personalisation returns the cells matching known placeholders.
func (r *Row) Personalisation() *columns.Columns[any] {
	personalisation := columns.New[any]()
	for _, key := range r.cells.Keys() {
		if !r.placeholderKeys[columns.MakeKey(key)] {
			continue
		}
		cell, _ := r.cells.Get(key)
		personalisation.Set(key, cell.Data)
	}
	return personalisation
}

// RecipientAndPersonalisation returns every cell value keyed by column.
func (r *Row) RecipientAndPersonalisation() *columns.Columns[any] {
	all := columns.New[any]()
	for _, key := range r.cells.Keys() {
		cell, _ := r.cells.Get(key)
		all.Set(key, cell.Data)
	}
	return all
}
