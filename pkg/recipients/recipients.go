package recipients

import (
	"encoding/csv"
	"io"
	"iter"
	"math"
	"strings"

	"github.com/dmitrymomot/notifykit/pkg/columns"
	"github.com/dmitrymomot/notifykit/pkg/template"
)

// Default bounds for uploaded files and error reporting.
const (
	DefaultMaxRows             = 50000
	DefaultMaxErrorsShown      = 20
	DefaultMaxInitialRowsShown = 10
)

// firstColumnHeadings are the recipient-identifying headers required per
// channel and display language. The letter address headings are the same in
// both languages.
var firstColumnHeadings = map[string]map[string][]string{
	"en": {
		"email":  {"email address"},
		"sms":    {"phone number"},
		"letter": letterAddressColumns,
	},
	"fr": {
		"email":  {"adresse courriel"},
		"sms":    {"numéro de téléphone"},
		"letter": letterAddressColumns,
	},
}

// Headers accepted in either language when checking what a file contains.
var bothLanguageHeadings = map[string][]string{
	"email": {"email address", "adresse courriel"},
	"sms":   {"phone number", "numéro de téléphone"},
}

var letterAddressColumns = []string{
	"address line 1",
	"address line 2",
	"address line 3",
	"address line 4",
	"address line 5",
	"address line 6",
	"postcode",
}

var optionalAddressColumns = []string{
	"address line 3",
	"address line 4",
	"address line 5",
	"address line 6",
}

func keySet(headers []string) map[string]bool {
	set := make(map[string]bool, len(headers))
	for _, header := range headers {
		set[columns.MakeKey(header)] = true
	}
	return set
}

func letterColumnKeys() map[string]bool {
	return keySet(letterAddressColumns)
}

func isOptionalAddressColumn(column string) bool {
	return keySet(optionalAddressColumns)[columns.MakeKey(column)]
}

// RecipientCSV parses and validates an uploaded recipient file. An instance
// is scoped to one validation request: rows are parsed once and cached, all
// query methods reuse the cache. It is not safe for concurrent use.
type RecipientCSV struct {
	fileData            string
	templateType        string
	userLanguage        string
	placeholders        []string
	safelist            []string
	template            *template.SMSMessage
	maxRows             int
	maxErrorsShown      int
	maxInitialRowsShown int
	remainingMessages   int
	internationalSMS    bool

	rows        []*Row
	rowsParsed  bool
	headers     []string
	headersRead bool
}

// Option configures a RecipientCSV.
type Option func(*RecipientCSV)

// WithPlaceholders names the personalisation columns the bound template
// expects, beyond the recipient columns.
func WithPlaceholders(placeholders []string) Option {
	return func(r *RecipientCSV) { r.placeholders = placeholders }
}

// WithSafelist restricts recipients to the given list. Matching is
// format-insensitive. An empty list means no restriction.
func WithSafelist(safelist []string) Option {
	return func(r *RecipientCSV) { r.safelist = safelist }
}

// WithSMSTemplate binds the SMS template the file will be sent with,
// enabling per-row combined-length checks.
func WithSMSTemplate(t *template.SMSMessage) Option {
	return func(r *RecipientCSV) { r.template = t }
}

// WithMaxRows overrides the row ceiling.
func WithMaxRows(n int) Option {
	return func(r *RecipientCSV) { r.maxRows = n }
}

// WithMaxErrorsShown bounds the error views.
func WithMaxErrorsShown(n int) Option {
	return func(r *RecipientCSV) { r.maxErrorsShown = n }
}

// WithMaxInitialRowsShown bounds the initial display views.
func WithMaxInitialRowsShown(n int) Option {
	return func(r *RecipientCSV) { r.maxInitialRowsShown = n }
}

// WithRemainingMessages sets how many messages the sending service may still
// send; more rows than that is an error.
func WithRemainingMessages(n int) Option {
	return func(r *RecipientCSV) { r.remainingMessages = n }
}

// WithInternationalSMS accepts phone numbers outside the local region.
func WithInternationalSMS() Option {
	return func(r *RecipientCSV) { r.internationalSMS = true }
}

// WithUserLanguage sets the uploader's display language, which selects the
// required recipient headers. Supported: "en" (default) and "fr".
func WithUserLanguage(lang string) Option {
	return func(r *RecipientCSV) {
		if _, ok := firstColumnHeadings[lang]; ok {
			r.userLanguage = lang
		}
	}
}

// New builds a RecipientCSV over raw file data for the given channel
// ("sms", "email" or "letter"). Parsing is lazy, nothing is read until rows
// or headers are first queried.
func New(fileData, templateType string, opts ...Option) *RecipientCSV {
	r := &RecipientCSV{
		fileData:            stripWhitespace(fileData, ","),
		templateType:        templateType,
		userLanguage:        "en",
		maxRows:             DefaultMaxRows,
		maxErrorsShown:      DefaultMaxErrorsShown,
		maxInitialRowsShown: DefaultMaxInitialRowsShown,
		remainingMessages:   math.MaxInt,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetSafelist replaces the safelist without re-parsing rows.
func (r *RecipientCSV) SetSafelist(safelist []string) {
	r.safelist = safelist
}

// SetPlaceholders replaces the expected placeholder columns. Header
// comparisons pick up the new set immediately; rows already materialized
// keep the cell errors computed with the previous set and are never
// re-parsed.
func (r *RecipientCSV) SetPlaceholders(placeholders []string) {
	r.placeholders = placeholders
}

// recipientColumnHeaders are the headers required for the uploader's
// language and channel.
func (r *RecipientCSV) recipientColumnHeaders() []string {
	return firstColumnHeadings[r.userLanguage][r.templateType]
}

// recipientLangCheckColumns are the recipient headers accepted in either
// language when inspecting what a file actually contains.
func (r *RecipientCSV) recipientLangCheckColumns() []string {
	if r.templateType == "email" {
		return bothLanguageHeadings["email"]
	}
	return bothLanguageHeadings["sms"]
}

// allPlaceholders is the user-supplied placeholder list plus the recipient
// headers, which always count as expected columns.
func (r *RecipientCSV) allPlaceholders() []string {
	return append(append([]string{}, r.placeholders...), r.recipientColumnHeaders()...)
}

func (r *RecipientCSV) placeholderKeys() map[string]bool {
	return keySet(r.allPlaceholders())
}

func (r *RecipientCSV) recipientColumnKeys() map[string]bool {
	return keySet(r.recipientColumnHeaders())
}

func (r *RecipientCSV) reader() *csv.Reader {
	reader := csv.NewReader(strings.NewReader(strings.TrimSpace(r.fileData)))
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader
}

// rawColumnHeaders returns the first row of the file verbatim, duplicates
// included.
func (r *RecipientCSV) rawColumnHeaders() []string {
	if !r.headersRead {
		r.headersRead = true
		record, err := r.reader().Read()
		if err == nil {
			r.headers = record
		}
	}
	return r.headers
}

// ColumnHeaders returns the distinct headers in file order.
func (r *RecipientCSV) ColumnHeaders() []string {
	seen := map[string]bool{}
	var out []string
	for _, header := range r.rawColumnHeaders() {
		if seen[header] {
			continue
		}
		seen[header] = true
		out = append(out, header)
	}
	return out
}

func (r *RecipientCSV) columnHeaderKeys() map[string]bool {
	return keySet(r.rawColumnHeaders())
}

// MissingColumnHeaders lists expected columns the file does not carry, in
// placeholder order. Recipient columns are satisfied by either language's
// header.
func (r *RecipientCSV) MissingColumnHeaders() []string {
	headerKeys := r.columnHeaderKeys()
	langCheck := keySet(r.recipientLangCheckColumns())

	var missing []string
	for _, placeholder := range r.allPlaceholders() {
		if langCheck[columns.MakeKey(placeholder)] {
			if !r.HasRecipientColumns() {
				missing = append(missing, placeholder)
			}
			continue
		}
		if !headerKeys[columns.MakeKey(placeholder)] && !r.isOptionalColumn(placeholder) {
			missing = append(missing, placeholder)
		}
	}
	return missing
}

func (r *RecipientCSV) isOptionalColumn(key string) bool {
	return r.templateType == "letter" && isOptionalAddressColumn(key)
}

// DuplicateRecipientColumnHeaders lists recipient headers that appear more
// than once, in file order without repeats.
func (r *RecipientCSV) DuplicateRecipientColumnHeaders() []string {
	recipientKeys := r.recipientColumnKeys()

	counts := map[string]int{}
	for _, header := range r.rawColumnHeaders() {
		if key := columns.MakeKey(header); recipientKeys[key] {
			counts[key]++
		}
	}

	seen := map[string]bool{}
	var duplicates []string
	for _, header := range r.rawColumnHeaders() {
		if counts[columns.MakeKey(header)] > 1 && !seen[header] {
			seen[header] = true
			duplicates = append(duplicates, header)
		}
	}
	return duplicates
}

// HasRecipientColumns reports whether the file carries a recipient header in
// either language.
func (r *RecipientCSV) HasRecipientColumns() bool {
	headerKeys := r.columnHeaderKeys()
	for _, column := range r.recipientLangCheckColumns() {
		if headerKeys[columns.MakeKey(column)] {
			return true
		}
	}
	return false
}

// Rows parses and validates the file once and returns every data row in
// order. Entries past the row ceiling are nil, preserving positional
// indexing for capacity checks without materializing their content.
func (r *RecipientCSV) Rows() []*Row {
	if r.rowsParsed {
		return r.rows
	}
	r.rowsParsed = true

	headers := r.rawColumnHeaders()
	langCheck := keySet(r.recipientLangCheckColumns())
	placeholderKeys := r.placeholderKeys()
	recipientKeys := r.recipientColumnKeys()
	duplicates := len(r.DuplicateRecipientColumnHeaders()) > 0

	reader := r.reader()
	if _, err := reader.Read(); err != nil {
		return r.rows
	}

	for index := 0; ; index++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		if index >= r.maxRows {
			r.rows = append(r.rows, nil)
			continue
		}

		data := columns.New[any]()
		for i, header := range headers {
			if i >= len(record) {
				break
			}
			var value any
			if cell := stripAndRemoveObscureWhitespace(record[i]); cell != "" {
				value = cell
			}
			if langCheck[columns.MakeKey(header)] {
				data.Set(header, value)
			} else {
				insertOrAppend(data, header, value)
			}
		}
		if len(record) > len(headers) {
			extra := make([]any, 0, len(record)-len(headers))
			for _, cell := range record[len(headers):] {
				extra = append(extra, cell)
			}
			data.Set("", extra)
		} else if len(record) < len(headers) {
			for _, header := range headers[len(record):] {
				insertOrAppend(data, header, nil)
			}
		}

		errorFn := func(key string, value any) string {
			return r.errorForField(key, value, duplicates, recipientKeys, placeholderKeys)
		}
		r.rows = append(r.rows, newRow(
			index,
			data,
			errorFn,
			placeholderKeys,
			r.templateType,
			r.messageTooLong(data),
		))
	}
	return r.rows
}

// messageTooLong renders the bound SMS template with this row's values and
// checks the platform limit. Only an approximation: content the template
// itself adds around long placeholders is caught per cell instead.
func (r *RecipientCSV) messageTooLong(data *columns.Columns[any]) bool {
	if r.template == nil {
		return false
	}
	values := map[string]any{}
	for _, key := range data.Keys() {
		value, _ := data.Get(key)
		values[key] = value
	}
	if err := r.template.SetValues(values); err != nil {
		return false
	}
	return r.template.IsMessageTooLong()
}

// insertOrAppend stores value under key, collecting repeats into a list so
// several columns can share a header.
func insertOrAppend(data *columns.Columns[any], key string, value any) {
	existing, ok := data.Get(key)
	if !ok || existing == nil {
		data.Set(key, value)
		return
	}
	if list, isList := existing.([]any); isList {
		data.Set(key, append(list, value))
		return
	}
	data.Set(key, []any{existing, value})
}

// errorForField validates one cell and returns the display message, empty
// when the cell is fine. Problems never abort parsing.
func (r *RecipientCSV) errorForField(key string, value any, duplicateRecipientHeaders bool, recipientKeys, placeholderKeys map[string]bool) string {
	if r.isOptionalColumn(key) {
		return ""
	}

	formattedKey := columns.MakeKey(key)

	if recipientKeys[formattedKey] {
		if valueMissing(value) {
			if duplicateRecipientHeaders {
				// Ambiguous columns take priority over missing-data noise.
				return ""
			}
			return MissingFieldError
		}
		if recipient, isString := value.(string); isString {
			if _, err := ValidateRecipient(recipient, r.templateType, key, r.internationalSMS); err != nil {
				return err.Error()
			}
		}
	}

	if !placeholderKeys[formattedKey] {
		return ""
	}
	if value == nil || value == "" {
		return MissingFieldError
	}

	if r.template != nil && r.templateType == "sms" {
		if content, isString := value.(string); isString {
			if err := validateSMSMessageLength(content, r.template.Content); err != nil {
				return err.Error()
			}
		}
	}
	return ""
}

// valueMissing reports whether a cell holds no usable single value. Lists
// mean the file had several columns under one recipient header, which is
// ambiguous rather than usable.
func valueMissing(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return true
	}
	return false
}

// Len is the number of data rows in the file, including rows past the
// ceiling.
func (r *RecipientCSV) Len() int {
	return len(r.Rows())
}

// TooManyRows reports whether the file exceeds the row ceiling.
func (r *RecipientCSV) TooManyRows() bool {
	return r.Len() > r.maxRows
}

// MoreRowsThanCanSend reports whether the file exceeds the sending service's
// remaining message budget.
func (r *RecipientCSV) MoreRowsThanCanSend() bool {
	return r.Len() > r.remainingMessages
}

// HasErrors reports whether anything in the file prevents sending. Cheap
// structural checks run before any per-row scan.
func (r *RecipientCSV) HasErrors() bool {
	if len(r.MissingColumnHeaders()) > 0 {
		return true
	}
	if len(r.DuplicateRecipientColumnHeaders()) > 0 {
		return true
	}
	if r.MoreRowsThanCanSend() {
		return true
	}
	if r.TooManyRows() {
		return true
	}
	if !r.allowedToSendTo() {
		return true
	}
	for range r.RowsWithErrors() {
		return true
	}
	return false
}

// allowedToSendTo checks every recipient against the safelist. Letters are
// exempt, an empty safelist means no restriction.
func (r *RecipientCSV) allowedToSendTo() bool {
	if r.templateType == "letter" || len(r.safelist) == 0 {
		return true
	}
	allowed := make(map[string]bool, len(r.safelist))
	for _, entry := range r.safelist {
		allowed[FormatRecipient(entry)] = true
	}
	for _, row := range r.Rows() {
		if row == nil {
			continue
		}
		recipient, _ := row.Recipient().(string)
		if !allowed[FormatRecipient(recipient)] {
			return false
		}
	}
	return true
}

func (r *RecipientCSV) filterRows(keep func(*Row) bool, limit int) iter.Seq[*Row] {
	return func(yield func(*Row) bool) {
		n := 0
		for _, row := range r.Rows() {
			if limit >= 0 && n >= limit {
				return
			}
			if row == nil || !keep(row) {
				continue
			}
			n++
			if !yield(row) {
				return
			}
		}
	}
}

// RowsWithErrors iterates rows with any validation problem.
func (r *RecipientCSV) RowsWithErrors() iter.Seq[*Row] {
	return r.filterRows((*Row).HasError, -1)
}

// RowsWithBadRecipients iterates rows whose recipient is undeliverable.
func (r *RecipientCSV) RowsWithBadRecipients() iter.Seq[*Row] {
	return r.filterRows((*Row).HasBadRecipient, -1)
}

// RowsWithMissingData iterates rows with empty required cells.
func (r *RecipientCSV) RowsWithMissingData() iter.Seq[*Row] {
	return r.filterRows((*Row).HasMissingData, -1)
}

// InitialRows iterates the first rows of the file for display.
func (r *RecipientCSV) InitialRows() iter.Seq[*Row] {
	return r.filterRows(func(*Row) bool { return true }, r.maxInitialRowsShown)
}

// InitialRowsWithErrors iterates the first problem rows, bounded so an
// error-reporting UI never renders an unbounded list.
func (r *RecipientCSV) InitialRowsWithErrors() iter.Seq[*Row] {
	return r.filterRows((*Row).HasError, r.maxErrorsShown)
}

// DisplayedRows picks the view an upload UI should show: problems when there
// are any and the headers are usable, the first rows otherwise.
func (r *RecipientCSV) DisplayedRows() iter.Seq[*Row] {
	hasRowErrors := false
	for range r.RowsWithErrors() {
		hasRowErrors = true
		break
	}
	if hasRowErrors && len(r.MissingColumnHeaders()) == 0 {
		return r.InitialRowsWithErrors()
	}
	return r.InitialRows()
}

// SMSFragmentCount totals the SMS fragments sending the whole file would
// use. Without a bound template every row counts as one fragment.
func (r *RecipientCSV) SMSFragmentCount() (int, error) {
	if r.templateType != "sms" {
		return 0, nil
	}
	if r.template == nil {
		return r.Len(), nil
	}
	total := 0
	for _, row := range r.Rows() {
		if row == nil {
			continue
		}
		personalisation := map[string]any{}
		p := row.Personalisation()
		for _, key := range p.Keys() {
			value, _ := p.Get(key)
			personalisation[key] = value
		}
		msg, err := template.NewSMSMessage(map[string]any{
			"content":       r.template.Content,
			"template_type": "sms",
		}, personalisation)
		if err != nil {
			return 0, err
		}
		fragments, err := msg.FragmentCount()
		if err != nil {
			return 0, err
		}
		total += fragments
	}
	return total, nil
}
