package recipients

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/dmitrymomot/notifykit/pkg/charset"
	"github.com/dmitrymomot/notifykit/pkg/columns"
	"github.com/dmitrymomot/notifykit/pkg/template"
)

// Phone numbers are validated against the North American numbering plan
// unless international delivery is enabled.
const (
	phoneRegion      = "US"
	phoneCountryCode = 1
)

// Local-part characters follow the wtforms validator, tightened to avoid
// characters the delivery provider rejects (double quotes, semicolons).
var (
	emailPattern = regexp.MustCompile("^[a-zA-ZÀ-ÿ0-9.!#$%&'*+/=?^_`{|}~\\-]+@([^.@][^@\\s]+)$")
	hostnamePart = regexp.MustCompile(`(?i)^(xn-|[a-z0-9]+)(-[a-z0-9]+)*$`)
	tldPart      = regexp.MustCompile(`(?i)^([a-z]{2,63}|xn--([a-z0-9]+-)*[a-z0-9]+)$`)
)

// ValidatePhoneNumber normalizes a phone number to E.164 or reports why it
// cannot be delivered to. Without the international flag only numbers in the
// local region are accepted.
func ValidatePhoneNumber(number string, international bool) (string, error) {
	if strings.Contains(number, ";") {
		return "", invalidPhone("Not a valid number")
	}

	if local, err := phonenumbers.Parse(number, phoneRegion); err == nil {
		if phonenumbers.IsValidNumber(local) && local.GetCountryCode() == phoneCountryCode {
			return phonenumbers.Format(local, phonenumbers.E164), nil
		}
	}

	if !international {
		return "", invalidPhone("Not a valid local number")
	}

	parsed, err := phonenumbers.Parse(number, "")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return "", invalidPhone("Not a valid international number")
	}

	formatted := phonenumbers.Format(parsed, phonenumbers.E164)
	if len(formatted) < 8 {
		return "", invalidPhone("Not enough digits")
	}
	if parsed.GetCountryCode() == 0 {
		return "", invalidPhone("Not a valid country prefix")
	}
	return formatted, nil
}

// ValidateEmailAddress checks an address against the syntax accepted by the
// delivery provider and returns it with surrounding whitespace removed.
func ValidateEmailAddress(email string) (string, error) {
	email = stripAndRemoveObscureWhitespace(email)

	match := emailPattern.FindStringSubmatch(email)
	if match == nil {
		return "", invalidEmail()
	}
	if len(email) > 320 {
		return "", invalidEmail()
	}
	if strings.Contains(email, "..") {
		return "", invalidEmail()
	}

	hostname, err := idna.Lookup.ToASCII(match[1])
	if err != nil {
		return "", invalidEmail()
	}

	parts := strings.Split(hostname, ".")
	if len(hostname) > 253 || len(parts) < 2 {
		return "", invalidEmail()
	}
	for _, part := range parts {
		if part == "" || len(part) > 63 || !hostnamePart.MatchString(part) {
			return "", invalidEmail()
		}
	}
	if !tldPart.MatchString(parts[len(parts)-1]) {
		return "", invalidEmail()
	}
	return email, nil
}

// FormatEmailAddress lowercases and trims an address for comparisons.
func FormatEmailAddress(email string) string {
	return stripAndRemoveObscureWhitespace(strings.ToLower(email))
}

// ValidateAddressComponent checks one postal address cell: mandatory lines
// and the postcode must be non-empty, lines 3 to 6 may be blank.
func ValidateAddressComponent(value, column string) (string, error) {
	if isOptionalAddressColumn(column) {
		return value, nil
	}
	if !letterColumnKeys()[columns.MakeKey(column)] {
		return "", fmt.Errorf("%w: %s", ErrUnknownAddressColumn, column)
	}
	if strings.TrimSpace(value) == "" {
		return "", invalidAddress(MissingFieldError)
	}
	return value, nil
}

// ValidateRecipient dispatches to the channel validator for the template
// type and returns the normalized recipient.
func ValidateRecipient(value, templateType, column string, internationalSMS bool) (string, error) {
	switch templateType {
	case "email":
		return ValidateEmailAddress(value)
	case "sms":
		return ValidatePhoneNumber(value, internationalSMS)
	case "letter":
		return ValidateAddressComponent(value, column)
	}
	return "", fmt.Errorf("recipients: no validator for template type %q", templateType)
}

// validateSMSMessageLength rejects personalisation that pushes the combined
// message past the platform SMS limit. Characters outside the GSM set count
// double, they force the smaller Unicode fragments on delivery.
func validateSMSMessageLength(variableContent, templateContent string) error {
	variableLength := 0
	for _, r := range variableContent {
		if charset.SMS.Allows(r) {
			variableLength++
		} else {
			variableLength += 2
		}
	}
	if variableLength+len(templateContent) > template.SMSCharCountLimit {
		return &validationError{
			sentinel: ErrMessageTooLong,
			reason: fmt.Sprintf(
				"Maximum %d characters. Some messages may be too long due to custom content.",
				template.SMSCharCountLimit,
			),
		}
	}
	return nil
}

// FormatRecipient normalizes a recipient for safelist comparison: phone
// numbers to E.164, email addresses lowercased, everything else verbatim.
func FormatRecipient(recipient string) string {
	if phone, err := ValidatePhoneNumber(recipient, false); err == nil {
		return phone
	}
	if email, err := ValidateEmailAddress(recipient); err == nil {
		return FormatEmailAddress(email)
	}
	return recipient
}

// obscureWhitespace lists invisible characters stripped from uploaded cells:
// Mongolian vowel separator, zero width space, zero width non-joiner, zero
// width joiner, word joiner, zero width non-breaking space.
const obscureWhitespace = "\u180E\u200B\u200C\u200D\u2060\uFEFF"

func stripAndRemoveObscureWhitespace(value string) string {
	for _, r := range obscureWhitespace {
		value = strings.ReplaceAll(value, string(r), "")
	}
	return strings.TrimSpace(value)
}

func stripWhitespace(value, extra string) string {
	return strings.Trim(value, " \t\n\r\v\f"+obscureWhitespace+extra)
}
