// Package recipients parses and validates uploaded recipient CSV files and
// normalizes phone numbers and email addresses.
//
// A RecipientCSV is scoped to one validation request: it parses the file
// once, validates every cell, and answers aggregate questions about what it
// found. Validation never fails fast; every problem in the file is captured
// as a string message on its Cell so uploaders can fix a whole file in one
// attempt.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/notifykit/pkg/recipients"
//
//	csv := recipients.New(fileData, "sms",
//		recipients.WithPlaceholders([]string{"name"}),
//	)
//	if csv.HasErrors() {
//		for row := range csv.InitialRowsWithErrors() {
//			// report row.Index and its cell errors
//		}
//		return
//	}
//	for _, row := range csv.Rows() {
//		send(row.Recipient(), row.Personalisation())
//	}
//
// # Channels
//
// The channel ("sms", "email" or "letter") selects the required recipient
// headers: "phone number", "email address", or the letter address lines and
// postcode (lines 3 to 6 optional). French headers ("numéro de téléphone",
// "adresse courriel") are accepted wherever a recipient value is looked up.
//
// # Validators
//
// ValidatePhoneNumber, ValidateEmailAddress and ValidateAddressComponent are
// also usable standalone. They return the normalized value or an error whose
// message is the exact text shown to uploaders; match the error class with
// errors.Is against ErrInvalidPhoneNumber, ErrInvalidEmailAddress and
// ErrInvalidAddress.
package recipients
