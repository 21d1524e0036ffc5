package recipients

import "errors"

var (
	// ErrInvalidPhoneNumber reports a phone number that cannot be delivered to.
	ErrInvalidPhoneNumber = errors.New("recipients: invalid phone number")
	// ErrInvalidEmailAddress reports an email address that fails syntax or
	// domain validation.
	ErrInvalidEmailAddress = errors.New("recipients: invalid email address")
	// ErrInvalidAddress reports a postal address with a missing mandatory line.
	ErrInvalidAddress = errors.New("recipients: invalid address")
	// ErrUnknownAddressColumn reports an address validation call against a
	// column that is not a letter address column. Caller error.
	ErrUnknownAddressColumn = errors.New("recipients: unknown address column")
	// ErrMessageTooLong reports personalisation that pushes an SMS past the
	// platform character limit.
	ErrMessageTooLong = errors.New("recipients: message too long")
)

// validationError pairs a sentinel with the human-readable reason shown to
// the person who uploaded the file. Error() returns only the reason, that
// exact text ends up on Cells and in the UI.
type validationError struct {
	sentinel error
	reason   string
}

func (e *validationError) Error() string { return e.reason }

func (e *validationError) Unwrap() error { return e.sentinel }

func invalidPhone(reason string) error {
	return &validationError{sentinel: ErrInvalidPhoneNumber, reason: reason}
}

func invalidEmail() error {
	return &validationError{sentinel: ErrInvalidEmailAddress, reason: "Not a valid email address"}
}

func invalidAddress(reason string) error {
	return &validationError{sentinel: ErrInvalidAddress, reason: reason}
}
