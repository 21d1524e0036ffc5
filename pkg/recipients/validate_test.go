package recipients_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/recipients"
)

func TestValidatePhoneNumber(t *testing.T) {
	t.Parallel()

	t.Run("valid local numbers", func(t *testing.T) {
		t.Parallel()

		tests := []string{
			"+16502532222",
			"6502532222",
			"(650) 253-2222",
			"1 650 253 2222",
		}
		for _, number := range tests {
			got, err := recipients.ValidatePhoneNumber(number, false)
			require.NoError(t, err, number)
			assert.Equal(t, "+16502532222", got, number)
		}
	})

	t.Run("semicolon rejected", func(t *testing.T) {
		t.Parallel()

		_, err := recipients.ValidatePhoneNumber("+16502532222;+16502532223", false)
		require.ErrorIs(t, err, recipients.ErrInvalidPhoneNumber)
		assert.EqualError(t, err, "Not a valid number")
	})

	t.Run("garbage rejected", func(t *testing.T) {
		t.Parallel()

		_, err := recipients.ValidatePhoneNumber("notaphone", false)
		require.ErrorIs(t, err, recipients.ErrInvalidPhoneNumber)
		assert.EqualError(t, err, "Not a valid local number")
	})

	t.Run("international number rejected without the flag", func(t *testing.T) {
		t.Parallel()

		_, err := recipients.ValidatePhoneNumber("+447911123456", false)
		require.ErrorIs(t, err, recipients.ErrInvalidPhoneNumber)
	})

	t.Run("international number accepted with the flag", func(t *testing.T) {
		t.Parallel()

		got, err := recipients.ValidatePhoneNumber("+447911123456", true)
		require.NoError(t, err)
		assert.Equal(t, "+447911123456", got)
	})

	t.Run("invalid international number", func(t *testing.T) {
		t.Parallel()

		_, err := recipients.ValidatePhoneNumber("+4400", true)
		require.ErrorIs(t, err, recipients.ErrInvalidPhoneNumber)
	})
}

func TestValidateEmailAddress(t *testing.T) {
	t.Parallel()

	t.Run("valid addresses", func(t *testing.T) {
		t.Parallel()

		tests := []string{
			"email@domain.com",
			"email@domain.COM",
			"firstname.o'lastname@domain.com",
			"email@buller.ca",
			"12345@domain.com",
			"email@dom-ain.com",
		}
		for _, email := range tests {
			got, err := recipients.ValidateEmailAddress(email)
			require.NoError(t, err, email)
			assert.Equal(t, email, got, email)
		}
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		got, err := recipients.ValidateEmailAddress(" email@domain.com​ ")
		require.NoError(t, err)
		assert.Equal(t, "email@domain.com", got)
	})

	t.Run("internationalized domain", func(t *testing.T) {
		t.Parallel()

		got, err := recipients.ValidateEmailAddress("info@münchen.de")
		require.NoError(t, err)
		assert.Equal(t, "info@münchen.de", got)
	})

	t.Run("invalid addresses", func(t *testing.T) {
		t.Parallel()

		tests := []string{
			"",
			"email",
			"email@",
			"@domain.com",
			"email@domain",
			"email@.domain.com",
			"email@domain..com",
			"email..twodots@domain.com",
			"email@dom ain.com",
			`email@"quoted".com`,
			"email@domain.-com",
		}
		for _, email := range tests {
			_, err := recipients.ValidateEmailAddress(email)
			require.ErrorIs(t, err, recipients.ErrInvalidEmailAddress, email)
			assert.EqualError(t, err, "Not a valid email address", email)
		}
	})
}

func TestFormatEmailAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "email@domain.com", recipients.FormatEmailAddress(" Email@Domain.COM "))
}

func TestValidateAddressComponent(t *testing.T) {
	t.Parallel()

	t.Run("mandatory line present", func(t *testing.T) {
		t.Parallel()

		got, err := recipients.ValidateAddressComponent("10 Main Street", "address line 1")
		require.NoError(t, err)
		assert.Equal(t, "10 Main Street", got)
	})

	t.Run("mandatory line empty", func(t *testing.T) {
		t.Parallel()

		_, err := recipients.ValidateAddressComponent("", "postcode")
		require.ErrorIs(t, err, recipients.ErrInvalidAddress)
		assert.EqualError(t, err, "Missing")
	})

	t.Run("optional lines may be empty", func(t *testing.T) {
		t.Parallel()

		for _, column := range []string{"address line 3", "address line 4", "address line 5", "address line 6"} {
			_, err := recipients.ValidateAddressComponent("", column)
			require.NoError(t, err, column)
		}
	})

	t.Run("unknown column is a caller error", func(t *testing.T) {
		t.Parallel()

		_, err := recipients.ValidateAddressComponent("x", "favourite colour")
		require.ErrorIs(t, err, recipients.ErrUnknownAddressColumn)
	})
}

func TestFormatRecipient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "phone to e164", input: "+1 (650) 253-2222", want: "+16502532222"},
		{name: "bare digits to e164", input: "6502532222", want: "+16502532222"},
		{name: "email lowercased", input: " Email@Domain.COM", want: "email@domain.com"},
		{name: "anything else verbatim", input: "not a recipient", want: "not a recipient"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, recipients.FormatRecipient(tt.input))
		})
	}
}
