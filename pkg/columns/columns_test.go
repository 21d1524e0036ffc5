package columns_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/columns"
)

func TestMakeKey(t *testing.T) {
	t.Parallel()

	variants := []string{
		"Phone Number",
		"phone_number",
		"PHONE-NUMBER",
		"phone  number",
		"phonenumber",
	}
	for _, v := range variants {
		assert.Equal(t, "phonenumber", columns.MakeKey(v), v)
	}

	// Idempotent: keying a key changes nothing.
	assert.Equal(t, columns.MakeKey("phonenumber"), columns.MakeKey(columns.MakeKey("Phone Number")))

	assert.Equal(t, "", columns.MakeKey(""))
	assert.Equal(t, "adressecourriel", columns.MakeKey("Adresse Courriel"))
}

func TestColumns_NormalizedAccess(t *testing.T) {
	t.Parallel()

	c := columns.FromMap(map[string]any{"Email Address": "test@example.com"})

	v, ok := c.Get("email_address")
	require.True(t, ok)
	assert.Equal(t, "test@example.com", v)

	assert.True(t, c.Contains("EMAIL-ADDRESS"))
	assert.False(t, c.Contains("phone number"))

	_, ok = c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "fallback", c.GetOr("missing", "fallback"))
}

func TestColumns_SetReplacesEquivalentKeys(t *testing.T) {
	t.Parallel()

	c := columns.New[int]()
	c.Set("First Name", 1)
	c.Set("first_name", 2)
	c.Set("last name", 3)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.GetOr("firstname", 0))
	assert.Equal(t, []string{"firstname", "lastname"}, c.Keys())
}

func TestColumns_FromKeys(t *testing.T) {
	t.Parallel()

	c := columns.FromKeys([]string{"address line 1", "Postcode"})
	assert.Equal(t, "address line 1", c.GetOr("ADDRESS_LINE_1", ""))
	assert.Equal(t, "Postcode", c.GetOr("postcode", ""))
}

func TestColumns_AsMapWithKeys(t *testing.T) {
	t.Parallel()

	c := columns.FromMap(map[string]string{"name": "Alice", "extra": "x"})
	got := c.AsMapWithKeys([]string{"Name", "missing"})
	assert.Equal(t, map[string]string{"name": "Alice", "missing": ""}, got)
}
