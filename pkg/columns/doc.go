// Package columns canonicalizes column and placeholder names so that lookups
// ignore casing, spacing and punctuation differences.
//
// MakeKey produces the comparison key used everywhere a header or placeholder
// name is matched:
//
//	columns.MakeKey("Phone Number")  // "phonenumber"
//	columns.MakeKey("phone_number")  // "phonenumber"
//
// Columns is a mapping wrapper that applies MakeKey on every access, used for
// CSV rows and personalisation values:
//
//	c := columns.FromMap(map[string]any{"Email Address": "test@example.com"})
//	v, ok := c.Get("email_address")  // "test@example.com", true
package columns
