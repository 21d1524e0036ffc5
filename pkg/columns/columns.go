package columns

import (
	"strings"
	"sync"
)

// keyCache memoizes MakeKey results. The function runs once per cell per row
// on files of up to 50k rows, but the set of distinct header and placeholder
// names stays tiny, so an unbounded map is fine.
var keyCache sync.Map // string -> string

// MakeKey canonicalizes a column or placeholder name into a comparison key:
// lower-cased with spaces, underscores and hyphens removed. "Phone Number",
// "phone_number" and "PHONENUMBER" all produce the same key.
func MakeKey(name string) string {
	if cached, ok := keyCache.Load(name); ok {
		return cached.(string)
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch r {
		case ' ', '_', '-':
		default:
			b.WriteRune(r)
		}
	}
	key := b.String()
	keyCache.Store(name, key)
	return key
}

// Columns is a mapping with key-normalized lookups: every read and write goes
// through MakeKey, so callers can use any casing or spacing variant of a
// column name. Insertion order of distinct keys is preserved.
//
// It deliberately wraps a map rather than embedding one so that no lookup can
// bypass normalization.
type Columns[V any] struct {
	keys  []string
	items map[string]V
}

// New returns an empty Columns.
func New[V any]() *Columns[V] {
	return &Columns[V]{items: make(map[string]V)}
}

// FromMap builds a Columns from an ordinary map. Map iteration order is not
// deterministic; when ordering matters, build with Set instead.
func FromMap[V any](m map[string]V) *Columns[V] {
	c := New[V]()
	for k, v := range m {
		c.Set(k, v)
	}
	return c
}

// FromKeys builds a Columns mapping each key's normalized form to the key as
// originally written.
func FromKeys(keys []string) *Columns[string] {
	c := New[string]()
	for _, k := range keys {
		c.Set(k, k)
	}
	return c
}

// Set stores value under the normalized form of key, replacing any previous
// value for an equivalent key.
func (c *Columns[V]) Set(key string, value V) {
	normalized := MakeKey(key)
	if _, exists := c.items[normalized]; !exists {
		c.keys = append(c.keys, normalized)
	}
	c.items[normalized] = value
}

// Get returns the value stored under any variant of key.
func (c *Columns[V]) Get(key string) (V, bool) {
	v, ok := c.items[MakeKey(key)]
	return v, ok
}

// GetOr returns the value for key, or fallback when absent.
func (c *Columns[V]) GetOr(key string, fallback V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	return fallback
}

// Contains reports whether any variant of key has been set.
func (c *Columns[V]) Contains(key string) bool {
	_, ok := c.items[MakeKey(key)]
	return ok
}

// Keys returns the normalized keys in first-insertion order.
func (c *Columns[V]) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of distinct normalized keys.
func (c *Columns[V]) Len() int {
	return len(c.items)
}

// AsMapWithKeys projects the requested keys into a plain map keyed by their
// normalized form. Absent keys map to the zero value.
func (c *Columns[V]) AsMapWithKeys(keys []string) map[string]V {
	out := make(map[string]V, len(keys))
	for _, k := range keys {
		v, _ := c.Get(k)
		out[MakeKey(k)] = v
	}
	return out
}
