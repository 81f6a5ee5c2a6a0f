// Package lookup holds the string-to-string dictionaries consulted while
// mapping spans.
//
// A Dictionary is immutable once built and safe for concurrent reads. Code
// that needs to swap dictionaries at runtime goes through a Holder, which
// installs fully built dictionaries atomically.
package lookup

import (
	"sync/atomic"
)

// Table is the read contract the mapping engine depends on.
type Table interface {
	// Get returns the value mapped to key.
	Get(key string) (string, bool)
}

// Dictionary is an immutable string-to-string table.
type Dictionary struct {
	entries map[string]string
}

// NewDictionary builds a dictionary from a copy of entries.
func NewDictionary(entries map[string]string) *Dictionary {
	cp := make(map[string]string, len(entries))
	for k, v := range entries {
		cp[k] = v
	}

	return &Dictionary{entries: cp}
}

// Get implements Table.
func (d *Dictionary) Get(key string) (string, bool) {
	v, ok := d.entries[key]
	return v, ok
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Holder is a Table whose dictionary can be replaced while readers are
// active. The zero value is an empty, unloaded holder.
type Holder struct {
	current atomic.Pointer[Dictionary]
}

// NewHolder creates a holder serving d (which may be nil).
func NewHolder(d *Dictionary) *Holder {
	h := &Holder{}
	if d != nil {
		h.Store(d)
	}

	return h
}

// Store installs d for all subsequent lookups.
func (h *Holder) Store(d *Dictionary) {
	h.current.Store(d)
}

// Load returns the live dictionary, or nil before the first Store.
func (h *Holder) Load() *Dictionary {
	return h.current.Load()
}

// Loaded reports whether a dictionary has been stored.
func (h *Holder) Loaded() bool {
	return h.current.Load() != nil
}

// Get implements Table. An unloaded holder misses every key.
func (h *Holder) Get(key string) (string, bool) {
	d := h.current.Load()
	if d == nil {
		return "", false
	}

	return d.Get(key)
}
