package odata

import "strings"

// Header is a multi-valued header mapping. Names are matched
// case-insensitively, keep the spelling of their first insertion, and are
// enumerated in insertion order. Values keep their arrival order.
type Header struct {
	names  []string
	values map[string][]string
}

// NewHeader returns an empty Header.
func NewHeader() *Header {
	return &Header{values: make(map[string][]string)}
}

// Add appends values under name.
func (h *Header) Add(name string, values ...string) {
	if h.values == nil {
		h.values = make(map[string][]string)
	}

	key := strings.ToLower(name)
	existing, ok := h.values[key]
	if !ok {
		h.names = append(h.names, name)
		existing = make([]string, 0, len(values))
	}
	h.values[key] = append(existing, values...)
}

// Values returns a copy of every value stored under name, or nil.
func (h *Header) Values(name string) []string {
	vs, ok := h.values[strings.ToLower(name)]
	if !ok {
		return nil
	}
	out := make([]string, len(vs))
	copy(out, vs)
	return out
}

// Get returns the first value stored under name and whether the name exists.
func (h *Header) Get(name string) (string, bool) {
	vs, ok := h.values[strings.ToLower(name)]
	if !ok || len(vs) == 0 {
		return "", ok
	}
	return vs[0], true
}

// Names returns the header names in insertion order.
func (h *Header) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Len reports the number of distinct header names.
func (h *Header) Len() int {
	return len(h.names)
}
