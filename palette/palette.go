// Package palette maps arbitrary colors onto a fixed, categorized set of
// materials.
package palette

import (
	"github.com/unixpickle/essentials"

	"github.com/voxelsplace/voxexport/errs"
)

// Category ranks how visually clean a material is. Its ordinal is the
// penalty added to every distance computed against the material.
type Category int

const (
	Smooth Category = iota
	Textured
	Natural
	Special
)

func (c Category) Penalty() float64 { return float64(c) }

func (c Category) String() string {
	switch c {
	case Smooth:
		return "smooth"
	case Textured:
		return "textured"
	case Natural:
		return "natural"
	case Special:
		return "special"
	default:
		return "unknown"
	}
}

// Entry is one registered palette material.
type Entry struct {
	Material string
	RGB      RGB
	Category Category
	// Gray marks the near-gray bucket.
	Gray bool

	hue, sat, bri float64
}

// NewEntry returns an entry with its HSB precomputed.
func NewEntry(material string, c RGB, cat Category) Entry {
	e := Entry{Material: material, RGB: c, Category: cat}
	e.hue, e.sat, e.bri = c.HSB()
	return e
}

// NewGrayEntry returns an entry in the near-gray bucket.
func NewGrayEntry(material string, c RGB, cat Category) Entry {
	e := NewEntry(material, c, cat)
	e.Gray = true
	return e
}

// HSB returns the precomputed hue, saturation and brightness.
func (e Entry) HSB() (h, s, b float64) { return e.hue, e.sat, e.bri }

// Registry is an immutable, ordered palette. Order matters: ties go to the
// entry registered first.
type Registry struct {
	entries []Entry
	index   map[string]int
}

// NewRegistry builds a registry. An empty palette or a duplicated material
// is a configuration error.
func NewRegistry(entries ...Entry) (*Registry, error) {
	if len(entries) == 0 {
		return nil, errs.Config("palette", "no entries")
	}
	r := &Registry{
		entries: make([]Entry, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if _, dup := r.index[e.Material]; dup {
			return nil, errs.Config("palette", "duplicate material %q", e.Material)
		}
		if e.hue == 0 && e.sat == 0 && e.bri == 0 {
			e.hue, e.sat, e.bri = e.RGB.HSB()
		}
		r.entries[i] = e
		r.index[e.Material] = i
	}
	return r, nil
}

func (r *Registry) Len() int { return len(r.entries) }

// Entries returns a copy of the entries in registration order.
func (r *Registry) Entries() []Entry { return append([]Entry(nil), r.entries...) }

func (r *Registry) Lookup(material string) (Entry, bool) {
	i, ok := r.index[material]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Default returns the built-in palette.
func Default() (*Registry, error) {
	return NewRegistry(defaultEntries()...)
}

// MustDefault is Default for program startup, where a broken palette is
// fatal.
func MustDefault() *Registry {
	r, err := Default()
	essentials.Must(err)
	return r
}
