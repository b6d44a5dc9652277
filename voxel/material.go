package voxel

import (
	"sort"

	"github.com/voxelsplace/voxexport/palette"
)

// Flags are material capabilities, resolved once when the material is
// created instead of being re-queried per lookup.
type Flags uint8

const (
	// FlagOpaqueFullCube marks a material that fully hides the face of any
	// neighbor touching it.
	FlagOpaqueFullCube Flags = 1 << iota
	// FlagFlat marks plant-like or otherwise non-cube materials. They never
	// count as solid for solidify and manifold repair, and flat export
	// renders them as a cross of two thin planes.
	FlagFlat
)

// Material is an opaque material identifier with its capabilities.
// Color is the map color used in flat-color exports; Texture is an
// optional base texture reference resolved by a texture source.
type Material struct {
	ID      string
	Flags   Flags
	Color   palette.RGB
	Texture string
}

// NewMaterial returns a material. Flat materials never carry the opaque
// flag.
func NewMaterial(id string, color palette.RGB, flags Flags) *Material {
	if flags&FlagFlat != 0 {
		flags &^= FlagOpaqueFullCube
	}
	return &Material{ID: id, Flags: flags, Color: color}
}

func (m *Material) IsOpaqueFullCube() bool { return m != nil && m.Flags&FlagOpaqueFullCube != 0 }

func (m *Material) IsFlat() bool { return m != nil && m.Flags&FlagFlat != 0 }

// Filler is the material solidify and the manifold repair pass fill with.
var Filler = &Material{
	ID:      "stone",
	Flags:   FlagOpaqueFullCube,
	Color:   palette.RGB{R: 125, G: 125, B: 125},
	Texture: "block/stone",
}

// Voxel is one occupied cell: a material and an optional per-instance tint.
// The zero Voxel is air.
type Voxel struct {
	Material *Material
	Tint     palette.RGB
	Tinted   bool
}

// Of returns an untinted voxel of m.
func Of(m *Material) Voxel { return Voxel{Material: m} }

// TintedOf returns a voxel of m tinted with c.
func TintedOf(m *Material, c palette.RGB) Voxel {
	return Voxel{Material: m, Tint: c, Tinted: true}
}

func (v Voxel) Empty() bool { return v.Material == nil }

// Solid reports whether v is non-empty and not flat.
func (v Voxel) Solid() bool { return v.Material != nil && !v.Material.IsFlat() }

// MaterialSet indexes materials by id.
type MaterialSet struct {
	byID map[string]*Material
}

func NewMaterialSet(ms ...*Material) *MaterialSet {
	s := &MaterialSet{byID: make(map[string]*Material, len(ms))}
	for _, m := range ms {
		s.Add(m)
	}
	return s
}

// Add registers m, replacing any material with the same id.
func (s *MaterialSet) Add(m *Material) { s.byID[m.ID] = m }

func (s *MaterialSet) Get(id string) (*Material, bool) {
	m, ok := s.byID[id]
	return m, ok
}

// Sorted returns the materials ordered by id.
func (s *MaterialSet) Sorted() []*Material {
	out := make([]*Material, 0, len(s.byID))
	for _, m := range s.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
