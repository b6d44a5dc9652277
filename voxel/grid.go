package voxel

import (
	"fmt"
	"sort"

	"github.com/voxelsplace/voxexport/palette"
)

// Source is a read-only view of a voxel world.
type Source interface {
	// Lookup returns the voxel at p, or false when p holds air.
	Lookup(p Pos) (Voxel, bool)
	// MapColor returns the display color of v at p.
	MapColor(v Voxel, p Pos) (palette.RGB, error)
}

// SafeMapColor calls src.MapColor and resolves any failure, including a
// panic inside the source, to the material color (or white).
func SafeMapColor(src Source, v Voxel, p Pos) (c palette.RGB) {
	fallback := palette.White
	if v.Material != nil {
		fallback = v.Material.Color
	}
	defer func() {
		if r := recover(); r != nil {
			c = fallback
		}
	}()
	c, err := src.MapColor(v, p)
	if err != nil {
		return fallback
	}
	return c
}

// Grid is a sparse voxel set bounded by a cuboid. Absent cells are air.
type Grid struct {
	bounds Cuboid
	cells  map[Pos]Voxel
}

func NewGrid(bounds Cuboid) *Grid {
	return &Grid{bounds: bounds, cells: map[Pos]Voxel{}}
}

func (g *Grid) Bounds() Cuboid { return g.bounds }

// Set stores v at p. Setting an empty voxel clears the cell.
func (g *Grid) Set(p Pos, v Voxel) error {
	if !g.bounds.Contains(p) {
		return fmt.Errorf("set voxel: %v outside %v..%v", p, g.bounds.Min, g.bounds.Max)
	}
	if v.Empty() {
		delete(g.cells, p)
	} else {
		g.cells[p] = v
	}
	return nil
}

// Lookup implements Source. Positions outside the bounds are air.
func (g *Grid) Lookup(p Pos) (Voxel, bool) {
	v, ok := g.cells[p]
	return v, ok
}

// MapColor implements Source: the tint when present, else the material
// color.
func (g *Grid) MapColor(v Voxel, _ Pos) (palette.RGB, error) {
	if v.Tinted {
		return v.Tint, nil
	}
	if v.Material == nil {
		return palette.White, nil
	}
	return v.Material.Color, nil
}

func (g *Grid) Len() int { return len(g.cells) }

// Each visits the voxels ordered by y, then z, then x.
func (g *Grid) Each(fn func(Pos, Voxel)) {
	ps := make([]Pos, 0, len(g.cells))
	for p := range g.cells {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
	for _, p := range ps {
		fn(p, g.cells[p])
	}
}

// Materials returns the distinct materials in the grid, ordered by id.
func (g *Grid) Materials() []*Material {
	set := NewMaterialSet()
	for _, v := range g.cells {
		set.Add(v.Material)
	}
	return set.Sorted()
}

// Snapshot copies every voxel of src inside c into a new grid. Colors are
// resolved once through SafeMapColor and stored as tints.
func Snapshot(src Source, c Cuboid) *Grid {
	g := NewGrid(c)
	for y := c.Min.Y; y <= c.Max.Y; y++ {
		for z := c.Min.Z; z <= c.Max.Z; z++ {
			for x := c.Min.X; x <= c.Max.X; x++ {
				p := Pos{x, y, z}
				v, ok := src.Lookup(p)
				if !ok || v.Empty() {
					continue
				}
				if !v.Tinted {
					if col := SafeMapColor(src, v, p); col != v.Material.Color {
						v = TintedOf(v.Material, col)
					}
				}
				g.cells[p] = v
			}
		}
	}
	return g
}
