package mesher

import (
	"math"

	"github.com/voxelsplace/voxexport/palette"
	"github.com/voxelsplace/voxexport/voxel"
)

// view reads a source through a cuboid: outside cells are air and, with
// solidify, hollow cells below a column's top read as filler.
type view struct {
	src      voxel.Source
	c        voxel.Cuboid
	solidify bool
	heights  []int
	sizeZ    int
}

func newView(src voxel.Source, c voxel.Cuboid, solidify bool) *view {
	v := &view{src: src, c: c, solidify: solidify}
	if !solidify {
		return v
	}
	size := c.Size()
	v.sizeZ = size.Z
	v.heights = make([]int, size.X*size.Z)
	for x := 0; x < size.X; x++ {
		for z := 0; z < size.Z; z++ {
			h := math.MinInt
			for y := c.Max.Y; y >= c.Min.Y; y-- {
				vx, ok := src.Lookup(voxel.Pos{X: c.Min.X + x, Y: y, Z: c.Min.Z + z})
				if ok && vx.Solid() {
					h = y
					break
				}
			}
			v.heights[x*size.Z+z] = h
		}
	}
	return v
}

// at returns the effective voxel at p.
func (v *view) at(p voxel.Pos) voxel.Voxel {
	if !v.c.Contains(p) {
		return voxel.Voxel{}
	}
	vx, ok := v.src.Lookup(p)
	if !ok {
		vx = voxel.Voxel{}
	}
	if v.solidify && !vx.Solid() {
		r := v.c.Relative(p)
		if p.Y < v.heights[r.X*v.sizeZ+r.Z] {
			return voxel.Of(voxel.Filler)
		}
	}
	return vx
}

func (v *view) solid(p voxel.Pos) bool { return v.at(p).Solid() }

func (v *view) color(vx voxel.Voxel, p voxel.Pos) palette.RGB {
	if vx.Material == voxel.Filler && !vx.Tinted {
		return voxel.Filler.Color
	}
	return voxel.SafeMapColor(v.src, vx, p)
}
