package mesher

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelsplace/voxexport/palette"
	"github.com/voxelsplace/voxexport/voxel"
)

// Quad is a planar rectangle on one face of an axis-aligned box, in
// cuboid-relative voxel units. Greedy faces have a box that is flat on the
// face axis; connector faces carry the whole connector box and Dir picks
// the side.
type Quad struct {
	Min, Max mgl32.Vec3
	Dir      Direction
	Voxel    voxel.Voxel
	// Color is the display color the quad was merged under.
	Color palette.RGB
	// Width and Length are the UV tiling extents.
	Width, Length int
}

func (q Quad) Normal() mgl32.Vec3 { return q.Dir.Normal() }

// Corners returns the four corners ordered counter-clockwise when seen
// from outside, so (c1-c0)x(c2-c0) points along the normal.
func (q Quad) Corners() [4]mgl32.Vec3 {
	d := q.Dir.Axis()
	a, b := (d+1)%3, (d+2)%3
	plane := q.Min[d]
	if q.Dir.Positive() {
		plane = q.Max[d]
	}
	corner := func(av, bv float32) mgl32.Vec3 {
		var p mgl32.Vec3
		p[d], p[a], p[b] = plane, av, bv
		return p
	}
	cs := [4]mgl32.Vec3{
		corner(q.Min[a], q.Min[b]),
		corner(q.Max[a], q.Min[b]),
		corner(q.Max[a], q.Max[b]),
		corner(q.Min[a], q.Max[b]),
	}
	if !q.Dir.Positive() {
		cs[1], cs[3] = cs[3], cs[1]
	}
	return cs
}

// Triangles splits the quad into corners 0-1-2 and 0-2-3.
func (q Quad) Triangles() [2][3]mgl32.Vec3 {
	c := q.Corners()
	return [2][3]mgl32.Vec3{{c[0], c[1], c[2]}, {c[0], c[2], c[3]}}
}

// Box is an axis-aligned box with a voxel, used by the unmerged export.
type Box struct {
	Min, Max mgl32.Vec3
	Voxel    voxel.Voxel
	Color    palette.RGB
}

// Quads returns the six faces of the box.
func (b Box) Quads() []Quad {
	out := make([]Quad, 0, 6)
	for _, d := range Directions {
		out = append(out, Quad{
			Min: b.Min, Max: b.Max, Dir: d,
			Voxel: b.Voxel, Color: b.Color,
			Width: 1, Length: 1,
		})
	}
	return out
}

// boxQuads returns the six faces of a filler box.
func boxQuads(lo, hi mgl32.Vec3) []Quad {
	return Box{Min: lo, Max: hi, Voxel: voxel.Of(voxel.Filler), Color: voxel.Filler.Color}.Quads()
}
