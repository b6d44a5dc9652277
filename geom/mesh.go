// Package geom holds the decoded triangle mesh shared by the GLB, OBJ and
// STL readers and consumed by the voxelizer.
package geom

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelsplace/voxexport/palette"
)

// Image is an embedded texture.
type Image struct {
	Data []byte
	MIME string
}

// Mesh is an indexed triangle mesh. UVs is either empty or parallel to
// Positions. Groups, when set, holds one material group index per triangle.
type Mesh struct {
	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2
	Triangles [][3]uint32
	Image     *Image

	Groups      []int
	GroupNames  []string
	GroupColors []palette.RGB
}

func (m *Mesh) HasUVs() bool { return len(m.UVs) > 0 }

// Group returns the material group of triangle i, or -1.
func (m *Mesh) Group(i int) int {
	if i < len(m.Groups) {
		return m.Groups[i]
	}
	return -1
}

// GroupColor returns the color of group g, or white when unknown.
func (m *Mesh) GroupColor(g int) palette.RGB {
	if g >= 0 && g < len(m.GroupColors) {
		return m.GroupColors[g]
	}
	return palette.White
}

// Bounds returns the axis-aligned bounds of the positions.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	if len(m.Positions) == 0 {
		return
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	return
}

// Validate reports the first triangle referencing a missing vertex.
func (m *Mesh) Validate() (tri int, ok bool) {
	n := uint32(len(m.Positions))
	for i, t := range m.Triangles {
		if t[0] >= n || t[1] >= n || t[2] >= n {
			return i, false
		}
	}
	return -1, true
}
