package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/voxelsplace/voxexport/palette"
)

func TestBoundsAndValidate(t *testing.T) {
	m := &Mesh{
		Positions: []mgl32.Vec3{{1, 2, 3}, {-1, 5, 0}, {4, -2, 1}},
		Triangles: [][3]uint32{{0, 1, 2}},
	}
	lo, hi := m.Bounds()
	assert.Equal(t, mgl32.Vec3{-1, -2, 0}, lo)
	assert.Equal(t, mgl32.Vec3{4, 5, 3}, hi)

	_, ok := m.Validate()
	assert.True(t, ok)

	m.Triangles = append(m.Triangles, [3]uint32{0, 1, 3})
	tri, ok := m.Validate()
	assert.False(t, ok)
	assert.Equal(t, 1, tri)
}

func TestGroupFallbacks(t *testing.T) {
	m := &Mesh{Groups: []int{0}, GroupColors: []palette.RGB{{R: 1, G: 2, B: 3}}}
	assert.Equal(t, 0, m.Group(0))
	assert.Equal(t, -1, m.Group(5))
	assert.Equal(t, palette.RGB{R: 1, G: 2, B: 3}, m.GroupColor(0))
	assert.Equal(t, palette.White, m.GroupColor(-1))
}
