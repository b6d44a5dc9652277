package mesher

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelsplace/voxexport/voxel"
)

// Direction is one of the six axis-aligned face directions.
type Direction uint8

const (
	Down Direction = iota
	Up
	North
	South
	West
	East
)

// Directions lists every face direction in sweep order.
var Directions = [6]Direction{Down, Up, North, South, West, East}

var directionNames = [6]string{"down", "up", "north", "south", "west", "east"}

func (d Direction) String() string { return directionNames[d] }

// Axis returns 0, 1 or 2 for x, y or z.
func (d Direction) Axis() int {
	switch d {
	case West, East:
		return 0
	case Down, Up:
		return 1
	default:
		return 2
	}
}

// Positive reports whether the normal points along +axis.
func (d Direction) Positive() bool { return d == Up || d == South || d == East }

// Normal returns the outward unit normal.
func (d Direction) Normal() mgl32.Vec3 {
	var n mgl32.Vec3
	if d.Positive() {
		n[d.Axis()] = 1
	} else {
		n[d.Axis()] = -1
	}
	return n
}

// Offset returns the step to the neighbor the face looks at.
func (d Direction) Offset() voxel.Pos {
	s := -1
	if d.Positive() {
		s = 1
	}
	return voxel.Pos{}.With(d.Axis(), s)
}

// sweep is the (u, v, depth) axis assignment used for one direction.
type sweep struct {
	dir     Direction
	u, v, d int
}

// Y faces sweep x then z, X faces sweep y then z, Z faces sweep x then y.
var sweeps = [6]sweep{
	{Down, 0, 2, 1},
	{Up, 0, 2, 1},
	{North, 0, 1, 2},
	{South, 0, 1, 2},
	{West, 1, 2, 0},
	{East, 1, 2, 0},
}
