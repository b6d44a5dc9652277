package voxel

// Pos is an integer voxel position.
type Pos struct {
	X, Y, Z int
}

func (p Pos) Add(q Pos) Pos { return Pos{p.X + q.X, p.Y + q.Y, p.Z + q.Z} }

func (p Pos) Sub(q Pos) Pos { return Pos{p.X - q.X, p.Y - q.Y, p.Z - q.Z} }

// Axis returns the coordinate on axis 0 (x), 1 (y) or 2 (z).
func (p Pos) Axis(i int) int {
	switch i {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// With returns p with axis i set to v.
func (p Pos) With(i, v int) Pos {
	switch i {
	case 0:
		p.X = v
	case 1:
		p.Y = v
	default:
		p.Z = v
	}
	return p
}

// Cuboid is an inclusive axis-aligned integer box. Construct it with
// NewCuboid so Min <= Max on every axis.
type Cuboid struct {
	Min, Max Pos
}

// NewCuboid returns the cuboid spanned by two corners in any order.
func NewCuboid(a, b Pos) Cuboid {
	return Cuboid{
		Min: Pos{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)},
		Max: Pos{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)},
	}
}

func (c Cuboid) Contains(p Pos) bool {
	return p.X >= c.Min.X && p.X <= c.Max.X &&
		p.Y >= c.Min.Y && p.Y <= c.Max.Y &&
		p.Z >= c.Min.Z && p.Z <= c.Max.Z
}

// Size returns the number of cells along each axis.
func (c Cuboid) Size() Pos {
	return Pos{c.Max.X - c.Min.X + 1, c.Max.Y - c.Min.Y + 1, c.Max.Z - c.Min.Z + 1}
}

func (c Cuboid) Volume() int {
	s := c.Size()
	return s.X * s.Y * s.Z
}

// Relative returns p relative to the cuboid's minimum corner.
func (c Cuboid) Relative(p Pos) Pos { return p.Sub(c.Min) }
