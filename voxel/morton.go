package voxel

// mortonLimit is the per-axis extent a 64-bit 3D Morton key can hold.
const mortonLimit = 1 << 21

func morton3D64(x, y, z uint32) uint64 {
	return part1By2(uint64(x)) |
		(part1By2(uint64(y)) << 1) |
		(part1By2(uint64(z)) << 2)
}

func mortonDecode3D64(index uint64) (x, y, z uint32) {
	x = uint32(compact1By2(index))
	y = uint32(compact1By2(index >> 1))
	z = uint32(compact1By2(index >> 2))
	return
}

func part1By2(x uint64) uint64 {
	x &= 0x1fffff
	x = (x | (x << 32)) & 0x1f00000000ffff
	x = (x | (x << 16)) & 0x1f0000ff0000ff
	x = (x | (x << 8)) & 0x100f00f00f00f00f
	x = (x | (x << 4)) & 0x10c30c30c30c30c3
	x = (x | (x << 2)) & 0x1249249249249249
	return x
}

func compact1By2(x uint64) uint64 {
	x &= 0x1249249249249249
	x = (x ^ (x >> 2)) & 0x10c30c30c30c30c3
	x = (x ^ (x >> 4)) & 0x100f00f00f00f00f
	x = (x ^ (x >> 8)) & 0x1f0000ff0000ff
	x = (x ^ (x >> 16)) & 0x1f00000000ffff
	x = (x ^ (x >> 32)) & 0x1fffff
	return x
}

// mortonKey returns the key of p relative to the cuboid origin.
func (c Cuboid) mortonKey(p Pos) uint64 {
	r := c.Relative(p)
	return morton3D64(uint32(r.X), uint32(r.Y), uint32(r.Z))
}

func (c Cuboid) fromMortonKey(k uint64) Pos {
	x, y, z := mortonDecode3D64(k)
	return c.Min.Add(Pos{int(x), int(y), int(z)})
}
