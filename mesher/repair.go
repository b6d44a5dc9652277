package mesher

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelsplace/voxexport/voxel"
)

// ConnectorHalfThickness is the default half-thickness of a manifold
// connector, in voxel units.
const ConnectorHalfThickness = 0.02

// RepairOptions controls Repair.
type RepairOptions struct {
	Solidify bool
	// HalfThickness defaults to ConnectorHalfThickness when zero.
	HalfThickness float32
}

// Repair finds every 2x2 (x,z) footprint where exactly one diagonal is
// solid and the other empty, and returns a thin filler pillar on the
// shared vertical edge for each, as six quads per pillar. Solidity is
// evaluated after solidify.
func Repair(ctx context.Context, src voxel.Source, c voxel.Cuboid, opts RepairOptions) ([]Quad, error) {
	eps := opts.HalfThickness
	if eps <= 0 {
		eps = ConnectorHalfThickness
	}
	v := newView(src, c, opts.Solidify)

	var quads []Quad
	for x := c.Min.X; x < c.Max.X; x++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("manifold repair: %w", err)
		}
		for z := c.Min.Z; z < c.Max.Z; z++ {
			for y := c.Min.Y; y <= c.Max.Y; y++ {
				b00 := v.solid(voxel.Pos{X: x, Y: y, Z: z})
				b11 := v.solid(voxel.Pos{X: x + 1, Y: y, Z: z + 1})
				b10 := v.solid(voxel.Pos{X: x + 1, Y: y, Z: z})
				b01 := v.solid(voxel.Pos{X: x, Y: y, Z: z + 1})
				if (b00 && b11 && !b10 && !b01) || (b10 && b01 && !b00 && !b11) {
					r := c.Relative(voxel.Pos{X: x, Y: y, Z: z})
					cx, cz := float32(r.X+1), float32(r.Z+1)
					quads = append(quads, boxQuads(
						mgl32.Vec3{cx - eps, float32(r.Y), cz - eps},
						mgl32.Vec3{cx + eps, float32(r.Y + 1), cz + eps},
					)...)
				}
			}
		}
	}
	return quads, nil
}
