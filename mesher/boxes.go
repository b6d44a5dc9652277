package mesher

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelsplace/voxexport/voxel"
)

// PlantThickness is the thickness of each plane of a flat-material cross.
const PlantThickness = 0.01

// Boxes returns one unit box per visible voxel in c, or two thin crossing
// boxes for flat materials. A voxel is hidden when all six neighbors are
// opaque full cubes inside c. Boxes are cuboid-relative.
func Boxes(ctx context.Context, src voxel.Source, c voxel.Cuboid, progress func(float32)) ([]Box, error) {
	v := newView(src, c, false)
	size := c.Size()

	var boxes []Box
	for y := c.Min.Y; y <= c.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("boxes: %w", err)
		}
		if progress != nil {
			progress(float32(y-c.Min.Y) / float32(size.Y))
		}
		for z := c.Min.Z; z <= c.Max.Z; z++ {
			for x := c.Min.X; x <= c.Max.X; x++ {
				p := voxel.Pos{X: x, Y: y, Z: z}
				vx := v.at(p)
				if vx.Empty() || hidden(v, p) {
					continue
				}
				r := c.Relative(p)
				o := mgl32.Vec3{float32(r.X), float32(r.Y), float32(r.Z)}
				col := v.color(vx, p)
				if !vx.Material.IsFlat() {
					boxes = append(boxes, Box{Min: o, Max: o.Add(mgl32.Vec3{1, 1, 1}), Voxel: vx, Color: col})
					continue
				}
				off := float32(1-PlantThickness) / 2
				boxes = append(boxes,
					Box{
						Min: o.Add(mgl32.Vec3{0, 0, off}),
						Max: o.Add(mgl32.Vec3{1, 1, off + PlantThickness}),
						Voxel: vx, Color: col,
					},
					Box{
						Min: o.Add(mgl32.Vec3{off, 0, 0}),
						Max: o.Add(mgl32.Vec3{off + PlantThickness, 1, 1}),
						Voxel: vx, Color: col,
					},
				)
			}
		}
	}
	return boxes, nil
}

func hidden(v *view, p voxel.Pos) bool {
	for _, d := range Directions {
		if !v.at(p.Add(d.Offset())).Material.IsOpaqueFullCube() {
			return false
		}
	}
	return true
}
