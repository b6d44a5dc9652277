// Package mesher turns a bounded voxel region into axis-aligned quads:
// greedy-merged faces, manifold connectors and per-voxel boxes.
package mesher

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelsplace/voxexport/palette"
	"github.com/voxelsplace/voxexport/voxel"
)

// Options controls Greedy.
type Options struct {
	// ColorMerge additionally splits runs on the display color.
	ColorMerge bool
	// TintMerge additionally splits runs on the voxel tint, for output
	// that gives every (material, tint) pair its own texture.
	TintMerge bool
	// Solidify fills hollow cells below each column's topmost solid voxel.
	Solidify bool
	// Progress, when set, is called at the start of every sweep.
	Progress func(float32)
}

type runKey struct {
	id     string
	tinted bool
	tint   palette.RGB
	color  palette.RGB
}

// Greedy meshes the exposed faces of the voxels in c. A face is exposed
// when the neighbor along its normal is not an opaque full cube. Adjacent
// faces along a row merge while they share a material id, plus the tint
// with TintMerge and the display color with ColorMerge. Quads are
// cuboid-relative.
func Greedy(ctx context.Context, src voxel.Source, c voxel.Cuboid, opts Options) ([]Quad, error) {
	v := newView(src, c, opts.Solidify)
	size := c.Size()

	total := 0
	for _, s := range sweeps {
		total += size.Axis(s.d)
	}
	done := 0

	var quads []Quad
	for _, s := range sweeps {
		off := s.dir.Offset()
		for d := c.Min.Axis(s.d); d <= c.Max.Axis(s.d); d++ {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("greedy mesh: %w", err)
			}
			if opts.Progress != nil {
				opts.Progress(float32(done) / float32(total))
			}
			done++

			for vv := c.Min.Axis(s.v); vv <= c.Max.Axis(s.v); vv++ {
				var (
					open  bool
					start int
					last  runKey
					first voxel.Voxel
					col   palette.RGB
				)
				uMax := c.Max.Axis(s.u)
				for u := c.Min.Axis(s.u); u <= uMax+1; u++ {
					var (
						cur   voxel.Voxel
						curOK bool
						key   runKey
						ccol  palette.RGB
					)
					if u <= uMax {
						p := voxel.Pos{}.With(s.u, u).With(s.v, vv).With(s.d, d)
						cur = v.at(p)
						if !cur.Empty() && !v.at(p.Add(off)).Material.IsOpaqueFullCube() {
							curOK = true
							ccol = v.color(cur, p)
							key = runKey{id: cur.Material.ID}
							if opts.TintMerge {
								key.tinted, key.tint = cur.Tinted, cur.Tint
							}
							if opts.ColorMerge {
								key.color = ccol
							}
						}
					}
					if open && curOK && key == last {
						continue
					}
					if open {
						quads = append(quads, faceQuad(s, c, d, vv, start, u, first, col))
					}
					open, start, last, first, col = curOK, u, key, cur, ccol
				}
			}
		}
	}
	return quads, nil
}

// faceQuad builds the quad covering u in [u0, u1) of row (d, v).
func faceQuad(s sweep, c voxel.Cuboid, d, v, u0, u1 int, vx voxel.Voxel, col palette.RGB) Quad {
	var lo, hi mgl32.Vec3
	lo[s.u] = float32(u0 - c.Min.Axis(s.u))
	hi[s.u] = float32(u1 - c.Min.Axis(s.u))
	lo[s.v] = float32(v - c.Min.Axis(s.v))
	hi[s.v] = lo[s.v] + 1
	plane := float32(d - c.Min.Axis(s.d))
	if s.dir.Positive() {
		plane++
	}
	lo[s.d], hi[s.d] = plane, plane
	return Quad{
		Min: lo, Max: hi, Dir: s.dir,
		Voxel: vx, Color: col,
		Width: u1 - u0, Length: 1,
	}
}
