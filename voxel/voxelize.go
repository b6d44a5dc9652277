package voxel

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"sort"

	"github.com/unixpickle/model3d/model3d"

	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/geom"
	"github.com/voxelsplace/voxexport/palette"
)

// VoxelizeOptions controls Voxelize.
type VoxelizeOptions struct {
	// Scale is the number of voxels per mesh unit.
	Scale float64
	// Fill marks cells inside closed surfaces as solid too.
	Fill bool
	// Origin is the grid position of the mesh's minimum corner.
	Origin Pos
	// Color is used for triangles with no group color and no texture.
	Color palette.RGB
}

// Voxelize rasterizes mesh into a grid. Every triangle gets a palette
// material (from its group color or its texture at the triangle's UV
// centroid), and a cell becomes a voxel of the first material whose
// surface passes within half a cell diagonal of its center.
func Voxelize(mesh *geom.Mesh, opts VoxelizeOptions, q *palette.Quantizer) (*Grid, error) {
	if opts.Scale <= 0 {
		return nil, errs.Config("scale", "voxelize scale must be positive, got %v", opts.Scale)
	}
	if q == nil {
		return nil, errs.Config("palette", "voxelize needs a quantizer")
	}
	if _, ok := mesh.Validate(); !ok || len(mesh.Triangles) == 0 {
		return nil, errs.Format("mesh", "no valid triangles to voxelize")
	}

	lo, hi := mesh.Bounds()
	dims := [3]int{}
	for i := range dims {
		dims[i] = max(1, int(math.Ceil(float64(hi[i]-lo[i])*opts.Scale)))
	}
	g := NewGrid(NewCuboid(opts.Origin, opts.Origin.Add(Pos{dims[0] - 1, dims[1] - 1, dims[2] - 1})))

	groups := groupTriangles(mesh, opts, q)
	colliders := make([]model3d.Collider, len(groups))
	all := make([]*model3d.Triangle, 0, len(mesh.Triangles))
	for i, grp := range groups {
		colliders[i] = model3d.MeshToCollider(model3d.NewMeshTriangles(grp.tris))
		all = append(all, grp.tris...)
	}
	whole := model3d.MeshToCollider(model3d.NewMeshTriangles(all))

	step := 1 / opts.Scale
	radius := math.Sqrt(3) / 2 * step
	center := func(x, y, z int) model3d.Coord3D {
		return model3d.Coord3D{
			X: float64(lo[0]) + (float64(x)+0.5)*step,
			Y: float64(lo[1]) + (float64(y)+0.5)*step,
			Z: float64(lo[2]) + (float64(z)+0.5)*step,
		}
	}

	for y := 0; y < dims[1]; y++ {
		for z := 0; z < dims[2]; z++ {
			var last *Material
			for x := 0; x < dims[0]; x++ {
				c := center(x, y, z)
				p := opts.Origin.Add(Pos{x, y, z})
				hit := false
				for i, col := range colliders {
					if col.SphereCollision(c, radius) {
						last = groups[i].material
						g.cells[p] = Of(last)
						hit = true
						break
					}
				}
				if hit || !opts.Fill || last == nil {
					continue
				}
				if crossings(whole, c)%2 == 1 {
					g.cells[p] = Of(last)
				}
			}
		}
	}
	return g, nil
}

type triangleGroup struct {
	material *Material
	tris     []*model3d.Triangle
}

func groupTriangles(mesh *geom.Mesh, opts VoxelizeOptions, q *palette.Quantizer) []*triangleGroup {
	var tex image.Image
	if mesh.Image != nil && mesh.HasUVs() {
		if img, _, err := image.Decode(bytes.NewReader(mesh.Image.Data)); err == nil {
			tex = img
		}
	}

	byMaterial := map[string]*triangleGroup{}
	for i, t := range mesh.Triangles {
		tri := &model3d.Triangle{}
		for j, idx := range t {
			p := mesh.Positions[idx]
			tri[j] = model3d.Coord3D{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
		}
		if tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Norm() == 0 {
			continue
		}

		color := opts.Color
		if grp := mesh.Group(i); grp >= 0 {
			color = mesh.GroupColor(grp)
		} else if tex != nil {
			color = sampleTexture(tex, mesh, t)
		}
		e := q.Closest(color)
		grp, ok := byMaterial[e.Material]
		if !ok {
			m := NewMaterial(e.Material, e.RGB, FlagOpaqueFullCube)
			m.Texture = "block/" + e.Material
			grp = &triangleGroup{material: m}
			byMaterial[e.Material] = grp
		}
		grp.tris = append(grp.tris, tri)
	}

	out := make([]*triangleGroup, 0, len(byMaterial))
	for _, grp := range byMaterial {
		out = append(out, grp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].material.ID < out[j].material.ID })
	return out
}

// sampleTexture reads the texel under the UV centroid of a triangle.
// UVs use the glTF convention, origin at the top left.
func sampleTexture(img image.Image, mesh *geom.Mesh, t [3]uint32) palette.RGB {
	var u, v float32
	for _, idx := range t {
		u += mesh.UVs[idx][0] / 3
		v += mesh.UVs[idx][1] / 3
	}
	u -= float32(math.Floor(float64(u)))
	v -= float32(math.Floor(float64(v)))
	b := img.Bounds()
	x := b.Min.X + min(b.Dx()-1, int(u*float32(b.Dx())))
	y := b.Min.Y + min(b.Dy()-1, int(v*float32(b.Dy())))
	r, g, bl, a := img.At(x, y).RGBA()
	if a == 0 {
		return palette.White
	}
	return palette.RGB{R: uint8(r * 0xffff / a >> 8), G: uint8(g * 0xffff / a >> 8), B: uint8(bl * 0xffff / a >> 8)}
}

// crossings counts distinct surfaces hit by a ray from c along +x,
// treating near-duplicate hits as one boundary.
func crossings(col model3d.Collider, c model3d.Coord3D) int {
	var scales []float64
	col.RayCollisions(&model3d.Ray{
		Origin:    c,
		Direction: model3d.Coord3D{X: 1, Y: 0.0123, Z: 0.0371},
	}, func(r model3d.RayCollision) {
		scales = append(scales, r.Scale)
	})
	sort.Float64s(scales)
	n := 0
	last := math.Inf(-1)
	for _, s := range scales {
		if s-last > 1e-8 {
			n++
		}
		last = s
	}
	return n
}
