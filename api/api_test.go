package api

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/geom"
	"github.com/voxelsplace/voxexport/glb"
	"github.com/voxelsplace/voxexport/palette"
	"github.com/voxelsplace/voxexport/stl"
	"github.com/voxelsplace/voxexport/voxel"
)

var lapis = voxel.NewMaterial("lapis_block", palette.RGB{R: 31, G: 67, B: 140}, voxel.FlagOpaqueFullCube)

// diagonal returns a snapshot of two voxels touching only along an edge.
func diagonal(t *testing.T) []byte {
	g := voxel.NewGrid(voxel.NewCuboid(voxel.Pos{}, voxel.Pos{X: 1, Z: 1}))
	require.NoError(t, g.Set(voxel.Pos{}, voxel.Of(lapis)))
	require.NoError(t, g.Set(voxel.Pos{X: 1, Z: 1}, voxel.Of(lapis)))
	var buf bytes.Buffer
	require.NoError(t, voxel.EncodeSnapshot(&buf, g, voxel.SnapshotCompZstd))
	return buf.Bytes()
}

func TestSnapshotToSTL(t *testing.T) {
	vxs := diagonal(t)

	merged, err := SnapshotToSTL(vxs, 1, true)
	require.NoError(t, err)
	// 12 faces plus one six-sided connector
	assert.Len(t, merged, int(stl.Size(2*18)))

	flat, err := SnapshotToSTL(vxs, 1, false)
	require.NoError(t, err)
	assert.Len(t, flat, int(stl.Size(24)))

	_, err = SnapshotToSTL([]byte("VXSN garbage"), 1, true)
	assert.True(t, errs.IsFormat(err))
}

func TestSnapshotToOBJ(t *testing.T) {
	b, err := SnapshotToOBJ(diagonal(t), "region", 1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b.OBJ), "# Exported by voxexport\nmtllib region.mtl\n"))
	assert.Contains(t, string(b.MTL), "newmtl mat_lapis_block_1f438c")
	assert.Contains(t, string(b.MTL), "newmtl mat_stone_7d7d7d")
	assert.Nil(t, b.Texture)
}

func TestSnapshotToGLB(t *testing.T) {
	data, err := SnapshotToGLB(diagonal(t), 0.5)
	require.NoError(t, err)

	doc := new(gltf.Document)
	require.NoError(t, gltf.NewDecoder(bytes.NewReader(data)).Decode(doc))
	prim := doc.Meshes[0].Primitives[0]
	assert.EqualValues(t, 4*18, doc.Accessors[prim.Attributes[gltf.POSITION]].Count)
}

func TestGLBToOBJ(t *testing.T) {
	m := &geom.Mesh{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		UVs:       []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Triangles: [][3]uint32{{0, 1, 2}, {0, 2, 3}},
		Image:     &geom.Image{Data: []byte{1, 2, 3}, MIME: "image/jpeg"},
	}
	data, err := glb.Encode(m)
	require.NoError(t, err)

	b, err := GLBToOBJ(data, "model")
	require.NoError(t, err)
	assert.Equal(t, "model_texture.jpg", b.TextureFile)
	assert.Equal(t, []byte{1, 2, 3}, b.Texture)
	assert.Contains(t, string(b.OBJ), "mtllib model.mtl\n")
	assert.Contains(t, string(b.OBJ), "f 1/1 2/2 3/3\n")
	assert.Contains(t, string(b.MTL), "map_Kd model_texture.jpg\n")

	_, err = GLBToOBJ([]byte("glTF?"), "model")
	assert.True(t, errs.IsFormat(err))
}

func TestSTLToSnapshot(t *testing.T) {
	g := voxel.NewGrid(voxel.NewCuboid(voxel.Pos{}, voxel.Pos{}))
	require.NoError(t, g.Set(voxel.Pos{}, voxel.Of(lapis)))
	var vxs bytes.Buffer
	require.NoError(t, voxel.EncodeSnapshot(&vxs, g, voxel.SnapshotCompNone))
	cube, err := SnapshotToSTL(vxs.Bytes(), 1, true)
	require.NoError(t, err)

	q, err := palette.NewQuantizer(palette.MustDefault(), palette.Balanced)
	require.NoError(t, err)
	out, err := STLToSnapshot(cube, voxel.VoxelizeOptions{Scale: 4, Fill: true, Color: palette.RGB{R: 224, G: 97, B: 0}}, q)
	require.NoError(t, err)

	back, err := voxel.DecodeSnapshot(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 64, back.Len())
	back.Each(func(_ voxel.Pos, v voxel.Voxel) {
		assert.Equal(t, "orange_concrete", v.Material.ID)
	})

	_, err = STLToSnapshot([]byte("short"), voxel.VoxelizeOptions{Scale: 1}, q)
	assert.True(t, errs.IsFormat(err))
}
