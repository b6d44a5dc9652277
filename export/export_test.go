package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/obj"
	"github.com/voxelsplace/voxexport/palette"
	"github.com/voxelsplace/voxexport/stl"
	"github.com/voxelsplace/voxexport/voxel"
)

var gold = &voxel.Material{
	ID:      "gold_block",
	Flags:   voxel.FlagOpaqueFullCube,
	Color:   palette.RGB{R: 246, G: 208, B: 61},
	Texture: "block/gold_block",
}

// row returns a grid holding n gold voxels along x.
func row(t *testing.T, n int) (*voxel.Grid, voxel.Cuboid) {
	c := voxel.NewCuboid(voxel.Pos{}, voxel.Pos{X: n - 1})
	g := voxel.NewGrid(c)
	for x := 0; x < n; x++ {
		require.NoError(t, g.Set(voxel.Pos{X: x}, voxel.Of(gold)))
	}
	return g, c
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"stl": STL, "OBJ": OBJColor, "obj-color": OBJColor, "obj-texture": OBJTexture, "glb": GLB,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("fbx")
	assert.True(t, errs.IsConfig(err))
}

func TestExportSTL(t *testing.T) {
	g, c := row(t, 2)
	base := filepath.Join(t.TempDir(), "out", "region")

	var last float32
	res, err := Export(context.Background(), g, c, base, Options{
		Mode: STL, Merge: true, Scale: 2,
		Progress: func(p float32) { last = p },
	})
	require.NoError(t, err)
	assert.Equal(t, Success, res.Status)
	assert.Equal(t, []string{base + ".stl"}, res.Files)
	assert.Equal(t, 6, res.Quads)
	assert.Equal(t, float32(1), last)

	info, err := os.Stat(base + ".stl")
	require.NoError(t, err)
	assert.Equal(t, stl.Size(12), info.Size())

	f, err := os.Open(base + ".stl")
	require.NoError(t, err)
	defer f.Close()
	tris, err := stl.Read(f)
	require.NoError(t, err)
	lo, hi := stl.ToMesh(tris).Bounds()
	assert.Equal(t, [3]float32{0, 0, 0}, [3]float32(lo))
	assert.Equal(t, [3]float32{4, 2, 2}, [3]float32(hi))
}

func TestQuadsSplitTintsOnlyForTextures(t *testing.T) {
	c := voxel.NewCuboid(voxel.Pos{}, voxel.Pos{X: 1})
	g := voxel.NewGrid(c)
	require.NoError(t, g.Set(voxel.Pos{}, voxel.TintedOf(gold, palette.RGB{R: 10})))
	require.NoError(t, g.Set(voxel.Pos{X: 1}, voxel.TintedOf(gold, palette.RGB{R: 20})))

	quads, err := Quads(context.Background(), g, c, Options{Mode: STL})
	require.NoError(t, err)
	assert.Len(t, quads, 6)

	quads, err = Quads(context.Background(), g, c, Options{Mode: OBJTexture})
	require.NoError(t, err)
	assert.Len(t, quads, 10)
}

func TestExportSTLFlat(t *testing.T) {
	g, c := row(t, 2)
	base := filepath.Join(t.TempDir(), "flat")
	res, err := Export(context.Background(), g, c, base, Options{Mode: STL})
	require.NoError(t, err)
	assert.Equal(t, 12, res.Quads)

	info, err := os.Stat(base + ".stl")
	require.NoError(t, err)
	assert.Equal(t, stl.Size(24), info.Size())
}

func TestExportOBJColor(t *testing.T) {
	g, c := row(t, 3)
	base := filepath.Join(t.TempDir(), "colored")
	res, err := Export(context.Background(), g, c, base, Options{Mode: OBJColor, Merge: true})
	require.NoError(t, err)
	assert.Equal(t, Success, res.Status)
	assert.Equal(t, []string{base + ".obj", base + ".mtl"}, res.Files)

	objText, err := os.ReadFile(base + ".obj")
	require.NoError(t, err)
	assert.Contains(t, string(objText), "mtllib colored.mtl\n")
	assert.Equal(t, 6, strings.Count(string(objText), "\nf "))

	mtlText, err := os.ReadFile(base + ".mtl")
	require.NoError(t, err)
	assert.Contains(t, string(mtlText), "newmtl mat_gold_block_f6d03d\n")
}

func TestExportOBJTextureWithoutTexturesIsPartial(t *testing.T) {
	g, c := row(t, 1)
	base := filepath.Join(t.TempDir(), "partial")
	res, err := Export(context.Background(), g, c, base, Options{Mode: OBJTexture, Merge: true})
	require.NoError(t, err)
	assert.Equal(t, Partial, res.Status)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "gold_block")

	mtlText, err := os.ReadFile(base + ".mtl")
	require.NoError(t, err)
	assert.Contains(t, string(mtlText), "Kd ")
	assert.NotContains(t, string(mtlText), "map_Kd")
}

func TestExportOBJTexture(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "block"), 0o755))
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(root, "block", "gold_block.png"), buf.Bytes(), 0o644))

	g, c := row(t, 2)
	base := filepath.Join(t.TempDir(), "textured")
	res, err := Export(context.Background(), g, c, base, Options{
		Mode: OBJTexture, Merge: true, Textures: obj.DirTextures{Root: root},
	})
	require.NoError(t, err)
	assert.Equal(t, Success, res.Status)
	assert.Contains(t, res.Files, base+"_textures")

	mtlText, err := os.ReadFile(base + ".mtl")
	require.NoError(t, err)
	assert.Contains(t, string(mtlText), "map_Kd textured_textures/")

	entries, err := os.ReadDir(base + "_textures")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExportGLB(t *testing.T) {
	for _, merge := range []bool{true, false} {
		g, c := row(t, 2)
		base := filepath.Join(t.TempDir(), "model")
		res, err := Export(context.Background(), g, c, base, Options{Mode: GLB, Merge: merge})
		require.NoError(t, err)

		f, err := os.Open(base + ".glb")
		require.NoError(t, err)
		doc := new(gltf.Document)
		require.NoError(t, gltf.NewDecoder(f).Decode(doc))
		f.Close()

		prim := doc.Meshes[0].Primitives[0]
		assert.EqualValues(t, 4*res.Quads, doc.Accessors[prim.Attributes[gltf.POSITION]].Count)
	}
}

func TestExportRejectsBadOptions(t *testing.T) {
	g, c := row(t, 1)
	base := filepath.Join(t.TempDir(), "bad")

	res, err := Export(context.Background(), g, c, base, Options{Mode: STL, Scale: -1})
	assert.True(t, errs.IsConfig(err))
	assert.Equal(t, Failed, res.Status)

	_, err = Export(context.Background(), g, c, base, Options{Mode: Mode(42)})
	assert.True(t, errs.IsConfig(err))

	_, err = os.Stat(base + ".stl")
	assert.True(t, os.IsNotExist(err))
}

func TestExportCancelled(t *testing.T) {
	g, c := row(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, merge := range []bool{true, false} {
		res, err := Export(ctx, g, c, filepath.Join(t.TempDir(), "x"), Options{Mode: STL, Merge: merge})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, Failed, res.Status)
		assert.Empty(t, res.Files)
	}
}

func TestExportUnwritableBase(t *testing.T) {
	g, c := row(t, 1)
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := Export(context.Background(), g, c, filepath.Join(blocker, "sub", "x"), Options{Mode: STL})
	assert.True(t, errs.IsIO(err))
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(log.New(&buf, "", 0))
	defer SetLogger(nil)

	g, c := row(t, 1)
	_, err := Export(context.Background(), g, c, filepath.Join(t.TempDir(), "logged"), Options{Mode: STL, Merge: true})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "6 quads")
}
