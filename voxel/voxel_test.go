package voxel

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/geom"
	"github.com/voxelsplace/voxexport/palette"
)

var (
	testStone = NewMaterial("stone", palette.RGB{R: 125, G: 125, B: 125}, FlagOpaqueFullCube)
	testGlass = NewMaterial("glass", palette.RGB{R: 200, G: 220, B: 255}, 0)
	testGrass = NewMaterial("grass", palette.RGB{R: 60, G: 160, B: 40}, FlagFlat|FlagOpaqueFullCube)
)

func TestCuboidNormalizes(t *testing.T) {
	c := NewCuboid(Pos{3, -1, 5}, Pos{0, 2, 1})
	assert.Equal(t, Pos{0, -1, 1}, c.Min)
	assert.Equal(t, Pos{3, 2, 5}, c.Max)
	assert.Equal(t, Pos{4, 4, 5}, c.Size())
	assert.Equal(t, 80, c.Volume())
	assert.True(t, c.Contains(Pos{0, 2, 5}))
	assert.False(t, c.Contains(Pos{4, 0, 1}))
	assert.Equal(t, Pos{1, 1, 1}, c.Relative(Pos{1, 0, 2}))
}

func TestFlatStripsOpaque(t *testing.T) {
	assert.True(t, testGrass.IsFlat())
	assert.False(t, testGrass.IsOpaqueFullCube())
	assert.False(t, Of(testGrass).Solid())
	assert.True(t, Of(testStone).Solid())
	assert.True(t, Voxel{}.Empty())
}

func TestGridSetAndLookup(t *testing.T) {
	g := NewGrid(NewCuboid(Pos{}, Pos{1, 1, 1}))
	require.NoError(t, g.Set(Pos{1, 0, 1}, Of(testStone)))
	assert.Error(t, g.Set(Pos{2, 0, 0}, Of(testStone)))

	v, ok := g.Lookup(Pos{1, 0, 1})
	require.True(t, ok)
	assert.Equal(t, "stone", v.Material.ID)
	_, ok = g.Lookup(Pos{5, 5, 5})
	assert.False(t, ok)

	require.NoError(t, g.Set(Pos{1, 0, 1}, Voxel{}))
	assert.Equal(t, 0, g.Len())
}

func TestGridEachOrder(t *testing.T) {
	g := NewGrid(NewCuboid(Pos{}, Pos{2, 2, 2}))
	for _, p := range []Pos{{2, 1, 0}, {0, 0, 1}, {1, 0, 1}, {0, 0, 0}} {
		require.NoError(t, g.Set(p, Of(testStone)))
	}
	var got []Pos
	g.Each(func(p Pos, _ Voxel) { got = append(got, p) })
	assert.Equal(t, []Pos{{0, 0, 0}, {0, 0, 1}, {1, 0, 1}, {2, 1, 0}}, got)
}

type panickySource struct{ *Grid }

func (panickySource) MapColor(Voxel, Pos) (palette.RGB, error) { panic("boom") }

type failingSource struct{ *Grid }

func (failingSource) MapColor(Voxel, Pos) (palette.RGB, error) {
	return palette.RGB{}, errors.New("no color")
}

func TestSafeMapColorRecovers(t *testing.T) {
	g := NewGrid(NewCuboid(Pos{}, Pos{}))
	v := Of(testGlass)
	assert.Equal(t, testGlass.Color, SafeMapColor(panickySource{g}, v, Pos{}))
	assert.Equal(t, testGlass.Color, SafeMapColor(failingSource{g}, v, Pos{}))
	assert.Equal(t, palette.White, SafeMapColor(failingSource{g}, Voxel{}, Pos{}))

	tinted := TintedOf(testGlass, palette.RGB{R: 1, G: 2, B: 3})
	assert.Equal(t, palette.RGB{R: 1, G: 2, B: 3}, SafeMapColor(g, tinted, Pos{}))
}

func TestSnapshotSurvivesPanickingSource(t *testing.T) {
	g := NewGrid(NewCuboid(Pos{}, Pos{1, 0, 0}))
	require.NoError(t, g.Set(Pos{}, Of(testGlass)))
	snap := Snapshot(panickySource{g}, NewCuboid(Pos{-1, 0, 0}, Pos{1, 0, 0}))
	assert.Equal(t, 1, snap.Len())
	v, ok := snap.Lookup(Pos{})
	require.True(t, ok)
	assert.False(t, v.Tinted)
}

func TestMortonRoundTrip(t *testing.T) {
	c := NewCuboid(Pos{-10, -20, 5}, Pos{100, 40, 90})
	for _, p := range []Pos{{-10, -20, 5}, {100, 40, 90}, {3, 0, 17}} {
		assert.Equal(t, p, c.fromMortonKey(c.mortonKey(p)))
	}
}

func snapshotFixture(t *testing.T) *Grid {
	g := NewGrid(NewCuboid(Pos{-3, 60, 10}, Pos{5, 70, 20}))
	require.NoError(t, g.Set(Pos{-3, 60, 10}, Of(testStone)))
	require.NoError(t, g.Set(Pos{5, 70, 20}, TintedOf(testGlass, palette.RGB{R: 9, G: 8, B: 7})))
	require.NoError(t, g.Set(Pos{0, 65, 15}, Of(testGrass)))
	return g
}

func TestSnapshotRoundTrip(t *testing.T) {
	for _, comp := range []SnapshotCompression{SnapshotCompNone, SnapshotCompZlib, SnapshotCompZstd} {
		g := snapshotFixture(t)
		var buf bytes.Buffer
		require.NoError(t, EncodeSnapshot(&buf, g, comp))

		back, err := DecodeSnapshot(&buf)
		require.NoError(t, err)
		assert.Equal(t, g.Bounds(), back.Bounds())
		assert.Equal(t, g.Len(), back.Len())
		g.Each(func(p Pos, v Voxel) {
			got, ok := back.Lookup(p)
			require.True(t, ok, "%v", p)
			assert.Equal(t, v.Material.ID, got.Material.ID)
			assert.Equal(t, v.Material.Flags, got.Material.Flags)
			assert.Equal(t, v.Tinted, got.Tinted)
			assert.Equal(t, v.Tint, got.Tint)
		})
	}
}

func TestSnapshotCompressesBody(t *testing.T) {
	g := NewGrid(NewCuboid(Pos{}, Pos{15, 3, 15}))
	for x := 0; x <= 15; x++ {
		for y := 0; y <= 3; y++ {
			for z := 0; z <= 15; z++ {
				require.NoError(t, g.Set(Pos{x, y, z}, Of(testStone)))
			}
		}
	}

	var plain bytes.Buffer
	require.NoError(t, EncodeSnapshot(&plain, g, SnapshotCompNone))
	for _, comp := range []SnapshotCompression{SnapshotCompZlib, SnapshotCompZstd} {
		var buf bytes.Buffer
		require.NoError(t, EncodeSnapshot(&buf, g, comp))
		assert.Less(t, buf.Len(), plain.Len(), "compression %d", comp)

		back, err := DecodeSnapshot(&buf)
		require.NoError(t, err)
		assert.Equal(t, g.Len(), back.Len())
	}
}

func TestSnapshotRejectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeSnapshot(&buf, snapshotFixture(t), SnapshotCompNone))
	data := buf.Bytes()

	bad := append([]byte(nil), data...)
	bad[0] = 'X'
	_, err := DecodeSnapshot(bytes.NewReader(bad))
	assert.True(t, errs.IsFormat(err))

	bad = append([]byte(nil), data...)
	bad[len(bad)-1] ^= 0xff
	_, err = DecodeSnapshot(bytes.NewReader(bad))
	assert.True(t, errs.IsFormat(err))

	_, err = DecodeSnapshot(bytes.NewReader(data[:10]))
	assert.True(t, errs.IsFormat(err))
}

func unitCube() *geom.Mesh {
	return &geom.Mesh{
		Positions: []mgl32.Vec3{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
			{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
		},
		Triangles: [][3]uint32{
			{0, 2, 1}, {0, 3, 2},
			{4, 5, 6}, {4, 6, 7},
			{0, 1, 5}, {0, 5, 4},
			{3, 6, 2}, {3, 7, 6},
			{0, 4, 7}, {0, 7, 3},
			{1, 2, 6}, {1, 6, 5},
		},
	}
}

func TestVoxelizeCube(t *testing.T) {
	q, err := palette.NewQuantizer(palette.MustDefault(), palette.Balanced)
	require.NoError(t, err)

	opts := VoxelizeOptions{Scale: 4, Color: palette.RGB{R: 224, G: 97, B: 0}}
	g, err := Voxelize(unitCube(), opts, q)
	require.NoError(t, err)
	assert.Equal(t, Pos{4, 4, 4}, g.Bounds().Size())
	assert.Equal(t, 64-8, g.Len())
	_, ok := g.Lookup(Pos{1, 1, 1})
	assert.False(t, ok)

	opts.Fill = true
	g, err = Voxelize(unitCube(), opts, q)
	require.NoError(t, err)
	assert.Equal(t, 64, g.Len())
	v, ok := g.Lookup(Pos{2, 2, 2})
	require.True(t, ok)
	assert.Equal(t, "orange_concrete", v.Material.ID)
}

func TestVoxelizeUsesGroupColors(t *testing.T) {
	q, err := palette.NewQuantizer(palette.MustDefault(), palette.HuePriority)
	require.NoError(t, err)

	m := unitCube()
	m.Groups = make([]int, len(m.Triangles))
	m.GroupNames = []string{"red"}
	m.GroupColors = []palette.RGB{{R: 142, G: 32, B: 32}}
	g, err := Voxelize(m, VoxelizeOptions{Scale: 2}, q)
	require.NoError(t, err)
	g.Each(func(_ Pos, v Voxel) {
		assert.Equal(t, "red_concrete", v.Material.ID)
	})
}

func TestVoxelizeRejectsBadInput(t *testing.T) {
	q, err := palette.NewQuantizer(palette.MustDefault(), palette.Balanced)
	require.NoError(t, err)

	_, err = Voxelize(unitCube(), VoxelizeOptions{}, q)
	assert.True(t, errs.IsConfig(err))

	_, err = Voxelize(&geom.Mesh{}, VoxelizeOptions{Scale: 1}, q)
	assert.True(t, errs.IsFormat(err))
}
