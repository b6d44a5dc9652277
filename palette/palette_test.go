package palette

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelsplace/voxexport/errs"
)

func TestRegistryRejectsEmptyAndDuplicates(t *testing.T) {
	_, err := NewRegistry()
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))

	_, err = NewRegistry(
		NewEntry("a", RGB{1, 2, 3}, Smooth),
		NewEntry("a", RGB{4, 5, 6}, Smooth),
	)
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
}

func TestDefaultPalette(t *testing.T) {
	reg := MustDefault()
	assert.Greater(t, reg.Len(), 40)
	e, ok := reg.Lookup("stone")
	require.True(t, ok)
	assert.True(t, e.Gray)
	assert.Equal(t, RGB{125, 125, 125}, e.RGB)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("hue")
	require.NoError(t, err)
	assert.Equal(t, HuePriority, s)

	s, err = ParseStrategy("Balanced")
	require.NoError(t, err)
	assert.Equal(t, Balanced, s)

	_, err = ParseStrategy("lab")
	assert.True(t, errs.IsConfig(err))
}

func TestClosestExactMatch(t *testing.T) {
	reg := MustDefault()
	for _, strategy := range []Strategy{Balanced, HuePriority} {
		q, err := NewQuantizer(reg, strategy)
		require.NoError(t, err)
		assert.Equal(t, "orange_concrete", q.Closest(RGB{224, 97, 0}).Material, strategy.String())
		assert.Equal(t, "red_concrete", q.Closest(RGB{142, 32, 32}).Material, strategy.String())
	}
}

func TestClosestTieGoesToFirst(t *testing.T) {
	reg, err := NewRegistry(
		NewEntry("first", RGB{10, 10, 10}, Smooth),
		NewEntry("second", RGB{10, 10, 10}, Smooth),
	)
	require.NoError(t, err)
	q, err := NewQuantizer(reg, Balanced)
	require.NoError(t, err)
	assert.Equal(t, "first", q.Closest(RGB{12, 12, 12}).Material)
}

func TestCategoryPenaltyBreaksNearTies(t *testing.T) {
	reg, err := NewRegistry(
		NewEntry("special", RGB{100, 0, 0}, Special),
		NewEntry("smooth", RGB{101, 0, 0}, Smooth),
	)
	require.NoError(t, err)
	q, err := NewQuantizer(reg, Balanced)
	require.NoError(t, err)
	assert.Equal(t, "smooth", q.Closest(RGB{100, 0, 0}).Material)
}

func TestHueNeverPicksGrayForColoredInput(t *testing.T) {
	q, err := NewQuantizer(MustDefault(), HuePriority)
	require.NoError(t, err)

	for r := 0; r < 256; r += 17 {
		for g := 0; g < 256; g += 17 {
			for b := 0; b < 256; b += 17 {
				c := RGB{uint8(r), uint8(g), uint8(b)}
				_, s, _ := c.HSB()
				if s <= 0.05 {
					continue
				}
				got := q.Closest(c)
				assert.False(t, got.Gray, "%v (s=%.3f) mapped to %s", c, s, got.Material)
			}
		}
	}
}

func TestGrayInputMayPickGray(t *testing.T) {
	q, err := NewQuantizer(MustDefault(), HuePriority)
	require.NoError(t, err)
	assert.True(t, q.Closest(RGB{220, 220, 220}).Gray)
}

func TestGrayOnlyPaletteStillAnswers(t *testing.T) {
	reg, err := NewRegistry(NewGrayEntry("stone", RGB{125, 125, 125}, Natural))
	require.NoError(t, err)
	q, err := NewQuantizer(reg, HuePriority)
	require.NoError(t, err)
	assert.Equal(t, "stone", q.Closest(RGB{255, 0, 0}).Material)
}

func TestHexAndParseHex(t *testing.T) {
	c := RGB{0xab, 0x01, 0xff}
	assert.Equal(t, "ab01ff", c.Hex())

	got, a, err := ParseHex("#ab01ff80")
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.Equal(t, uint8(0x80), a)

	_, _, err = ParseHex("ab01ff")
	assert.Error(t, err)
}

func TestAverageColorSkipsTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{200, 100, 50, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 0})
	assert.Equal(t, RGB{200, 100, 50}, AverageColor(img))

	empty := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	assert.Equal(t, White, AverageColor(empty))
}
