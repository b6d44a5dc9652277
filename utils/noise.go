package utils

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/palette"
	"github.com/voxelsplace/voxexport/voxel"
)

// NoiseSize is the edge length of generated noise snapshots.
const NoiseSize = 16

// noiseMaterials turns every palette entry into a full-cube material.
func noiseMaterials(reg *palette.Registry) []*voxel.Material {
	entries := reg.Entries()
	out := make([]*voxel.Material, len(entries))
	for i, e := range entries {
		m := voxel.NewMaterial(e.Material, e.RGB, voxel.FlagOpaqueFullCube)
		m.Texture = "block/" + e.Material
		out[i] = m
	}
	return out
}

// generateNoiseGrid fills the given percentage of a NoiseSize cube with
// random palette materials.
func generateNoiseGrid(percentage float64, mats []*voxel.Material, r *rand.Rand) *voxel.Grid {
	percentage = min(max(percentage, 0), 100)
	total := NoiseSize * NoiseSize * NoiseSize
	want := min(max(int(float64(total)*(percentage/100.0)+0.5), 0), total)

	idx := make([]int, total)
	for i := range idx {
		idx[i] = i
	}
	// partial Fisher-Yates over the first want slots
	for i := 0; i < want; i++ {
		j := i + r.Intn(total-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	g := voxel.NewGrid(voxel.NewCuboid(voxel.Pos{}, voxel.Pos{X: NoiseSize - 1, Y: NoiseSize - 1, Z: NoiseSize - 1}))
	for k := 0; k < want; k++ {
		i := idx[k]
		p := voxel.Pos{
			X: (i % (NoiseSize * NoiseSize)) / NoiseSize,
			Y: i / (NoiseSize * NoiseSize),
			Z: i % NoiseSize,
		}
		// in bounds by construction
		_ = g.Set(p, voxel.Of(mats[r.Intn(len(mats))]))
	}
	return g
}

// RunGenerateNoise writes amount snapshots named 0.vxs..(amount-1).vxs
// into outDir, each filled to the given percentage.
func RunGenerateNoise(percentage float64, amount int, outDir string) error {
	return RunGenerateNoiseRange(percentage, percentage, amount, outDir)
}

// RunGenerateNoiseRange is RunGenerateNoise with a per-file fill
// percentage drawn uniformly from [percentageMin, percentageMax].
func RunGenerateNoiseRange(percentageMin, percentageMax float64, amount int, outDir string) error {
	if amount < 0 {
		amount = 0
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errs.IO("mkdir", outDir, err)
	}
	percentageMin = max(percentageMin, 0)
	percentageMax = min(percentageMax, 100)
	if percentageMax < percentageMin {
		percentageMin, percentageMax = percentageMax, percentageMin
	}

	reg, err := palette.Default()
	if err != nil {
		return err
	}
	mats := noiseMaterials(reg)

	baseSeed := uint64(time.Now().UnixNano())
	for i := 0; i < amount; i++ {
		// Weyl sequence so each file gets its own stream
		const weyl = uint64(0x9e3779b97f4a7c15)
		seed := baseSeed ^ (uint64(i)+1)*weyl
		r := rand.New(rand.NewSource(int64(seed & 0x7fffffffffffffff)))

		perc := percentageMin
		if percentageMax > percentageMin {
			perc = percentageMin + r.Float64()*(percentageMax-percentageMin)
		}

		path := filepath.Join(outDir, fmt.Sprintf("%d.vxs", i))
		if err := SaveSnapshot(generateNoiseGrid(perc, mats, r), path); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
	}
	return nil
}
