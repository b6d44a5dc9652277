package utils

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/voxelsplace/voxexport/config"
	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/geom"
	"github.com/voxelsplace/voxexport/glb"
	"github.com/voxelsplace/voxexport/obj"
	"github.com/voxelsplace/voxexport/stl"
	"github.com/voxelsplace/voxexport/voxel"
)

// LoadMesh reads a triangle mesh, choosing the decoder by extension:
// .obj (with its MTL and textures), .stl, and .glb or anything else as
// GLB bytes or their base64 text.
func LoadMesh(path string) (*geom.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return obj.Load(path, obj.LoadImage)
	case ".stl":
		f, err := os.Open(path)
		if err != nil {
			return nil, errs.IO("open", path, err)
		}
		defer f.Close()
		tris, err := stl.Read(bufio.NewReader(f))
		if err != nil {
			return nil, err
		}
		return stl.ToMesh(tris), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.IO("read", path, err)
		}
		return glb.DecodeAuto(data)
	}
}

// RunVoxelize voxelizes a mesh file into a .vxs snapshot using the
// voxelize and palette sections of cfg.
func RunVoxelize(inPath, outPath string, cfg *config.Config) (*voxel.Grid, error) {
	m, err := LoadMesh(inPath)
	if err != nil {
		return nil, err
	}
	q, err := cfg.Quantizer()
	if err != nil {
		return nil, err
	}
	g, err := voxel.Voxelize(m, cfg.VoxelizeOptions(), q)
	if err != nil {
		return nil, err
	}
	return g, SaveSnapshot(g, outPath)
}
