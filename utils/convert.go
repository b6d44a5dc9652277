package utils

import (
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelsplace/voxexport/api"
	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/stl"
)

// RunGLB2OBJ converts a GLB (raw or base64) into outBase.obj, outBase.mtl
// and, when the GLB embeds an image, the texture beside them.
func RunGLB2OBJ(inPath, outBase string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return errs.IO("read", inPath, err)
	}
	b, err := api.GLBToOBJ(data, filepath.Base(outBase))
	if err != nil {
		return err
	}
	if err := writeBytes(outBase+".obj", b.OBJ); err != nil {
		return err
	}
	if err := writeBytes(outBase+".mtl", b.MTL); err != nil {
		return err
	}
	if b.Texture != nil {
		return writeBytes(filepath.Join(filepath.Dir(outBase), b.TextureFile), b.Texture)
	}
	return nil
}

// RunVXS2GLB meshes a snapshot file into a GLB.
func RunVXS2GLB(inPath, outPath string, scale float32) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return errs.IO("read", inPath, err)
	}
	out, err := api.SnapshotToGLB(data, scale)
	if err != nil {
		return err
	}
	return writeBytes(outPath, out)
}

// STLInfo summarizes a binary STL.
type STLInfo struct {
	Triangles int
	Vertices  int
	Min, Max  mgl32.Vec3
}

// RunSTLInfo reads a binary STL and reports its size and bounds.
func RunSTLInfo(path string) (STLInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return STLInfo{}, errs.IO("open", path, err)
	}
	defer f.Close()
	tris, err := stl.Read(f)
	if err != nil {
		return STLInfo{}, err
	}
	m := stl.ToMesh(tris)
	info := STLInfo{Triangles: len(tris), Vertices: len(m.Positions)}
	info.Min, info.Max = m.Bounds()
	return info, nil
}

func writeBytes(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.IO("write", path, err)
	}
	return nil
}
