// Package api converts between formats entirely in memory, for callers
// that hold bytes rather than files (the WebAssembly build among them).
package api

import (
	"bytes"
	"context"
	"fmt"

	"github.com/voxelsplace/voxexport/export"
	"github.com/voxelsplace/voxexport/geom"
	"github.com/voxelsplace/voxexport/glb"
	"github.com/voxelsplace/voxexport/mesher"
	"github.com/voxelsplace/voxexport/obj"
	"github.com/voxelsplace/voxexport/palette"
	"github.com/voxelsplace/voxexport/stl"
	"github.com/voxelsplace/voxexport/voxel"
)

// OBJBundle is an OBJ with its MTL and optional texture.
type OBJBundle struct {
	OBJ []byte
	MTL []byte
	// Texture is nil when the source carried no image.
	Texture     []byte
	TextureFile string
}

// GLBToOBJ converts GLB bytes, raw or base64, into an OBJ named name.obj
// referencing name.mtl and, when the GLB embeds an image, name_texture.
func GLBToOBJ(data []byte, name string) (*OBJBundle, error) {
	m, err := glb.DecodeAuto(data)
	if err != nil {
		return nil, err
	}
	b := &OBJBundle{}
	if m.Image != nil {
		b.Texture = m.Image.Data
		b.TextureFile = name + "_texture" + glb.ExtensionForMIME(m.Image.MIME)
	}
	var objBuf, mtlBuf bytes.Buffer
	if err := obj.WriteMesh(&objBuf, m, name+".mtl"); err != nil {
		return nil, err
	}
	if err := obj.WriteMeshMTL(&mtlBuf, b.TextureFile); err != nil {
		return nil, err
	}
	b.OBJ, b.MTL = objBuf.Bytes(), mtlBuf.Bytes()
	return b, nil
}

func loadSnapshot(vxs []byte) (*voxel.Grid, error) {
	g, err := voxel.DecodeSnapshot(bytes.NewReader(vxs))
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return g, nil
}

// SnapshotToSTL meshes a .vxs snapshot into a binary STL, merged with
// manifold repair or as one box per voxel.
func SnapshotToSTL(vxs []byte, scale float32, merge bool) ([]byte, error) {
	g, err := loadSnapshot(vxs)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	var out bytes.Buffer
	if merge {
		quads, err := export.Quads(ctx, g, g.Bounds(), export.Options{Mode: export.STL})
		if err != nil {
			return nil, err
		}
		if err := stl.Write(&out, quads, scale); err != nil {
			return nil, err
		}
		return out.Bytes(), nil
	}
	boxes, err := mesher.Boxes(ctx, g, g.Bounds(), nil)
	if err != nil {
		return nil, err
	}
	if err := stl.WriteBoxes(&out, boxes, scale); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// SnapshotToOBJ meshes a .vxs snapshot into a flat-color OBJ named
// name.obj with its MTL.
func SnapshotToOBJ(vxs []byte, name string, scale float32) (*OBJBundle, error) {
	g, err := loadSnapshot(vxs)
	if err != nil {
		return nil, err
	}
	quads, err := export.Quads(context.Background(), g, g.Bounds(), export.Options{Mode: export.OBJColor})
	if err != nil {
		return nil, err
	}
	var objBuf, mtlBuf bytes.Buffer
	w := obj.NewWriter(&objBuf, &mtlBuf, name+".mtl", obj.Options{Scale: scale})
	w.WriteQuads(quads)
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return &OBJBundle{OBJ: objBuf.Bytes(), MTL: mtlBuf.Bytes()}, nil
}

// SnapshotToGLB meshes a .vxs snapshot into a vertex-colored GLB.
func SnapshotToGLB(vxs []byte, scale float32) ([]byte, error) {
	g, err := loadSnapshot(vxs)
	if err != nil {
		return nil, err
	}
	quads, err := export.Quads(context.Background(), g, g.Bounds(), export.Options{Mode: export.GLB})
	if err != nil {
		return nil, err
	}
	return glb.FromQuads(quads, scale)
}

// MeshToSnapshot voxelizes m and encodes the result as a zstd snapshot.
func MeshToSnapshot(m *geom.Mesh, opts voxel.VoxelizeOptions, q *palette.Quantizer) ([]byte, error) {
	g, err := voxel.Voxelize(m, opts, q)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := voxel.EncodeSnapshot(&out, g, voxel.SnapshotCompZstd); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// GLBToSnapshot voxelizes GLB bytes, raw or base64.
func GLBToSnapshot(data []byte, opts voxel.VoxelizeOptions, q *palette.Quantizer) ([]byte, error) {
	m, err := glb.DecodeAuto(data)
	if err != nil {
		return nil, err
	}
	return MeshToSnapshot(m, opts, q)
}

// STLToSnapshot voxelizes a binary STL.
func STLToSnapshot(data []byte, opts voxel.VoxelizeOptions, q *palette.Quantizer) ([]byte, error) {
	tris, err := stl.Read(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return MeshToSnapshot(stl.ToMesh(tris), opts, q)
}
