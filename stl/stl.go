// Package stl reads and writes binary STL.
package stl

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/unixpickle/model3d/model3d"

	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/geom"
	"github.com/voxelsplace/voxexport/mesher"
)

const (
	headerSize = 80
	triSize    = 50
)

// Size returns the byte size of a binary STL holding n triangles.
func Size(n int) int64 { return headerSize + 4 + int64(n)*triSize }

// Write emits two triangles per quad, corners 1-2-3 and 1-3-4, with
// coordinates multiplied by scale. A zero scale writes voxel units.
// Facet normals follow the winding, which faces outward.
func Write(w io.Writer, quads []mesher.Quad, scale float32) error {
	tris := make([]*model3d.Triangle, 0, 2*len(quads))
	for _, q := range quads {
		tris = appendQuad(tris, q, scale)
	}
	return model3d.WriteSTL(w, tris)
}

// WriteBoxes emits the six faces of every box.
func WriteBoxes(w io.Writer, boxes []mesher.Box, scale float32) error {
	tris := make([]*model3d.Triangle, 0, 12*len(boxes))
	for _, b := range boxes {
		for _, q := range b.Quads() {
			tris = appendQuad(tris, q, scale)
		}
	}
	return model3d.WriteSTL(w, tris)
}

func appendQuad(tris []*model3d.Triangle, q mesher.Quad, scale float32) []*model3d.Triangle {
	if scale == 0 {
		scale = 1
	}
	for _, tri := range q.Triangles() {
		t := &model3d.Triangle{}
		for i, v := range tri {
			t[i] = coord(v.Mul(scale))
		}
		tris = append(tris, t)
	}
	return tris
}

func coord(v mgl32.Vec3) model3d.Coord3D {
	return model3d.Coord3D{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

func vec(c model3d.Coord3D) mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X), float32(c.Y), float32(c.Z)}
}

// Read parses a binary STL. The count field must agree with the data
// length.
func Read(r io.Reader) ([]*model3d.Triangle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < headerSize+4 {
		return nil, errs.Format("stl", "file is %d bytes, shorter than the header", len(data))
	}
	count := binary.LittleEndian.Uint32(data[headerSize:])
	if want := Size(int(count)); want != int64(len(data)) {
		return nil, errs.Format("stl", "count %d needs %d bytes, have %d", count, want, len(data))
	}
	tris, err := model3d.ReadSTL(bytes.NewReader(data))
	if err != nil {
		return nil, errs.Format("stl", "%v", err)
	}
	return tris, nil
}

// ToMesh joins identical vertices and returns an indexed mesh.
func ToMesh(tris []*model3d.Triangle) *geom.Mesh {
	m := &geom.Mesh{}
	index := map[mgl32.Vec3]uint32{}
	vert := func(c model3d.Coord3D) uint32 {
		key := vec(c)
		if i, ok := index[key]; ok {
			return i
		}
		i := uint32(len(m.Positions))
		m.Positions = append(m.Positions, key)
		index[key] = i
		return i
	}
	for _, t := range tris {
		m.Triangles = append(m.Triangles, [3]uint32{vert(t[0]), vert(t[1]), vert(t[2])})
	}
	return m
}
