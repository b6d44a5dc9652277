// Package glb reads and writes the binary glTF container for a single
// mesh, and exports merged voxel quads as glTF.
package glb

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/geom"
)

const (
	magic     = 0x46546C67 // "glTF"
	chunkJSON = 0x4E4F534A // "JSON"
	chunkBIN  = 0x004E4942 // "BIN\0"

	compUint16  = 5123
	compUint32  = 5125
	compFloat32 = 5126

	modeTriangles = 4
)

type document struct {
	Asset       map[string]any `json:"asset"`
	Buffers     []buffer       `json:"buffers,omitempty"`
	BufferViews []bufferView   `json:"bufferViews"`
	Accessors   []accessor     `json:"accessors"`
	Meshes      []mesh         `json:"meshes"`
	Images      []imageRef     `json:"images,omitempty"`
	Nodes       []node         `json:"nodes,omitempty"`
	Scenes      []scene        `json:"scenes,omitempty"`
	Scene       *int           `json:"scene,omitempty"`
}

type buffer struct {
	ByteLength int `json:"byteLength"`
}

type bufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset,omitempty"`
	ByteLength int `json:"byteLength"`
	ByteStride int `json:"byteStride,omitempty"`
}

type accessor struct {
	BufferView    *int      `json:"bufferView,omitempty"`
	ByteOffset    int       `json:"byteOffset,omitempty"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float32 `json:"min,omitempty"`
	Max           []float32 `json:"max,omitempty"`
}

type mesh struct {
	Primitives []primitive `json:"primitives"`
}

type primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
	Mode       *int           `json:"mode,omitempty"`
}

type imageRef struct {
	BufferView *int   `json:"bufferView,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
}

type node struct {
	Mesh *int `json:"mesh,omitempty"`
}

type scene struct {
	Nodes []int `json:"nodes"`
}

// DecodeAuto accepts raw GLB bytes or their base64 text.
func DecodeAuto(data []byte) (*geom.Mesh, error) {
	if len(data) >= 4 && binary.LittleEndian.Uint32(data) == magic {
		return Decode(data)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, errs.Format("glb", "neither GLB nor base64: %v", err)
	}
	return Decode(raw)
}

// Decode reads mesh 0, primitive 0 of a GLB: POSITION, optional
// TEXCOORD_0, and uint16 or uint32 triangle indices, plus image 0 when
// present.
func Decode(data []byte) (*geom.Mesh, error) {
	doc, bin, err := split(data)
	if err != nil {
		return nil, err
	}
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return nil, errs.Format("glb", "no mesh primitive")
	}
	prim := doc.Meshes[0].Primitives[0]
	if prim.Mode != nil && *prim.Mode != modeTriangles {
		return nil, errs.Format("glb", "primitive mode %d is not a triangle list", *prim.Mode)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, errs.Format("glb", "primitive has no POSITION accessor")
	}
	pos, err := doc.floats(bin, posIdx, "VEC3", 3)
	if err != nil {
		return nil, err
	}
	m := &geom.Mesh{Positions: make([]mgl32.Vec3, len(pos)/3)}
	for i := range m.Positions {
		m.Positions[i] = mgl32.Vec3{pos[3*i], pos[3*i+1], pos[3*i+2]}
	}

	if uvIdx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uv, err := doc.floats(bin, uvIdx, "VEC2", 2)
		if err != nil {
			return nil, err
		}
		if len(uv)/2 != len(m.Positions) {
			return nil, errs.Format("glb", "TEXCOORD_0 has %d entries for %d vertices", len(uv)/2, len(m.Positions))
		}
		m.UVs = make([]mgl32.Vec2, len(uv)/2)
		for i := range m.UVs {
			m.UVs[i] = mgl32.Vec2{uv[2*i], uv[2*i+1]}
		}
	}

	var idx []uint32
	if prim.Indices != nil {
		if idx, err = doc.indices(bin, *prim.Indices); err != nil {
			return nil, err
		}
	} else {
		idx = make([]uint32, len(m.Positions))
		for i := range idx {
			idx[i] = uint32(i)
		}
	}
	m.Triangles = make([][3]uint32, len(idx)/3)
	for i := range m.Triangles {
		m.Triangles[i] = [3]uint32{idx[3*i], idx[3*i+1], idx[3*i+2]}
	}
	if tri, ok := m.Validate(); !ok {
		return nil, errs.Format("glb", "triangle %d references a missing vertex", tri)
	}

	if len(doc.Images) > 0 && doc.Images[0].BufferView != nil {
		b, err := doc.view(bin, *doc.Images[0].BufferView)
		if err != nil {
			return nil, err
		}
		m.Image = &geom.Image{Data: append([]byte(nil), b...), MIME: doc.Images[0].MimeType}
	}
	return m, nil
}

// split validates the container and returns the parsed JSON and the
// binary chunk.
func split(data []byte) (*document, []byte, error) {
	if len(data) < 12 || binary.LittleEndian.Uint32(data) != magic {
		return nil, nil, errs.Format("glb", "bad magic")
	}
	if total := binary.LittleEndian.Uint32(data[8:]); int64(total) > int64(len(data)) {
		return nil, nil, errs.Format("glb", "header length %d exceeds %d bytes", total, len(data))
	}
	jsonChunk, rest, err := chunk(data[12:], chunkJSON, "JSON")
	if err != nil {
		return nil, nil, err
	}
	bin, _, err := chunk(rest, chunkBIN, "BIN")
	if err != nil {
		return nil, nil, err
	}
	var doc document
	if err := json.Unmarshal(bytes.TrimRight(jsonChunk, " \x00"), &doc); err != nil {
		return nil, nil, errs.Format("glb", "json chunk: %v", err)
	}
	return &doc, bin, nil
}

func chunk(b []byte, typ uint32, name string) (body, rest []byte, err error) {
	if len(b) < 8 {
		return nil, nil, errs.Format("glb", "missing %s chunk", name)
	}
	n := binary.LittleEndian.Uint32(b)
	if got := binary.LittleEndian.Uint32(b[4:]); got != typ {
		return nil, nil, errs.Format("glb", "expected %s chunk, found type %#x", name, got)
	}
	if int64(n) > int64(len(b)-8) {
		return nil, nil, errs.Format("glb", "%s chunk length %d exceeds remaining %d bytes", name, n, len(b)-8)
	}
	return b[8 : 8+n], b[8+n:], nil
}

func (d *document) view(bin []byte, i int) ([]byte, error) {
	if i < 0 || i >= len(d.BufferViews) {
		return nil, errs.Format("glb", "bufferView %d out of range", i)
	}
	v := d.BufferViews[i]
	if v.ByteOffset < 0 || v.ByteLength < 0 || v.ByteOffset > len(bin) || v.ByteLength > len(bin)-v.ByteOffset {
		return nil, errs.Format("glb", "bufferView %d exceeds the binary chunk", i)
	}
	return bin[v.ByteOffset : v.ByteOffset+v.ByteLength], nil
}

// elements returns the accessor's bytes, the stride between elements and
// the element count.
func (d *document) elements(bin []byte, i, elemSize int) ([]byte, int, int, error) {
	if i < 0 || i >= len(d.Accessors) {
		return nil, 0, 0, errs.Format("glb", "accessor %d out of range", i)
	}
	a := d.Accessors[i]
	if a.BufferView == nil {
		return nil, 0, 0, errs.Format("glb", "accessor %d has no bufferView", i)
	}
	v, err := d.view(bin, *a.BufferView)
	if err != nil {
		return nil, 0, 0, err
	}
	stride := d.BufferViews[*a.BufferView].ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if stride < elemSize {
		return nil, 0, 0, errs.Format("glb", "bufferView %d stride %d is below element size %d", *a.BufferView, stride, elemSize)
	}
	if a.Count < 0 || a.ByteOffset < 0 {
		return nil, 0, 0, errs.Format("glb", "accessor %d is malformed", i)
	}
	// Compared by division so huge counts cannot overflow.
	if a.Count > 0 && (a.ByteOffset > len(v)-elemSize || a.Count-1 > (len(v)-a.ByteOffset-elemSize)/stride) {
		return nil, 0, 0, errs.Format("glb", "accessor %d exceeds its bufferView", i)
	}
	return v[a.ByteOffset:], stride, a.Count, nil
}

func (d *document) floats(bin []byte, i int, typ string, n int) ([]float32, error) {
	if i < 0 || i >= len(d.Accessors) {
		return nil, errs.Format("glb", "accessor %d out of range", i)
	}
	if a := d.Accessors[i]; a.Type != typ || a.ComponentType != compFloat32 {
		return nil, errs.Format("glb", "accessor %d is %s/%d, want %s float", i, a.Type, a.ComponentType, typ)
	}
	b, stride, count, err := d.elements(bin, i, 4*n)
	if err != nil {
		return nil, err
	}
	out := make([]float32, 0, count*n)
	for e := 0; e < count; e++ {
		for k := 0; k < n; k++ {
			out = append(out, math.Float32frombits(binary.LittleEndian.Uint32(b[e*stride+4*k:])))
		}
	}
	return out, nil
}

func (d *document) indices(bin []byte, i int) ([]uint32, error) {
	if i < 0 || i >= len(d.Accessors) {
		return nil, errs.Format("glb", "accessor %d out of range", i)
	}
	size := 0
	switch ct := d.Accessors[i].ComponentType; ct {
	case compUint16:
		size = 2
	case compUint32:
		size = 4
	default:
		return nil, errs.Format("glb", "unsupported index component type %d", ct)
	}
	b, stride, count, err := d.elements(bin, i, size)
	if err != nil {
		return nil, err
	}
	if count%3 != 0 {
		return nil, errs.Format("glb", "index count %d is not a multiple of 3", count)
	}
	out := make([]uint32, count)
	for e := range out {
		if size == 2 {
			out[e] = uint32(binary.LittleEndian.Uint16(b[e*stride:]))
		} else {
			out[e] = binary.LittleEndian.Uint32(b[e*stride:])
		}
	}
	return out, nil
}

// ExtensionForMIME returns ".png" for PNG images and ".jpg" otherwise.
func ExtensionForMIME(mime string) string {
	if strings.Contains(strings.ToLower(mime), "png") {
		return ".png"
	}
	return ".jpg"
}
