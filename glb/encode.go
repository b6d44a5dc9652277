package glb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/geom"
)

// Encode writes m as a GLB that Decode reads back: float positions and
// UVs, uint32 indices and the embedded image.
func Encode(m *geom.Mesh) ([]byte, error) {
	if _, ok := m.Validate(); !ok {
		return nil, errs.Format("glb", "mesh references a missing vertex")
	}
	if m.HasUVs() && len(m.UVs) != len(m.Positions) {
		return nil, errs.Format("glb", "%d UVs for %d vertices", len(m.UVs), len(m.Positions))
	}

	var bin bytes.Buffer
	doc := document{Asset: map[string]any{"version": "2.0", "generator": "voxexport"}}
	addView := func(b []byte) int {
		for bin.Len()%4 != 0 {
			bin.WriteByte(0)
		}
		doc.BufferViews = append(doc.BufferViews, bufferView{ByteOffset: bin.Len(), ByteLength: len(b)})
		bin.Write(b)
		return len(doc.BufferViews) - 1
	}
	addAccessor := func(a accessor) int {
		doc.Accessors = append(doc.Accessors, a)
		return len(doc.Accessors) - 1
	}

	lo, hi := m.Bounds()
	pos := make([]byte, 0, 12*len(m.Positions))
	for _, p := range m.Positions {
		for _, f := range p {
			pos = binary.LittleEndian.AppendUint32(pos, math.Float32bits(f))
		}
	}
	pv := addView(pos)
	prim := primitive{Attributes: map[string]int{}}
	prim.Attributes["POSITION"] = addAccessor(accessor{
		BufferView: &pv, ComponentType: compFloat32, Count: len(m.Positions), Type: "VEC3",
		Min: lo[:], Max: hi[:],
	})

	if m.HasUVs() {
		uv := make([]byte, 0, 8*len(m.UVs))
		for _, t := range m.UVs {
			uv = binary.LittleEndian.AppendUint32(uv, math.Float32bits(t[0]))
			uv = binary.LittleEndian.AppendUint32(uv, math.Float32bits(t[1]))
		}
		uvv := addView(uv)
		prim.Attributes["TEXCOORD_0"] = addAccessor(accessor{
			BufferView: &uvv, ComponentType: compFloat32, Count: len(m.UVs), Type: "VEC2",
		})
	}

	idx := make([]byte, 0, 12*len(m.Triangles))
	for _, t := range m.Triangles {
		for _, i := range t {
			idx = binary.LittleEndian.AppendUint32(idx, i)
		}
	}
	iv := addView(idx)
	ia := addAccessor(accessor{BufferView: &iv, ComponentType: compUint32, Count: 3 * len(m.Triangles), Type: "SCALAR"})
	prim.Indices = &ia
	doc.Meshes = []mesh{{Primitives: []primitive{prim}}}

	if m.Image != nil {
		imv := addView(m.Image.Data)
		doc.Images = []imageRef{{BufferView: &imv, MimeType: m.Image.MIME}}
	}

	zero := 0
	doc.Nodes = []node{{Mesh: &zero}}
	doc.Scenes = []scene{{Nodes: []int{0}}}
	doc.Scene = &zero

	for bin.Len()%4 != 0 {
		bin.WriteByte(0)
	}
	doc.Buffers = []buffer{{ByteLength: bin.Len()}}

	js, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}

	total := 12 + 8 + len(js) + 8 + bin.Len()
	out := make([]byte, 0, total)
	out = binary.LittleEndian.AppendUint32(out, magic)
	out = binary.LittleEndian.AppendUint32(out, 2)
	out = binary.LittleEndian.AppendUint32(out, uint32(total))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(js)))
	out = binary.LittleEndian.AppendUint32(out, chunkJSON)
	out = append(out, js...)
	out = binary.LittleEndian.AppendUint32(out, uint32(bin.Len()))
	out = binary.LittleEndian.AppendUint32(out, chunkBIN)
	out = append(out, bin.Bytes()...)
	return out, nil
}
