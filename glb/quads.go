package glb

import (
	"bytes"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/voxelsplace/voxexport/mesher"
)

// FromQuads exports merged quads as a GLB with flat normals and
// per-vertex colors taken from each quad's display color.
func FromQuads(quads []mesher.Quad, scale float32) ([]byte, error) {
	if scale == 0 {
		scale = 1
	}
	positions := make([][3]float32, 0, 4*len(quads))
	normals := make([][3]float32, 0, 4*len(quads))
	colors := make([][4]float32, 0, 4*len(quads))
	indices := make([]uint32, 0, 6*len(quads))
	for _, q := range quads {
		base := uint32(len(positions))
		n := q.Normal()
		c := q.Color.Floats()
		for _, p := range q.Corners() {
			positions = append(positions, p.Mul(scale))
			normals = append(normals, n)
			colors = append(colors, [4]float32{c[0], c[1], c[2], 1})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "voxexport"
	prim := &gltf.Primitive{}
	if len(quads) > 0 {
		posAccessor := modeler.WritePosition(doc, positions)
		normalAccessor := modeler.WriteNormal(doc, normals)
		colorAccessor := modeler.WriteColor(doc, colors)
		indicesAccessor := modeler.WriteIndices(doc, indices)
		prim.Attributes = map[string]uint32{
			gltf.POSITION: uint32(posAccessor),
			gltf.NORMAL:   uint32(normalAccessor),
			gltf.COLOR_0:  uint32(colorAccessor),
		}
		prim.Indices = gltf.Index(uint32(indicesAccessor))
	}
	pbr := &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float32{1, 1, 1, 1}, MetallicFactor: gltf.Float(0), RoughnessFactor: gltf.Float(1)}
	doc.Materials = []*gltf.Material{{PBRMetallicRoughness: pbr, AlphaMode: gltf.AlphaOpaque}}
	prim.Material = gltf.Index(0)
	doc.Meshes = []*gltf.Mesh{{Name: "VoxelMesh", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(0))

	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
