package obj

import (
	"bufio"
	"fmt"
	"io"

	"github.com/voxelsplace/voxexport/geom"
)

// MeshMaterial is the single material name used for decoded meshes.
const MeshMaterial = "default_ai"

// WriteMesh writes a decoded mesh. UVs are flipped vertically into OBJ
// convention. mtlName is omitted from the output when empty.
func WriteMesh(w io.Writer, m *geom.Mesh, mtlName string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# Converted by voxexport\n")
	if mtlName != "" {
		fmt.Fprintf(bw, "mtllib %s\n", mtlName)
	}
	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %f %f %f\n", p[0], p[1], p[2])
	}
	uvs := m.HasUVs()
	if uvs {
		for _, t := range m.UVs {
			fmt.Fprintf(bw, "vt %f %f\n", t[0], 1-t[1])
		}
	}
	fmt.Fprintf(bw, "usemtl %s\n", MeshMaterial)
	for _, t := range m.Triangles {
		a, b, c := t[0]+1, t[1]+1, t[2]+1
		if uvs {
			fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c)
		} else {
			fmt.Fprintf(bw, "f %d %d %d\n", a, b, c)
		}
	}
	return bw.Flush()
}

// WriteMeshMTL writes the companion material of WriteMesh. textureFile may
// be empty.
func WriteMeshMTL(w io.Writer, textureFile string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "newmtl %s\n", MeshMaterial)
	fmt.Fprintf(bw, "Kd 1.0 1.0 1.0\n")
	if textureFile != "" {
		fmt.Fprintf(bw, "map_Kd %s\n", textureFile)
	}
	return bw.Flush()
}
