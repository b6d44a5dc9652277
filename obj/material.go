package obj

import (
	"fmt"

	"github.com/voxelsplace/voxexport/palette"
	"github.com/voxelsplace/voxexport/voxel"
)

// use switches the current material, defining it first if needed.
func (w *Writer) use(v voxel.Voxel, display palette.RGB) {
	m := v.Material
	if m == nil {
		m = voxel.Filler
	}
	name := w.MaterialName(m.ID, v.Tinted, v.Tint, display)
	if !w.materials[name] {
		w.materials[name] = true
		w.define(name, m, v, display)
	}
	if name != w.current {
		w.current = name
		fmt.Fprintf(w.obj, "usemtl %s\n", name)
	}
}

func (w *Writer) define(name string, m *voxel.Material, v voxel.Voxel, display palette.RGB) {
	if w.opts.Textured {
		file, err := w.texture(m, v)
		if err == nil {
			fmt.Fprintf(w.mtl, "newmtl %s\n", name)
			fmt.Fprintf(w.mtl, "Kd 1.0 1.0 1.0\n")
			fmt.Fprintf(w.mtl, "map_Kd %s/%s\n\n", w.opts.TextureDir, file)
			return
		}
		w.warnings = append(w.warnings, fmt.Sprintf("texture for %s: %v", m.ID, err))
	}
	kd := display.Floats()
	fmt.Fprintf(w.mtl, "newmtl %s\n", name)
	fmt.Fprintf(w.mtl, "Kd %f %f %f\n", kd[0], kd[1], kd[2])
	fmt.Fprintf(w.mtl, "d 1.0\n")
	fmt.Fprintf(w.mtl, "illum 2\n\n")
}

func (w *Writer) texture(m *voxel.Material, v voxel.Voxel) (string, error) {
	if w.opts.Textures == nil {
		return "", fmt.Errorf("no texture source")
	}
	img, texName, err := w.opts.Textures.Texture(m)
	if err != nil {
		return "", err
	}
	return w.textureFor(img, texName, v.Tinted, v.Tint)
}
