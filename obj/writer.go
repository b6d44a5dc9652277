// Package obj writes and reads Wavefront OBJ and MTL files.
package obj

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"io"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelsplace/voxexport/mesher"
	"github.com/voxelsplace/voxexport/palette"
)

// Options controls a Writer.
type Options struct {
	// Textured writes map_Kd materials instead of flat Kd colors.
	Textured bool
	// Scale multiplies every vertex.
	Scale float32
	// TextureDir is the directory name map_Kd paths are relative to.
	TextureDir string
	Textures   TextureSource
	Sink       TextureSink
}

// Writer streams geometry into an OBJ and its materials into an MTL.
type Writer struct {
	obj, mtl *bufio.Writer
	opts     Options

	materials map[string]bool
	files     map[string]string // texture file name -> file actually referenced
	contents  map[uint64]string // pixel hash -> file
	current   string
	vertices  int
	flatInit  bool
	warnings  []string
}

// NewWriter writes the OBJ and MTL headers. mtlName is the file name the
// OBJ references through mtllib.
func NewWriter(objW, mtlW io.Writer, mtlName string, opts Options) *Writer {
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	w := &Writer{
		obj:       bufio.NewWriter(objW),
		mtl:       bufio.NewWriter(mtlW),
		opts:      opts,
		materials: map[string]bool{},
		files:     map[string]string{},
		contents:  map[uint64]string{},
	}
	fmt.Fprintf(w.obj, "# Exported by voxexport\n")
	fmt.Fprintf(w.obj, "mtllib %s\n", mtlName)
	fmt.Fprintf(w.mtl, "# Material Library\n")
	return w
}

// Warnings lists the materials that fell back to a flat color.
func (w *Writer) Warnings() []string { return w.warnings }

// WriteQuads appends merged quads: four v, four vt and one vn per quad,
// with the face referencing them relatively. Textured UVs tile once per
// voxel.
func (w *Writer) WriteQuads(quads []mesher.Quad) {
	for _, q := range quads {
		w.use(q.Voxel, q.Color)
		cs := q.Corners()
		d := q.Dir.Axis()
		a, b := (d+1)%3, (d+2)%3
		ea, eb := q.Max[a]-q.Min[a], q.Max[b]-q.Min[b]
		for _, c := range cs {
			p := c.Mul(w.opts.Scale)
			fmt.Fprintf(w.obj, "v %f %f %f\n", p[0], p[1], p[2])
		}
		for _, c := range cs {
			u, v := c[a]-q.Min[a], c[b]-q.Min[b]
			if !w.opts.Textured {
				u, v = unit(u, ea), unit(v, eb)
			}
			fmt.Fprintf(w.obj, "vt %f %f\n", u, v)
		}
		n := q.Normal()
		fmt.Fprintf(w.obj, "vn %.1f %.1f %.1f\n", n[0], n[1], n[2])
		fmt.Fprintf(w.obj, "f -4/-4/-1 -3/-3/-1 -2/-2/-1 -1/-1/-1\n")
		w.vertices += 4
	}
}

func unit(x, extent float32) float32 {
	if extent == 0 {
		return 0
	}
	return x / extent
}

// box corner order, bottom then top, each ring starting at (min x, max z)
var boxFaces = [6]struct {
	idx    [4]int
	normal int
}{
	{[4]int{4, 3, 2, 1}, 1}, // down
	{[4]int{5, 6, 7, 8}, 2}, // up
	{[4]int{1, 2, 6, 5}, 3}, // south
	{[4]int{3, 4, 8, 7}, 4}, // north
	{[4]int{4, 1, 5, 8}, 5}, // west
	{[4]int{2, 3, 7, 6}, 6}, // east
}

// WriteBoxes appends unmerged boxes: eight v per box, sharing four vt and
// six vn written once, with absolute face indices.
func (w *Writer) WriteBoxes(boxes []mesher.Box) {
	if !w.flatInit {
		w.flatInit = true
		for _, uv := range []string{"0.0 0.0", "1.0 0.0", "1.0 1.0", "0.0 1.0"} {
			fmt.Fprintf(w.obj, "vt %s\n", uv)
		}
		for _, d := range []mesher.Direction{mesher.Down, mesher.Up, mesher.South, mesher.North, mesher.West, mesher.East} {
			n := d.Normal()
			fmt.Fprintf(w.obj, "vn %.1f %.1f %.1f\n", n[0], n[1], n[2])
		}
	}
	for _, b := range boxes {
		w.use(b.Voxel, b.Color)
		lo, hi := b.Min.Mul(w.opts.Scale), b.Max.Mul(w.opts.Scale)
		for _, p := range []mgl32.Vec3{
			{lo[0], lo[1], hi[2]}, {hi[0], lo[1], hi[2]}, {hi[0], lo[1], lo[2]}, {lo[0], lo[1], lo[2]},
			{lo[0], hi[1], hi[2]}, {hi[0], hi[1], hi[2]}, {hi[0], hi[1], lo[2]}, {lo[0], hi[1], lo[2]},
		} {
			fmt.Fprintf(w.obj, "v %f %f %f\n", p[0], p[1], p[2])
		}
		base := w.vertices
		for _, f := range boxFaces {
			fmt.Fprintf(w.obj, "f %d/1/%d %d/2/%d %d/3/%d %d/4/%d\n",
				base+f.idx[0], f.normal,
				base+f.idx[1], f.normal,
				base+f.idx[2], f.normal,
				base+f.idx[3], f.normal)
		}
		w.vertices += 8
	}
}

// Flush writes out both buffers.
func (w *Writer) Flush() error {
	if err := w.obj.Flush(); err != nil {
		return err
	}
	return w.mtl.Flush()
}

// MaterialName returns the MTL name of a voxel: mat_<id>, suffixed with
// the tint in textured mode or the display color in color mode.
func (w *Writer) MaterialName(id string, tinted bool, tint, display palette.RGB) string {
	name := "mat_" + sanitize(id)
	switch {
	case !w.opts.Textured:
		name += "_" + display.Hex()
	case tinted:
		name += "_" + tint.Hex()
	}
	return name
}

// textureFor writes, once per file name, the possibly tinted texture and
// returns the file it should be referenced as. Identical pixel data
// written under another name is reused.
func (w *Writer) textureFor(base image.Image, name string, tinted bool, tint palette.RGB) (string, error) {
	file := sanitize(name)
	if tinted {
		file += "_tinted_" + tint.Hex()
	}
	file += ".png"
	if ref, ok := w.files[file]; ok {
		return ref, nil
	}

	img := base
	if tinted {
		img = Tint(base, tint)
	}
	sum := pixelHash(img)
	if ref, ok := w.contents[sum]; ok {
		w.files[file] = ref
		return ref, nil
	}
	if w.opts.Sink == nil {
		return "", fmt.Errorf("no texture sink")
	}
	if err := w.opts.Sink.Save(file, img); err != nil {
		return "", err
	}
	w.files[file] = file
	w.contents[sum] = file
	return file, nil
}

func pixelHash(img image.Image) uint64 {
	h := xxhash.New()
	b := img.Bounds()
	var px [8]byte
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			binary.LittleEndian.PutUint16(px[0:], uint16(r))
			binary.LittleEndian.PutUint16(px[2:], uint16(g))
			binary.LittleEndian.PutUint16(px[4:], uint16(bl))
			binary.LittleEndian.PutUint16(px[6:], uint16(a))
			h.Write(px[:])
		}
	}
	var dims [8]byte
	binary.LittleEndian.PutUint32(dims[:4], uint32(b.Dx()))
	binary.LittleEndian.PutUint32(dims[4:], uint32(b.Dy()))
	h.Write(dims[:])
	return h.Sum64()
}
