// Package export writes a voxel region to STL, OBJ/MTL or GLB files.
package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/glb"
	"github.com/voxelsplace/voxexport/mesher"
	"github.com/voxelsplace/voxexport/obj"
	"github.com/voxelsplace/voxexport/stl"
	"github.com/voxelsplace/voxexport/voxel"
)

// Mode selects the output format.
type Mode int

const (
	STL Mode = iota
	OBJColor
	OBJTexture
	GLB
)

func (m Mode) String() string {
	switch m {
	case STL:
		return "stl"
	case OBJColor:
		return "obj-color"
	case OBJTexture:
		return "obj-texture"
	case GLB:
		return "glb"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts the names String returns, plus "obj" for OBJColor.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stl":
		return STL, nil
	case "obj", "obj-color":
		return OBJColor, nil
	case "obj-texture", "obj-textured":
		return OBJTexture, nil
	case "glb":
		return GLB, nil
	}
	return 0, errs.Config("mode", "unknown export mode %q", s)
}

// Options controls Export.
type Options struct {
	Mode Mode
	// Merge selects greedy meshing with manifold repair. Without it every
	// visible voxel is written as its own box.
	Merge bool
	// Scale is the output size of one voxel. Zero means 1.
	Scale    float32
	Solidify bool
	// ConnectorHalfThickness is in voxel units; zero uses the mesher default.
	ConnectorHalfThickness float32
	// Textures resolves base textures for OBJTexture.
	Textures obj.TextureSource
	Progress func(float32)
}

// Status summarizes an export.
type Status int

const (
	Success Status = iota
	// Partial means every file was written but some materials fell back to
	// a flat color.
	Partial
	Failed
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Partial:
		return "partial"
	default:
		return "failed"
	}
}

// Result describes a finished export.
type Result struct {
	Status   Status
	Warnings []string
	Files    []string
	// Quads counts the merged quads, or the box faces in flat mode.
	Quads int
}

var logger = log.New(io.Discard, "", 0)

// SetLogger routes export logging to l. A nil l silences it.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	logger = l
}

// Export meshes the region c of src and writes it next to base, which is
// the output path without extension. STL writes <base>.stl, OBJ modes
// write <base>.obj and <base>.mtl plus <base>_textures/ when textured,
// and GLB writes <base>.glb.
func Export(ctx context.Context, src voxel.Source, c voxel.Cuboid, base string, opts Options) (Result, error) {
	res, err := export(ctx, src, c, base, opts)
	if err != nil {
		res.Status = Failed
		logger.Printf("export %s (%s) failed: %v", base, opts.Mode, err)
		return res, err
	}
	if len(res.Warnings) > 0 {
		res.Status = Partial
	}
	if opts.Progress != nil {
		opts.Progress(1)
	}
	logger.Printf("export %s (%s): %d quads, %d files, %s", base, opts.Mode, res.Quads, len(res.Files), res.Status)
	return res, nil
}

func export(ctx context.Context, src voxel.Source, c voxel.Cuboid, base string, opts Options) (Result, error) {
	var res Result
	if opts.Scale < 0 {
		return res, errs.Config("scale", "must be positive, got %v", opts.Scale)
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if opts.Mode < STL || opts.Mode > GLB {
		return res, errs.Config("mode", "unknown export mode %d", int(opts.Mode))
	}
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, errs.IO("mkdir", dir, err)
		}
	}

	var (
		quads []mesher.Quad
		boxes []mesher.Box
	)
	if opts.Merge {
		var err error
		quads, err = Quads(ctx, src, c, opts)
		if err != nil {
			return res, err
		}
		res.Quads = len(quads)
	} else {
		var err error
		boxes, err = mesher.Boxes(ctx, src, c, opts.Progress)
		if err != nil {
			return res, err
		}
		res.Quads = 6 * len(boxes)
	}
	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("export: %w", err)
	}

	switch opts.Mode {
	case STL:
		path := base + ".stl"
		err := writeFile(path, func(w io.Writer) error {
			if opts.Merge {
				return stl.Write(w, quads, opts.Scale)
			}
			return stl.WriteBoxes(w, boxes, opts.Scale)
		})
		if err != nil {
			return res, err
		}
		res.Files = append(res.Files, path)

	case OBJColor, OBJTexture:
		files, warnings, err := writeOBJ(base, quads, boxes, opts)
		res.Files = append(res.Files, files...)
		res.Warnings = append(res.Warnings, warnings...)
		if err != nil {
			return res, err
		}

	case GLB:
		if !opts.Merge {
			for _, b := range boxes {
				quads = append(quads, b.Quads()...)
			}
		}
		data, err := glb.FromQuads(quads, opts.Scale)
		if err != nil {
			return res, fmt.Errorf("encode glb: %w", err)
		}
		path := base + ".glb"
		err = writeFile(path, func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		})
		if err != nil {
			return res, err
		}
		res.Files = append(res.Files, path)
	}
	return res, nil
}

// Quads runs the greedy mesher over c and appends the manifold
// connectors. Display colors split runs for the color-carrying modes and
// tints split them for textured OBJ.
func Quads(ctx context.Context, src voxel.Source, c voxel.Cuboid, opts Options) ([]mesher.Quad, error) {
	quads, err := mesher.Greedy(ctx, src, c, mesher.Options{
		ColorMerge: opts.Mode == OBJColor || opts.Mode == GLB,
		TintMerge:  opts.Mode == OBJTexture,
		Solidify:   opts.Solidify,
		Progress:   opts.Progress,
	})
	if err != nil {
		return nil, err
	}
	connectors, err := mesher.Repair(ctx, src, c, mesher.RepairOptions{
		Solidify:      opts.Solidify,
		HalfThickness: opts.ConnectorHalfThickness,
	})
	if err != nil {
		return nil, err
	}
	if len(connectors) > 0 {
		logger.Printf("manifold repair added %d connectors", len(connectors)/6)
	}
	return append(quads, connectors...), nil
}

func writeOBJ(base string, quads []mesher.Quad, boxes []mesher.Box, opts Options) (files, warnings []string, err error) {
	objPath, mtlPath := base+".obj", base+".mtl"
	texDir := base + "_textures"

	objFile, err := os.Create(objPath)
	if err != nil {
		return nil, nil, errs.IO("create", objPath, err)
	}
	defer closeFile(objFile, objPath, &err)
	files = append(files, objPath)

	mtlFile, err := os.Create(mtlPath)
	if err != nil {
		return files, nil, errs.IO("create", mtlPath, err)
	}
	defer closeFile(mtlFile, mtlPath, &err)
	files = append(files, mtlPath)

	w := obj.NewWriter(objFile, mtlFile, filepath.Base(mtlPath), obj.Options{
		Textured:   opts.Mode == OBJTexture,
		Scale:      opts.Scale,
		TextureDir: filepath.Base(texDir),
		Textures:   opts.Textures,
		Sink:       obj.DirSink{Dir: texDir},
	})
	if opts.Merge {
		w.WriteQuads(quads)
	} else {
		w.WriteBoxes(boxes)
	}
	warnings = w.Warnings()
	if err := w.Flush(); err != nil {
		return files, warnings, errs.IO("write", objPath, err)
	}
	if opts.Mode == OBJTexture {
		if _, statErr := os.Stat(texDir); statErr == nil {
			files = append(files, texDir)
		}
	}
	return files, warnings, nil
}

// writeFile creates path and hands fn a buffered writer over it. The file
// is closed on every path; a failed close is reported when nothing failed
// before it.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errs.IO("create", path, err)
	}
	defer closeFile(f, path, &err)

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		return errs.IO("write", path, err)
	}
	return errs.IO("write", path, bw.Flush())
}

func closeFile(f *os.File, path string, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = errs.IO("close", path, cerr)
	}
}
