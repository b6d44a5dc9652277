package obj

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/geom"
	"github.com/voxelsplace/voxexport/palette"
)

// Read parses OBJ geometry. Faces may use v, v/vt, v//vn or v/vt/vn with
// negative indices; polygons are fan-triangulated. Each usemtl starts a
// group. UVs are returned with the origin at the top left.
func Read(r io.Reader) (*geom.Mesh, error) {
	m, _, err := read(r)
	return m, err
}

// Load reads an OBJ file and colors its groups from the referenced MTL
// libraries.
func Load(path string, load TextureLoader) (*geom.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.IO("open", path, err)
	}
	defer f.Close()
	m, libs, err := read(f)
	if err != nil {
		return nil, err
	}

	colors := map[string]palette.RGB{}
	dir := filepath.Dir(path)
	for _, lib := range libs {
		lp := filepath.Join(dir, lib)
		lf, err := os.Open(lp)
		if err != nil {
			return nil, errs.IO("open", lp, err)
		}
		got, err := ParseMTL(lf, dir, load)
		lf.Close()
		if err != nil {
			return nil, err
		}
		for k, v := range got {
			colors[k] = v
		}
	}
	m.GroupColors = make([]palette.RGB, len(m.GroupNames))
	for i, name := range m.GroupNames {
		c, ok := colors[name]
		if !ok {
			c = palette.White
		}
		m.GroupColors[i] = c
	}
	return m, nil
}

type corner struct {
	v, vt int
}

func read(r io.Reader) (*geom.Mesh, []string, error) {
	var (
		positions []mgl32.Vec3
		uvs       []mgl32.Vec2
		faces     [][3]corner
		groups    []int
		names     []string
		libs      []string
		group     = -1
		usesUV    bool
	)
	groupIndex := map[string]int{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			f, err := floats(fields[1:], 3, line)
			if err != nil {
				return nil, nil, err
			}
			positions = append(positions, mgl32.Vec3{f[0], f[1], f[2]})
		case "vt":
			f, err := floats(fields[1:], 2, line)
			if err != nil {
				return nil, nil, err
			}
			uvs = append(uvs, mgl32.Vec2{f[0], 1 - f[1]})
		case "f":
			if len(fields) < 4 {
				return nil, nil, errs.Format("obj", "line %d: face needs 3 vertices", line)
			}
			poly := make([]corner, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				c, err := parseCorner(tok, len(positions), len(uvs), line)
				if err != nil {
					return nil, nil, err
				}
				if c.vt >= 0 {
					usesUV = true
				}
				poly = append(poly, c)
			}
			for i := 1; i+1 < len(poly); i++ {
				faces = append(faces, [3]corner{poly[0], poly[i], poly[i+1]})
				groups = append(groups, group)
			}
		case "usemtl":
			name := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "usemtl"))
			g, ok := groupIndex[name]
			if !ok {
				g = len(names)
				groupIndex[name] = g
				names = append(names, name)
			}
			group = g
		case "mtllib":
			libs = append(libs, fields[1:]...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}

	m := &geom.Mesh{GroupNames: names}
	if len(names) > 0 {
		m.Groups = groups
	}
	if !usesUV {
		m.Positions = positions
		for _, f := range faces {
			m.Triangles = append(m.Triangles, [3]uint32{uint32(f[0].v), uint32(f[1].v), uint32(f[2].v)})
		}
		return m, libs, nil
	}

	// split vertices so UVs run parallel to positions
	index := map[corner]uint32{}
	for _, f := range faces {
		var tri [3]uint32
		for i, c := range f {
			idx, ok := index[c]
			if !ok {
				idx = uint32(len(m.Positions))
				index[c] = idx
				m.Positions = append(m.Positions, positions[c.v])
				uv := mgl32.Vec2{}
				if c.vt >= 0 {
					uv = uvs[c.vt]
				}
				m.UVs = append(m.UVs, uv)
			}
			tri[i] = idx
		}
		m.Triangles = append(m.Triangles, tri)
	}
	return m, libs, nil
}

func floats(fields []string, n, line int) ([]float32, error) {
	if len(fields) < n {
		return nil, errs.Format("obj", "line %d: want %d numbers, got %d", line, n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, errs.Format("obj", "line %d: bad number %q", line, fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseCorner(tok string, nv, nvt, line int) (corner, error) {
	parts := strings.Split(tok, "/")
	v, err := resolveIndex(parts[0], nv, line)
	if err != nil {
		return corner{}, err
	}
	c := corner{v: v, vt: -1}
	if len(parts) > 1 && parts[1] != "" {
		if c.vt, err = resolveIndex(parts[1], nvt, line); err != nil {
			return corner{}, err
		}
	}
	return c, nil
}

// resolveIndex turns a 1-based or negative OBJ index into a 0-based one.
func resolveIndex(s string, n, line int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Format("obj", "line %d: bad index %q", line, s)
	}
	if i < 0 {
		i += n
	} else {
		i--
	}
	if i < 0 || i >= n {
		return 0, errs.Format("obj", "line %d: index %s out of range", line, s)
	}
	return i, nil
}
