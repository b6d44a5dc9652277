package obj

import (
	"bufio"
	"image"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/palette"
)

// TextureLoader decodes the image at path.
type TextureLoader func(path string) (image.Image, error)

// ParseMTL returns the diffuse color of every material. A readable map_Kd
// texture overrides Kd with its average opaque color; an unreadable one
// leaves Kd in place. Texture paths are relative to dir.
func ParseMTL(r io.Reader, dir string, load TextureLoader) (map[string]palette.RGB, error) {
	if load == nil {
		load = LoadImage
	}
	out := map[string]palette.RGB{}
	var (
		name string
		cur  palette.RGB
	)
	flush := func() {
		if name != "" {
			out[name] = cur
		}
	}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		fields := strings.Fields(text)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "newmtl":
			flush()
			name = strings.TrimSpace(strings.TrimPrefix(text, "newmtl"))
			cur = palette.White
		case "Kd":
			if len(fields) < 4 {
				return nil, errs.Format("mtl", "line %d: Kd needs 3 values", line)
			}
			var c [3]uint8
			for i := range c {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, errs.Format("mtl", "line %d: bad number %q", line, fields[i+1])
				}
				c[i] = uint8(max(0, min(1, f)) * 255)
			}
			cur = palette.RGB{R: c[0], G: c[1], B: c[2]}
		case "map_Kd":
			file := strings.TrimSpace(strings.TrimPrefix(text, "map_Kd"))
			if file == "" {
				continue
			}
			if img, err := load(filepath.Join(dir, filepath.FromSlash(file))); err == nil {
				cur = palette.AverageColor(img)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return out, nil
}
