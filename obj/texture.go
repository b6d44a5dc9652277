package obj

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/palette"
	"github.com/voxelsplace/voxexport/voxel"
)

// TextureSource resolves the base texture of a material. The returned
// name identifies the texture and becomes part of the exported file name.
type TextureSource interface {
	Texture(m *voxel.Material) (img image.Image, name string, err error)
}

// DirTextures loads <Root>/<material texture>.png.
type DirTextures struct {
	Root string
}

func (d DirTextures) Texture(m *voxel.Material) (image.Image, string, error) {
	if m.Texture == "" {
		return nil, "", fmt.Errorf("material %s has no texture", m.ID)
	}
	path := filepath.Join(d.Root, filepath.FromSlash(m.Texture)+".png")
	img, err := LoadImage(path)
	if err != nil {
		return nil, "", err
	}
	return img, m.Texture, nil
}

// TextureSink stores exported texture files.
type TextureSink interface {
	Save(file string, img image.Image) error
}

// DirSink writes PNG files into Dir, creating it on first use.
type DirSink struct {
	Dir string
}

func (d DirSink) Save(file string, img image.Image) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return errs.IO("mkdir", d.Dir, err)
	}
	path := filepath.Join(d.Dir, file)
	f, err := os.Create(path)
	if err != nil {
		return errs.IO("create", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errs.IO("write", path, err)
	}
	return errs.IO("close", path, f.Close())
}

// LoadImage decodes a png, jpeg, bmp or webp file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.IO("open", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Tint multiplies every pixel by c. Alpha is kept and fully transparent
// pixels become (0,0,0,0).
func Tint(img image.Image, c palette.RGB) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if p.A == 0 {
				continue
			}
			out.SetNRGBA(x-b.Min.X, y-b.Min.Y, color.NRGBA{
				R: uint8(uint16(p.R) * uint16(c.R) / 255),
				G: uint8(uint16(p.G) * uint16(c.G) / 255),
				B: uint8(uint16(p.B) * uint16(c.B) / 255),
				A: p.A,
			})
		}
	}
	return out
}

// sanitize maps an identifier onto [A-Za-z0-9_.-].
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			return r
		}
		return '_'
	}, s)
}
