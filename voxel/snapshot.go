package voxel

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/palette"
)

const (
	snapshotMagic   = "VXSN"
	snapshotVersion = 1
	headerLen       = 4 + 1 + 1 + 8
)

// SnapshotCompression is the body compression of a snapshot file.
type SnapshotCompression uint8

const (
	SnapshotCompNone SnapshotCompression = 0
	SnapshotCompZlib SnapshotCompression = 1
	SnapshotCompZstd SnapshotCompression = 2
)

// EncodeSnapshot writes g as a .vxs snapshot:
//
//	"VXSN" | version u8 | compression u8 | xxhash64(body) u64 | body
//
// The body holds the cuboid, the material table and the voxels in Morton
// order with delta-coded keys.
func EncodeSnapshot(w io.Writer, g *Grid, comp SnapshotCompression) error {
	body, err := snapshotBody(g)
	if err != nil {
		return err
	}
	sum := xxhash.Sum64(body)

	switch comp {
	case SnapshotCompNone:
	case SnapshotCompZlib:
		var zb bytes.Buffer
		zw, _ := zlib.NewWriterLevel(&zb, zlib.BestCompression)
		if _, err := zw.Write(body); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		body = zb.Bytes()
	case SnapshotCompZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		body = enc.EncodeAll(body, nil)
		enc.Close()
	default:
		return errs.Config("compression", "unsupported snapshot compression %d", comp)
	}

	var hdr [headerLen]byte
	copy(hdr[:4], snapshotMagic)
	hdr[4] = snapshotVersion
	hdr[5] = uint8(comp)
	binary.LittleEndian.PutUint64(hdr[6:], sum)
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

func snapshotBody(g *Grid) ([]byte, error) {
	c := g.bounds
	size := c.Size()
	if size.X > mortonLimit || size.Y > mortonLimit || size.Z > mortonLimit {
		return nil, errs.Config("cuboid", "snapshot cuboid %v too large", size)
	}

	buf := make([]byte, 0, 64+len(g.cells)*6)
	for _, v := range []int{c.Min.X, c.Min.Y, c.Min.Z, c.Max.X, c.Max.Y, c.Max.Z} {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(v)))
	}

	mats := g.Materials()
	index := make(map[string]uint64, len(mats))
	buf = writeUVarint(buf, uint64(len(mats)))
	for i, m := range mats {
		index[m.ID] = uint64(i)
		buf = writeString(buf, m.ID)
		buf = append(buf, byte(m.Flags), m.Color.R, m.Color.G, m.Color.B)
		buf = writeString(buf, m.Texture)
	}

	type cell struct {
		key uint64
		v   Voxel
	}
	cells := make([]cell, 0, len(g.cells))
	for p, v := range g.cells {
		cells = append(cells, cell{c.mortonKey(p), v})
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].key < cells[j].key })

	buf = writeUVarint(buf, uint64(len(cells)))
	var prev uint64
	for _, e := range cells {
		buf = writeUVarint(buf, e.key-prev)
		prev = e.key
		buf = writeUVarint(buf, index[e.v.Material.ID])
		if e.v.Tinted {
			buf = append(buf, 1, e.v.Tint.R, e.v.Tint.G, e.v.Tint.B)
		} else {
			buf = append(buf, 0)
		}
	}
	return buf, nil
}

// DecodeSnapshot reads a snapshot written by EncodeSnapshot. Materials are
// rebuilt from the file; pass them through a MaterialSet to share pointers
// with a live world.
func DecodeSnapshot(r io.Reader) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < headerLen || !bytes.Equal(data[:4], []byte(snapshotMagic)) {
		return nil, errs.Format("vxs", "bad magic")
	}
	if data[4] != snapshotVersion {
		return nil, errs.Format("vxs", "unsupported version %d", data[4])
	}
	sum := binary.LittleEndian.Uint64(data[6:headerLen])
	body := data[headerLen:]
	switch SnapshotCompression(data[5]) {
	case SnapshotCompNone:
	case SnapshotCompZlib:
		zr, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, errs.Format("vxs", "zlib: %v", err)
		}
		body, err = io.ReadAll(zr)
		zr.Close()
		if err != nil {
			return nil, errs.Format("vxs", "zlib: %v", err)
		}
	case SnapshotCompZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		body, err = dec.DecodeAll(body, nil)
		if err != nil {
			return nil, errs.Format("vxs", "zstd: %v", err)
		}
	default:
		return nil, errs.Format("vxs", "unsupported compression %d", data[5])
	}
	if xxhash.Sum64(body) != sum {
		return nil, errs.Format("vxs", "checksum mismatch")
	}

	g, err := parseSnapshotBody(body)
	if err != nil {
		return nil, errs.Format("vxs", "%v", err)
	}
	return g, nil
}

func parseSnapshotBody(body []byte) (*Grid, error) {
	pos := 0
	raw, err := readBytes(body, &pos, 24)
	if err != nil {
		return nil, err
	}
	var co [6]int
	for i := range co {
		co[i] = int(int32(binary.LittleEndian.Uint32(raw[4*i:])))
	}
	g := NewGrid(NewCuboid(Pos{co[0], co[1], co[2]}, Pos{co[3], co[4], co[5]}))

	n, err := readUVarint(body, &pos)
	if err != nil {
		return nil, err
	}
	mats := make([]*Material, 0, min(n, 1<<16))
	for i := uint64(0); i < n; i++ {
		id, err := readString(body, &pos)
		if err != nil {
			return nil, err
		}
		b, err := readBytes(body, &pos, 4)
		if err != nil {
			return nil, err
		}
		tex, err := readString(body, &pos)
		if err != nil {
			return nil, err
		}
		m := NewMaterial(id, palette.RGB{R: b[1], G: b[2], B: b[3]}, Flags(b[0]))
		m.Texture = tex
		mats = append(mats, m)
	}

	count, err := readUVarint(body, &pos)
	if err != nil {
		return nil, err
	}
	var key uint64
	for i := uint64(0); i < count; i++ {
		d, err := readUVarint(body, &pos)
		if err != nil {
			return nil, err
		}
		key += d
		mi, err := readUVarint(body, &pos)
		if err != nil {
			return nil, err
		}
		if mi >= uint64(len(mats)) {
			return nil, fmt.Errorf("material index %d out of range", mi)
		}
		tb, err := readBytes(body, &pos, 1)
		if err != nil {
			return nil, err
		}
		v := Of(mats[mi])
		if tb[0] != 0 {
			rgb, err := readBytes(body, &pos, 3)
			if err != nil {
				return nil, err
			}
			v = TintedOf(mats[mi], palette.RGB{R: rgb[0], G: rgb[1], B: rgb[2]})
		}
		if err := g.Set(g.bounds.fromMortonKey(key), v); err != nil {
			return nil, err
		}
	}
	if pos != len(body) {
		return nil, fmt.Errorf("%d trailing bytes", len(body)-pos)
	}
	return g, nil
}
