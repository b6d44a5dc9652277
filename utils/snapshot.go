package utils

import (
	"bufio"
	"fmt"
	"os"

	"github.com/voxelsplace/voxexport/errs"
	"github.com/voxelsplace/voxexport/voxel"
)

// LoadSnapshot reads a .vxs file.
func LoadSnapshot(path string) (*voxel.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.IO("open", path, err)
	}
	defer f.Close()
	g, err := voxel.DecodeSnapshot(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// SaveSnapshot writes g as a zstd-compressed .vxs file.
func SaveSnapshot(g *voxel.Grid, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errs.IO("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errs.IO("close", path, cerr)
		}
	}()
	bw := bufio.NewWriter(f)
	if err := voxel.EncodeSnapshot(bw, g, voxel.SnapshotCompZstd); err != nil {
		return errs.IO("write", path, err)
	}
	return errs.IO("write", path, bw.Flush())
}
