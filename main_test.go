//go:build !(js && wasm)

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelsplace/voxexport/voxel"
)

func TestParseRegion(t *testing.T) {
	c, err := parseRegion("4, 0, 9,0,3,2")
	require.NoError(t, err)
	assert.Equal(t, voxel.Pos{X: 0, Y: 0, Z: 2}, c.Min)
	assert.Equal(t, voxel.Pos{X: 4, Y: 3, Z: 9}, c.Max)

	_, err = parseRegion("1,2,3")
	assert.Error(t, err)
	_, err = parseRegion("1,2,3,4,5,x")
	assert.Error(t, err)
}
