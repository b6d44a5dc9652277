package errs

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("decode: %w", Format("glb", "bad magic %#x", 0x1234))
	assert.True(t, IsFormat(err))
	assert.False(t, IsIO(err))
	assert.Contains(t, err.Error(), "glb: invalid format: bad magic 0x1234")

	err = fmt.Errorf("startup: %w", Config("palette", "empty"))
	assert.True(t, IsConfig(err))
	assert.False(t, IsFormat(err))
}

func TestIOErrorCarriesPath(t *testing.T) {
	require.NoError(t, IO("create", "/tmp/x.stl", nil))

	err := IO("create", "/tmp/x.stl", os.ErrPermission)
	require.Error(t, err)
	assert.True(t, IsIO(err))
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "/tmp/x.stl")
}
