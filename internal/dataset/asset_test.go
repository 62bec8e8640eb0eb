package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/core"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d}

func TestLoadAsset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bike.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0644))

	a, err := LoadAsset(path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", a.ContentType)
	assert.Equal(t, "bike.png", a.Name)
	assert.Len(t, a.Data, len(pngHeader))
}

func TestLoadAssetMissing(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	for _, path := range []string{"", filepath.Join(dir, "nope.png"), empty} {
		_, err := LoadAsset(path)
		assert.True(t, errors.Is(err, core.ErrAssetMissing), "path %q: %v", path, err)
	}
}
