package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSavePoster(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	rel, err := store.SavePoster(7, bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, "movies/7/"))
	assert.Equal(t, ".png", filepath.Ext(rel))
	assert.True(t, store.Exists(rel))
}

func TestSavePosterRejectsNonImage(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.SavePoster(7, strings.NewReader("definitely not pixels"))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestSavePosterUniqueNames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	a, err := store.SavePoster(7, bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	b, err := store.SavePoster(7, bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, store.Exists(a))
	assert.True(t, store.Exists(b))
}

func TestRemove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	rel, err := store.SavePoster(7, bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	require.NoError(t, store.Remove(rel))
	assert.False(t, store.Exists(rel))

	// Removing twice is fine.
	assert.NoError(t, store.Remove(rel))
	// Empty path is a no-op.
	assert.NoError(t, store.Remove(""))
}

func TestRemoveRefusesEscapingPaths(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Remove("../outside.jpg"))
	assert.Error(t, store.Remove("/etc/passwd"))
}
