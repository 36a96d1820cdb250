package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "images.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadImageOverrides(t *testing.T) {
	path := writeFile(t, `
[images]
4 = "event4_diverlandia.jpg"
"13" = " event17_burns_night.webp "
`)
	got, err := LoadImageOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, ImageOverrides{4: "event4_diverlandia.jpg", 13: "event17_burns_night.webp"}, got)
	assert.Equal(t, "event4_diverlandia.jpg", got.Apply(4, "old.jpg"))
	assert.Equal(t, "old.jpg", got.Apply(5, "old.jpg"))
}

func TestLoadImageOverrides_EmptyPath(t *testing.T) {
	got, err := LoadImageOverrides("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadImageOverrides_Errors(t *testing.T) {
	_, err := LoadImageOverrides(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadImageOverrides(writeFile(t, "[images]\nabc = \"x.jpg\"\n"))
	assert.Error(t, err)

	_, err = LoadImageOverrides(writeFile(t, "[images\n"))
	assert.Error(t, err)
}

func TestImageOverrides_NilApply(t *testing.T) {
	var o ImageOverrides
	assert.Equal(t, "stored.png", o.Apply(1, "stored.png"))
}
