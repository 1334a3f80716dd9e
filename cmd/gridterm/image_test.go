package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/gridterm/graphics"
)

// writePNG stores a w x h image, left half red and right half blue
func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 255, A: 255}
			if x >= w/2 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "test.png")
	fh, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(fh, img))
	require.NoError(t, fh.Close())
	return path
}

func TestParseRender(t *testing.T) {
	m, sc, err := parseRender("LARGE", "25%")
	require.NoError(t, err)
	assert.Equal(t, graphics.LargeBlocks, m)
	assert.Equal(t, graphics.Scale25, sc)

	_, _, err = parseRender("sixel", "100")
	assert.Error(t, err)
	_, _, err = parseRender("small", "42")
	assert.Error(t, err)
}

func TestLoadImage(t *testing.T) {
	img, err := loadImage(writePNG(t, 8, 4))
	require.NoError(t, err)
	assert.Equal(t, graphics.Size{Width: 8, Height: 4}, img.Size())

	_, err = loadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = loadImage(bad)
	assert.Error(t, err)
}

func TestRenderImageSizes(t *testing.T) {
	img, err := loadImage(writePNG(t, 8, 4))
	require.NoError(t, err)

	s := renderImage(img, graphics.SmallBlocks, graphics.NoScale)
	assert.Equal(t, graphics.Size{Width: 8, Height: 2}, s.Size())

	s = renderImage(img, graphics.GrayScale, graphics.Scale50)
	assert.Equal(t, img.RenderSize(graphics.GrayScale, graphics.Scale50), s.Size())
}

func TestWriteAnsi(t *testing.T) {
	img, err := loadImage(writePNG(t, 8, 4))
	require.NoError(t, err)
	s := renderImage(img, graphics.SmallBlocks, graphics.NoScale)

	var out bytes.Buffer
	require.NoError(t, writeAnsi(&out, s, true))

	rows := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, rows, s.Height())
	for y, r := range rows {
		assert.Equal(t, s.Lines()[y], ansi.Strip(r))
	}
	assert.Contains(t, out.String(), "\x1b[")
}

func TestImageCommandPrint(t *testing.T) {
	path := writePNG(t, 4, 2)
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"image", path, "--print", "--method", "gray"})
	require.NoError(t, root.Execute())
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))
}
