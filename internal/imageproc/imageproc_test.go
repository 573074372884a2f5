package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngImage(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 90, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf
}

func TestProcessShrinksOversizedImage(t *testing.T) {
	data, err := Process(pngImage(t, 2400, 1200))
	require.NoError(t, err)

	out, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	bounds := out.Bounds()
	assert.Equal(t, 1200, bounds.Dx())
	assert.Equal(t, 600, bounds.Dy(), "aspect ratio must be preserved")
}

func TestProcessKeepsSmallImageDimensions(t *testing.T) {
	data, err := Process(pngImage(t, 100, 50))
	require.NoError(t, err)

	out, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	bounds := out.Bounds()
	assert.Equal(t, 100, bounds.Dx(), "small images are never enlarged")
	assert.Equal(t, 50, bounds.Dy())
}

func TestProcessReencodesAsJPEG(t *testing.T) {
	data, err := Process(pngImage(t, 20, 20))
	require.NoError(t, err)

	_, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestProcessRejectsGarbage(t *testing.T) {
	_, err := Process(strings.NewReader("definitely not an image"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUndecodable)
}
