package tondo

import (
	"bytes"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_FormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"out.png":       FormatPNG,
		"out.PNG":       FormatPNG,
		"scene.jpg":     FormatJPEG,
		"scene.jpeg":    FormatJPEG,
		"dir/Scene.JPG": FormatJPEG,
	} {
		format, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, format, path)
	}

	for _, path := range []string{"out.gif", "out.bmp", "out", "out."} {
		_, err := FormatFromPath(path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, path)
	}
}

func TestExport_PNGRoundTrip(t *testing.T) {
	p := newTestPainter(t, 3)
	paintTestScene(t, p)

	path := filepath.Join(t.TempDir(), "scene.png")
	require.NoError(t, p.Save(path, FormatPNG))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := png.Decode(f)
	require.NoError(t, err)

	want := p.Image()
	got := imgToNRGBA(decoded)
	require.Equal(t, want.Bounds(), got.Bounds())
	assert.Equal(t, want.Pix, got.Pix)

	// PNG keeps the transparent surround.
	assert.Equal(t, uint8(0), got.NRGBAAt(0, 0).A)
}

func TestExport_JPEGFlattensOntoWhite(t *testing.T) {
	p := newTestPainter(t, 3)
	paintTestScene(t, p)

	path := filepath.Join(t.TempDir(), "scene.jpg")
	require.NoError(t, p.Save(path, FormatJPEG))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := jpeg.Decode(f)
	require.NoError(t, err)
	got := imgToNRGBA(decoded)

	// The transparent surround becomes white, not black.
	corner := got.NRGBAAt(2, 2)
	assert.InDelta(t, 0xff, corner.R, 4)
	assert.InDelta(t, 0xff, corner.G, 4)
	assert.InDelta(t, 0xff, corner.B, 4)

	// Inside the circle the strokes survive the lossy encoding: the mean
	// channel error against the flattened original stays small.
	want := flatten(p.Image(), color.White)
	c := p.Canvas()
	var diff, n float64
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			if !c.Inside(float64(x)+0.5, float64(y)+0.5) {
				continue
			}
			wi, gi := want.PixOffset(x, y), got.PixOffset(x, y)
			for i := 0; i < 3; i++ {
				diff += math.Abs(float64(want.Pix[wi+i]) - float64(got.Pix[gi+i]))
				n++
			}
		}
	}
	assert.Less(t, diff/n, 4.0)
}

func TestExport_EncodeUnsupportedFormat(t *testing.T) {
	p := newTestPainter(t, 3)

	var buf bytes.Buffer
	err := p.Encode(&buf, Format("gif"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Zero(t, buf.Len())
}

func TestExport_SaveUnsupportedFormatLeavesNoFile(t *testing.T) {
	p := newTestPainter(t, 3)

	path := filepath.Join(t.TempDir(), "scene.gif")
	err := p.Save(path, Format("gif"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExport_SaveBadPath(t *testing.T) {
	p := newTestPainter(t, 3)

	err := p.Save(filepath.Join(t.TempDir(), "no", "such", "dir", "x.png"), FormatPNG)
	assert.Error(t, err)
}
