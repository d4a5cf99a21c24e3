package tondo

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrush_StampGeometry(t *testing.T) {
	for _, b := range []*Brush{NewPencilBrush(), NewSoftBrush()} {
		for _, size := range []int{1, 10} {
			rng := rand.New(rand.NewSource(1))
			stamp, err := b.Stamp(size, 100, color.NRGBA{A: 0xff}, rng)
			require.NoError(t, err)

			d := 2 * size
			assert.Equal(t, d, stamp.Bounds().Dx())
			assert.Equal(t, d, stamp.Bounds().Dy())

			// The dab alpha must vanish at and beyond one radius from the
			// stamp center, otherwise adjacent dabs would grow square edges.
			covered := 0
			for y := 0; y < d; y++ {
				for x := 0; x < d; x++ {
					dx, dy := float64(x)+0.5-float64(size), float64(y)+0.5-float64(size)
					a := stamp.NRGBAAt(x, y).A
					if math.Hypot(dx, dy) >= float64(size) {
						assert.Equal(t, uint8(0), a, "brush %s size %d leaks at (%d, %d)", b.Name(), size, x, y)
					} else if a > 0 {
						covered++
					}
				}
			}
			assert.Greater(t, covered, 0,
				"brush %s produced a fully transparent size-%d dab", b.Name(), size)
		}
	}
}

func TestBrush_StampColor(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	col := color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}

	stamp, err := NewPencilBrush().Stamp(8, 100, col, rng)
	require.NoError(t, err)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			px := stamp.NRGBAAt(x, y)
			assert.Equal(t, col.R, px.R)
			assert.Equal(t, col.G, px.G)
			assert.Equal(t, col.B, px.B)
		}
	}
}

func TestBrush_GrainVariesPerStamp(t *testing.T) {
	b := NewPencilBrush()
	rng := rand.New(rand.NewSource(7))

	first, err := b.Stamp(15, 100, color.NRGBA{A: 0xff}, rng)
	require.NoError(t, err)
	second, err := b.Stamp(15, 100, color.NRGBA{A: 0xff}, rng)
	require.NoError(t, err)

	// Consecutive pencil dabs carry fresh noise.
	assert.NotEqual(t, first.Pix, second.Pix)
}

func TestBrush_StampDeterministic(t *testing.T) {
	first, err := NewPencilBrush().Stamp(15, 100, color.NRGBA{A: 0xff}, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	second, err := NewPencilBrush().Stamp(15, 100, color.NRGBA{A: 0xff}, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, first.Pix, second.Pix)
}

func TestBrush_SoftStampIsNoiseless(t *testing.T) {
	b := NewSoftBrush()
	rng := rand.New(rand.NewSource(7))

	first, err := b.Stamp(15, 100, color.NRGBA{A: 0xff}, rng)
	require.NoError(t, err)
	second, err := b.Stamp(15, 100, color.NRGBA{A: 0xff}, rng)
	require.NoError(t, err)

	assert.Equal(t, first.Pix, second.Pix)
	assert.Greater(t, first.NRGBAAt(15, 15).A, uint8(200))
}

func TestBrush_OpacityScalesAlpha(t *testing.T) {
	b := NewSoftBrush()
	rng := rand.New(rand.NewSource(1))

	full, err := b.Stamp(10, 100, color.NRGBA{A: 0xff}, rng)
	require.NoError(t, err)
	half, err := b.Stamp(10, 50, color.NRGBA{A: 0xff}, rng)
	require.NoError(t, err)

	for i := 3; i < len(full.Pix); i += 4 {
		want := float64(full.Pix[i]) / 2
		assert.InDelta(t, want, float64(half.Pix[i]), 1)
	}
}

func TestBrush_StampInvalidParams(t *testing.T) {
	b := NewPencilBrush()
	rng := rand.New(rand.NewSource(1))
	col := color.NRGBA{A: 0xff}

	for _, tc := range []struct {
		size    int
		opacity int
	}{
		{0, 100},
		{-3, 100},
		{MaxBrushSize + 1, 100},
		{10, 0},
		{10, -1},
		{10, MaxOpacity + 1},
	} {
		_, err := b.Stamp(tc.size, tc.opacity, col, rng)
		assert.ErrorIs(t, err, ErrInvalidParameter, "size=%d opacity=%d", tc.size, tc.opacity)
	}
}

func TestBrush_MaskCached(t *testing.T) {
	b := NewPencilBrush()
	rng := rand.New(rand.NewSource(1))

	_, err := b.Stamp(10, 100, color.NRGBA{A: 0xff}, rng)
	require.NoError(t, err)
	_, err = b.Stamp(10, 100, color.NRGBA{A: 0xff}, rng)
	require.NoError(t, err)
	_, err = b.Stamp(20, 100, color.NRGBA{A: 0xff}, rng)
	require.NoError(t, err)

	assert.Len(t, b.masks, 2)
}

func TestBrush_LoadImageBrush(t *testing.T) {
	// A 4x4 source with an opaque core and transparent border.
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for _, pt := range []image.Point{{1, 1}, {2, 1}, {1, 2}, {2, 2}} {
		src.SetNRGBA(pt.X, pt.Y, color.NRGBA{A: 0xff})
	}

	path := filepath.Join(t.TempDir(), "core.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	b, err := LoadImageBrush("core", path)
	require.NoError(t, err)
	assert.Equal(t, "core", b.Name())

	stamp, err := b.Stamp(6, 100, color.NRGBA{R: 0xff, A: 0xff}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 12, stamp.Bounds().Dx())

	opaque := 0
	for i := 3; i < len(stamp.Pix); i += 4 {
		if stamp.Pix[i] > 0 {
			opaque++
		}
	}
	assert.Greater(t, opaque, 0)
}

func TestBrush_LoadImageBrushRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not pixels"), 0o644))

	_, err := LoadImageBrush("notes", path)
	assert.Error(t, err)
}

func TestBrush_LoadImageBrushMissingFile(t *testing.T) {
	_, err := LoadImageBrush("ghost", filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
