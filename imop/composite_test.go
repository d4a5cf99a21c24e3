package imop

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComp_Basic(t *testing.T) {
	assert := assert.New(t)

	op := InitOp()
	assert.Equal(SrcOver, op.Get())

	op.Set(Copy)
	assert.Equal(Copy, op.Get())

	// Out of range values should not change the active operator.
	op.Set(Op(42))
	assert.Equal(Copy, op.Get())
}

func TestComp_Ops(t *testing.T) {
	assert := assert.New(t)
	op := InitOp()

	transparent := color.NRGBA{}
	cyan := color.NRGBA{R: 33, G: 150, B: 243, A: 255}
	magenta := color.NRGBA{R: 233, G: 30, B: 99, A: 255}

	rect := image.Rect(0, 0, 10, 10)

	newLayers := func() (src, dst *image.NRGBA) {
		src = image.NewNRGBA(rect)
		dst = image.NewNRGBA(rect)
		draw.Draw(src, image.Rect(0, 4, 6, 10), &image.Uniform{cyan}, image.Point{}, draw.Src)
		draw.Draw(dst, image.Rect(4, 0, 10, 6), &image.Uniform{magenta}, image.Point{}, draw.Src)
		return src, dst
	}

	// Pick three representative pixels from the composited output.
	// Depending on the applied operator they resolve to the source color,
	// the backdrop color or transparent.
	src, dst := newLayers()
	op.Draw(dst, src, image.Point{})
	assert.Equal(magenta, dst.NRGBAAt(9, 0))
	assert.Equal(cyan, dst.NRGBAAt(0, 9))
	assert.Equal(cyan, dst.NRGBAAt(5, 5))

	src, dst = newLayers()
	op.Set(Copy)
	op.Draw(dst, src, image.Point{})
	assert.Equal(transparent, dst.NRGBAAt(9, 0))
	assert.Equal(cyan, dst.NRGBAAt(0, 9))
	assert.Equal(cyan, dst.NRGBAAt(5, 5))

	src, dst = newLayers()
	op.Set(DstOver)
	op.Draw(dst, src, image.Point{})
	assert.Equal(magenta, dst.NRGBAAt(9, 0))
	assert.Equal(cyan, dst.NRGBAAt(0, 9))
	assert.Equal(magenta, dst.NRGBAAt(5, 5))

	src, dst = newLayers()
	op.Set(SrcIn)
	op.Draw(dst, src, image.Point{})
	assert.Equal(transparent, dst.NRGBAAt(9, 0))
	assert.Equal(transparent, dst.NRGBAAt(0, 9))
	assert.Equal(cyan, dst.NRGBAAt(5, 5))

	src, dst = newLayers()
	op.Set(DstOut)
	op.Draw(dst, src, image.Point{})
	assert.Equal(magenta, dst.NRGBAAt(9, 0))
	assert.Equal(transparent, dst.NRGBAAt(0, 9))
	assert.Equal(transparent, dst.NRGBAAt(5, 5))
}

func TestComp_SrcOverBlending(t *testing.T) {
	assert := assert.New(t)
	op := InitOp()

	rect := image.Rect(0, 0, 1, 1)
	src := image.NewNRGBA(rect)
	dst := image.NewNRGBA(rect)

	// Half transparent black over opaque white should produce mid gray.
	src.SetNRGBA(0, 0, color.NRGBA{A: 128})
	dst.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	op.Draw(dst, src, image.Point{})

	out := dst.NRGBAAt(0, 0)
	assert.EqualValues(255, out.A)
	assert.InDelta(127, out.R, 1)
	assert.InDelta(127, out.G, 1)
	assert.InDelta(127, out.B, 1)
}

func TestComp_DrawAtOffset(t *testing.T) {
	assert := assert.New(t)
	op := InitOp()

	red := color.NRGBA{R: 255, A: 255}
	dst := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	draw.Draw(src, src.Bounds(), &image.Uniform{red}, image.Point{}, draw.Src)

	op.Draw(dst, src, image.Pt(3, 3))
	assert.Equal(red, dst.NRGBAAt(3, 3))
	assert.Equal(red, dst.NRGBAAt(6, 6))
	assert.Equal(color.NRGBA{}, dst.NRGBAAt(2, 3))
	assert.Equal(color.NRGBA{}, dst.NRGBAAt(7, 7))

	// A stamp hanging over the destination edge is clipped, not wrapped.
	dst = image.NewNRGBA(image.Rect(0, 0, 10, 10))
	op.Draw(dst, src, image.Pt(8, 8))
	assert.Equal(red, dst.NRGBAAt(9, 9))
	assert.Equal(color.NRGBA{}, dst.NRGBAAt(7, 9))

	dst = image.NewNRGBA(image.Rect(0, 0, 10, 10))
	op.Draw(dst, src, image.Pt(-2, -2))
	assert.Equal(red, dst.NRGBAAt(0, 0))
	assert.Equal(red, dst.NRGBAAt(1, 1))
	assert.Equal(color.NRGBA{}, dst.NRGBAAt(2, 2))
}

func TestComp_MulAlpha(t *testing.T) {
	assert := assert.New(t)

	rect := image.Rect(0, 0, 4, 1)
	img := image.NewNRGBA(rect)
	draw.Draw(img, rect, &image.Uniform{color.NRGBA{R: 10, G: 20, B: 30, A: 200}}, image.Point{}, draw.Src)

	mask := image.NewAlpha(rect)
	mask.SetAlpha(0, 0, color.Alpha{A: 0})
	mask.SetAlpha(1, 0, color.Alpha{A: 255})
	mask.SetAlpha(2, 0, color.Alpha{A: 128})
	mask.SetAlpha(3, 0, color.Alpha{A: 64})

	MulAlpha(img, mask)

	assert.EqualValues(0, img.NRGBAAt(0, 0).A)
	assert.EqualValues(200, img.NRGBAAt(1, 0).A)
	assert.EqualValues(100, img.NRGBAAt(2, 0).A)
	assert.EqualValues(50, img.NRGBAAt(3, 0).A)

	// Color channels are left untouched.
	assert.EqualValues(10, img.NRGBAAt(0, 0).R)
	assert.EqualValues(30, img.NRGBAAt(3, 0).B)
}
