package tondo

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/esimov/tondo/imop"
)

// Canvas owns the mutable pixel buffers the painter draws into: the main
// buffer holding all committed strokes and a transparent layer holding the
// stroke currently in progress. Pixels inside the circular boundary start
// opaque white, pixels outside stay fully transparent and are never written
// by a stroke.
type Canvas struct {
	width  int
	height int
	cx, cy float64
	radius float64

	main  *image.NRGBA
	layer *image.NRGBA
	mask  *image.Alpha

	comp *imop.Composite
}

// NewCanvas creates a canvas of the given dimensions with the circular
// boundary centered in the buffer, its radius being half of the smaller
// dimension.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		width:  width,
		height: height,
		cx:     float64(width) / 2,
		cy:     float64(height) / 2,
		radius: float64(min(width, height)) / 2,
		comp:   imop.InitOp(),
	}
	c.mask = circleMask(width, height, c.cx, c.cy, c.radius)
	c.Reset()

	return c
}

// circleMask builds the clip mask: opaque inside the circle, zero outside.
func circleMask(w, h int, cx, cy, r float64) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				mask.Pix[y*mask.Stride+x] = 0xff
			}
		}
	}
	return mask
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Radius returns the radius of the circular boundary.
func (c *Canvas) Radius() float64 { return c.radius }

// Center returns the center of the circular boundary.
func (c *Canvas) Center() (x, y float64) { return c.cx, c.cy }

// Inside reports whether the point lies within the circular boundary.
func (c *Canvas) Inside(x, y float64) bool {
	dx, dy := x-c.cx, y-c.cy
	return dx*dx+dy*dy <= c.radius*c.radius
}

// Reset clears the canvas back to its initial state: a white disc on a
// transparent background, with an empty stroke layer.
func (c *Canvas) Reset() {
	c.main = imaging.New(c.width, c.height, color.Transparent)
	for y := 0; y < c.height; y++ {
		mi := y * c.mask.Stride
		di := c.main.PixOffset(0, y)
		for x := 0; x < c.width; x++ {
			if c.mask.Pix[mi+x] == 0xff {
				c.main.Pix[di+0] = 0xff
				c.main.Pix[di+1] = 0xff
				c.main.Pix[di+2] = 0xff
				c.main.Pix[di+3] = 0xff
			}
			di += 4
		}
	}
	c.DropLayer()
}

// Snapshot returns a deep copy of the main buffer.
func (c *Canvas) Snapshot() *image.NRGBA {
	return imaging.Clone(c.main)
}

// Restore replaces the main buffer with the given snapshot and discards any
// stroke in progress. The snapshot is used directly, the caller must not
// mutate it afterwards.
func (c *Canvas) Restore(img *image.NRGBA) {
	c.main = img
	c.DropLayer()
}

// Stamp composites the dab over the stroke layer, centered at (x, y).
func (c *Canvas) Stamp(dab *image.NRGBA, x, y float64) {
	half := dab.Bounds().Dx() / 2
	pt := image.Pt(int(math.Round(x))-half, int(math.Round(y))-half)
	c.comp.Draw(c.layer, dab, pt)
}

// DropLayer discards the stroke layer without committing it.
func (c *Canvas) DropLayer() {
	c.layer = imaging.New(c.width, c.height, color.Transparent)
}

// CommitLayer confines the stroke layer to the circular boundary and merges
// it over the main buffer, then starts a fresh layer. Pixels outside the
// circle are guaranteed to stay untouched.
func (c *Canvas) CommitLayer() {
	imop.MulAlpha(c.layer, c.mask)
	c.comp.Draw(c.main, c.layer, image.Point{})
	c.DropLayer()
}

// Composited returns the visible canvas state: the main buffer with the
// clipped stroke layer blended on top. The returned image is a fresh copy on
// every call, mutating it does not affect the canvas.
func (c *Canvas) Composited() *image.NRGBA {
	out := imaging.Clone(c.main)
	layer := imaging.Clone(c.layer)
	imop.MulAlpha(layer, c.mask)
	c.comp.Draw(out, layer, image.Point{})
	return out
}
