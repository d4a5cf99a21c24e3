// Package imop implements the Porter-Duff composition operations used for
// mixing a graphic element with its backdrop. The image/draw core package
// implements only the source-over-destination and source operators and always
// composites full images at the origin; this package adds the remaining
// operators needed by the painting engine and composites in place at an
// arbitrary offset, which is how brush stamps land on the stroke layer.
package imop

import (
	"image"
)

// Op identifies a composition operator.
type Op int

// The supported composition operators.
const (
	Copy Op = iota
	SrcOver
	DstOver
	SrcIn
	DstOut
)

// Composite holds the currently active composition operator.
type Composite struct {
	current Op
}

// InitOp initializes a new Composite with the src-over operator,
// which is the default one.
func InitOp() *Composite {
	return &Composite{current: SrcOver}
}

// Set activates one of the supported composition operators.
func (op *Composite) Set(cop Op) {
	switch cop {
	case Copy, SrcOver, DstOver, SrcIn, DstOut:
		op.current = cop
	}
}

// Get returns the currently active composition operator.
func (op *Composite) Get() Op {
	return op.current
}

// Draw composites src into dst with its top-left corner placed at pt,
// applying the active composition operator. The affected region is clipped
// against the dst bounds, pixels outside dst are discarded. dst is modified
// in place.
func (op *Composite) Draw(dst, src *image.NRGBA, pt image.Point) {
	sb := src.Bounds()
	region := image.Rect(pt.X, pt.Y, pt.X+sb.Dx(), pt.Y+sb.Dy()).Intersect(dst.Bounds())
	if region.Empty() {
		return
	}

	for y := region.Min.Y; y < region.Max.Y; y++ {
		si := src.PixOffset(sb.Min.X+region.Min.X-pt.X, sb.Min.Y+y-pt.Y)
		di := dst.PixOffset(region.Min.X, y)

		for x := region.Min.X; x < region.Max.X; x++ {
			rs := float64(src.Pix[si+0]) / 255
			gs := float64(src.Pix[si+1]) / 255
			bs := float64(src.Pix[si+2]) / 255
			as := float64(src.Pix[si+3]) / 255

			rb := float64(dst.Pix[di+0]) / 255
			gb := float64(dst.Pix[di+1]) / 255
			bb := float64(dst.Pix[di+2]) / 255
			ab := float64(dst.Pix[di+3]) / 255

			var rn, gn, bn, an float64

			// applying the alpha composition formula
			switch op.current {
			case Copy:
				rn, gn, bn, an = rs, gs, bs, as
			case SrcOver:
				an = as + ab*(1-as)
				if an > 0 {
					rn = (as*rs + ab*rb*(1-as)) / an
					gn = (as*gs + ab*gb*(1-as)) / an
					bn = (as*bs + ab*bb*(1-as)) / an
				}
			case DstOver:
				an = ab + as*(1-ab)
				if an > 0 {
					rn = (ab*rb + as*rs*(1-ab)) / an
					gn = (ab*gb + as*gs*(1-ab)) / an
					bn = (ab*bb + as*bs*(1-ab)) / an
				}
			case SrcIn:
				an = as * ab
				rn, gn, bn = rs, gs, bs
			case DstOut:
				an = ab * (1 - as)
				rn, gn, bn = rb, gb, bb
			}

			dst.Pix[di+0] = uint8(rn*255 + 0.5)
			dst.Pix[di+1] = uint8(gn*255 + 0.5)
			dst.Pix[di+2] = uint8(bn*255 + 0.5)
			dst.Pix[di+3] = uint8(an*255 + 0.5)

			si += 4
			di += 4
		}
	}
}

// MulAlpha multiplies the alpha channel of img by the mask, in place.
// Both images must share the same dimensions. It is used to confine the
// stroke layer to the circular canvas boundary before merging.
func MulAlpha(img *image.NRGBA, mask *image.Alpha) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		di := img.PixOffset(b.Min.X, y)
		mi := mask.PixOffset(mask.Bounds().Min.X, mask.Bounds().Min.Y+y-b.Min.Y)

		for x := b.Min.X; x < b.Max.X; x++ {
			v := uint32(img.Pix[di+3]) * uint32(mask.Pix[mi])
			img.Pix[di+3] = uint8((v + 127) / 255)

			di += 4
			mi++
		}
	}
}
