package tondo

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"math/rand"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/tondo/utils"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Brush size and opacity limits accepted by the stamp generator.
const (
	MinBrushSize = 1
	MaxBrushSize = 100
	MinOpacity   = 1
	MaxOpacity   = 100
)

const (
	// edgeSoftness is the fraction of the stamp radius which is fully
	// opaque, the alpha falls off quadratically between it and the radius.
	edgeSoftness = 0.7
	// grainSigma is the standard deviation of the Gaussian luminance noise
	// sampled for the pencil texture.
	grainSigma = 48.0
	// grainBoost amplifies the grain after the contrast stretch so the
	// texture stays visible at low opacity.
	grainBoost = 1.3
)

// The built-in brush names.
const (
	BrushPencil = "pencil"
	BrushSoft   = "soft"
)

// Brush produces the dab images stamped along a stroke. The soft-edge mask is
// deterministic and cached per size; the pencil grain is redrawn from the
// painter's random source for every stamp, so no two dabs share the same
// texture.
type Brush struct {
	name  string
	grain bool
	src   *image.NRGBA

	masks map[int]*image.Alpha
}

// NewPencilBrush returns the default textured pencil brush.
func NewPencilBrush() *Brush {
	return &Brush{
		name:  BrushPencil,
		grain: true,
		masks: make(map[int]*image.Alpha),
	}
}

// NewSoftBrush returns the plain round brush: a blurred disc of uniform alpha
// with no grain.
func NewSoftBrush() *Brush {
	return &Brush{
		name:  BrushSoft,
		masks: make(map[int]*image.Alpha),
	}
}

// LoadImageBrush builds a brush out of an image file. The image's own alpha
// channel becomes the dab mask; fully opaque images use their inverted
// luminance instead, so dark marks on a light ground turn into strokes.
// PNG, JPEG, GIF, BMP and WebP sources are accepted.
func LoadImageBrush(name, path string) (*Brush, error) {
	ctype, err := utils.DetectFileContentType(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the brush file: %w", err)
	}
	if !strings.Contains(ctype, "image") {
		return nil, fmt.Errorf("the brush source should be an image file, got %s: %w", ctype, ErrInvalidParameter)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open the brush file: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode the brush file: %w", err)
	}

	return &Brush{
		name:  name,
		src:   imgToNRGBA(img),
		masks: make(map[int]*image.Alpha),
	}, nil
}

// Name returns the brush identifier used in the brush registry.
func (b *Brush) Name() string { return b.name }

// Stamp generates one dab: an NRGBA image of side 2*size whose alpha encodes
// the brush texture scaled by opacity and whose color channels carry col.
// For the built-in brushes the alpha is strictly zero at distance >= size
// from the stamp center.
func (b *Brush) Stamp(size, opacity int, col color.NRGBA, rng *rand.Rand) (*image.NRGBA, error) {
	if size < MinBrushSize || size > MaxBrushSize {
		return nil, fmt.Errorf("brush size %d is out of range [%d, %d]: %w",
			size, MinBrushSize, MaxBrushSize, ErrInvalidParameter)
	}
	if opacity < MinOpacity || opacity > MaxOpacity {
		return nil, fmt.Errorf("opacity %d is out of range [%d, %d]: %w",
			opacity, MinOpacity, MaxOpacity, ErrInvalidParameter)
	}

	mask := b.mask(size)
	d := 2 * size

	stamp := image.NewNRGBA(image.Rect(0, 0, d, d))
	var grain []uint8
	if b.grain {
		grain = grainNoise(d, rng)
	}

	for y := 0; y < d; y++ {
		mi := y * mask.Stride
		di := stamp.PixOffset(0, y)
		for x := 0; x < d; x++ {
			av := float64(mask.Pix[mi+x])
			if grain != nil {
				av = av * float64(grain[y*d+x]) / 255
			}
			av = av * float64(opacity) / 100

			stamp.Pix[di+0] = col.R
			stamp.Pix[di+1] = col.G
			stamp.Pix[di+2] = col.B
			stamp.Pix[di+3] = uint8(av + 0.5)
			di += 4
		}
	}
	return stamp, nil
}

// mask returns the cached soft-edge mask for the given size,
// generating it on the first request.
func (b *Brush) mask(size int) *image.Alpha {
	if m, ok := b.masks[size]; ok {
		return m
	}

	var m *image.Alpha
	switch {
	case b.src != nil:
		m = b.imageMask(size)
	case b.grain:
		m = radialMask(size)
	default:
		m = blurredMask(size)
	}
	b.masks[size] = m

	return m
}

// radialMask builds the analytic soft-edge mask: fully opaque within
// edgeSoftness*size of the center, falling off quadratically to zero at the
// stamp radius.
func radialMask(size int) *image.Alpha {
	d := 2 * size
	r := float64(size)
	inner := edgeSoftness * r

	mask := image.NewAlpha(image.Rect(0, 0, d, d))
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			dist := math.Hypot(dx, dy)

			var a float64
			switch {
			case dist <= inner:
				a = 255
			case dist < r:
				t := (dist - inner) / (r - inner)
				a = 255 * (1 - t) * (1 - t)
			}
			mask.Pix[y*mask.Stride+x] = uint8(a + 0.5)
		}
	}
	return mask
}

// blurredMask builds the plain round mask: a hard disc softened with a
// Gaussian blur, then clipped back to the stamp radius so the blur cannot
// leak outside it.
func blurredMask(size int) *image.Alpha {
	d := 2 * size
	r := float64(size)

	// The fill radius backs off one pixel so the blur has room to fade, but
	// must still reach the pixel centers of a size-1 stamp, which sit at
	// distance sqrt(0.5) from its center.
	fr := utils.Max(r-1, 0.75)

	disc := imaging.New(d, d, color.Transparent)
	for y := 0; y < d; y++ {
		di := disc.PixOffset(0, y)
		for x := 0; x < d; x++ {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			if dx*dx+dy*dy <= fr*fr {
				disc.Pix[di+0] = 0xff
				disc.Pix[di+1] = 0xff
				disc.Pix[di+2] = 0xff
				disc.Pix[di+3] = 0xff
			}
			di += 4
		}
	}

	sigma := utils.Max(1.0, float64(size)/8)
	blurred := imaging.Blur(disc, sigma)

	mask := image.NewAlpha(image.Rect(0, 0, d, d))
	for y := 0; y < d; y++ {
		di := blurred.PixOffset(0, y)
		for x := 0; x < d; x++ {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			if dx*dx+dy*dy < r*r {
				mask.Pix[y*mask.Stride+x] = blurred.Pix[di+3]
			}
			di += 4
		}
	}
	return mask
}

// imageMask rescales the source image so its long side matches the stamp
// diameter and centers it in the stamp square. Opaque sources fall back to
// the inverted luminance, dark marks become opaque dab pixels.
func (b *Brush) imageMask(size int) *image.Alpha {
	d := 2 * size
	sw, sh := b.src.Bounds().Dx(), b.src.Bounds().Dy()

	var scaled *image.NRGBA
	if sw >= sh {
		scaled = imaging.Resize(b.src, d, 0, imaging.Lanczos)
	} else {
		scaled = imaging.Resize(b.src, 0, d, imaging.Lanczos)
	}
	nw, nh := scaled.Bounds().Dx(), scaled.Bounds().Dy()
	offX, offY := (d-nw)/2, (d-nh)/2

	opaque := true
	for i := 3; i < len(scaled.Pix); i += 4 {
		if scaled.Pix[i] != 0xff {
			opaque = false
			break
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, d, d))
	for y := 0; y < nh; y++ {
		si := scaled.PixOffset(0, y)
		mi := (y+offY)*mask.Stride + offX
		for x := 0; x < nw; x++ {
			if opaque {
				lum := 0.299*float64(scaled.Pix[si+0]) +
					0.587*float64(scaled.Pix[si+1]) +
					0.114*float64(scaled.Pix[si+2])
				mask.Pix[mi+x] = uint8(255 - lum)
			} else {
				mask.Pix[mi+x] = scaled.Pix[si+3]
			}
			si += 4
		}
	}
	return mask
}

// grainNoise samples one square of Gaussian luminance noise, stretches it to
// the full contrast range and amplifies it by grainBoost. A fresh square is
// drawn for every stamp.
func grainNoise(d int, rng *rand.Rand) []uint8 {
	raw := make([]float64, d*d)
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for i := range raw {
		v := utils.Clamp(128+rng.NormFloat64()*grainSigma, 0, 255)
		raw[i] = v
		lo = utils.Min(lo, v)
		hi = utils.Max(hi, v)
	}

	out := make([]uint8, d*d)
	scale := 0.0
	if hi > lo {
		scale = 255 / (hi - lo)
	}
	for i, v := range raw {
		out[i] = uint8(utils.Clamp((v-lo)*scale*grainBoost, 0, 255))
	}
	return out
}
