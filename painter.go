package tondo

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/esimov/tondo/utils"
)

// ErrInvalidParameter is returned when a brush or canvas parameter is out of
// its documented range. The previous value is kept in that case.
var ErrInvalidParameter = errors.New("invalid parameter")

// Painter defaults, matching the values the UI shell starts with.
const (
	DefaultWidth     = 720
	DefaultHeight    = 720
	DefaultBrushSize = 22
	DefaultOpacity   = 100
	DefaultSmoothing = 0.28
)

// DefaultColor is the draw color used until the color picker changes it.
var DefaultColor = color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}

// Config holds the painter options. The zero value of a field selects its
// default, out-of-range values are rejected by NewPainter.
type Config struct {
	// Width and Height set the canvas dimensions in pixels.
	Width  int
	Height int
	// BrushSize is the stamp radius, in the [1, 100] interval.
	BrushSize int
	// Opacity is the stroke coverage in percents, in the [1, 100] interval.
	Opacity int
	// Smoothing drives the interpolation density between raw pointer
	// positions, from 0 (one stamp radius apart) to 1 (single pixel
	// apart). Use SetSmoothing to reach an exact zero.
	Smoothing float64
	// Color is the current draw color.
	Color color.NRGBA
	// Brush selects the active brush by name. Empty selects the pencil.
	Brush string
	// Seed initializes the random source feeding the grain synthesis.
	// Zero draws a time-based seed; set it for reproducible output.
	Seed int64
}

// stroke carries the drawing state captured at pointer-down. The brush
// configuration is frozen here for the whole stroke, parameter changes only
// affect the next one.
type stroke struct {
	rec     Stroke
	brush   *Brush
	rng     *rand.Rand
	size    int
	opacity int
	col     color.NRGBA
	spacing float64
	lastX   float64
	lastY   float64
}

// Painter is the painting engine: it owns the canvas, the brush registry, the
// undo history and the session journal, and turns pointer events into
// composited strokes. It is not safe for concurrent use; all methods are
// expected to be called from a single event loop.
type Painter struct {
	cfg     Config
	canvas  *Canvas
	history *History
	brushes map[string]*Brush
	session *Session
	rng     *rand.Rand
	active  *stroke
}

// NewPainter creates a painter with the pencil and soft brushes registered
// and an empty canvas.
func NewPainter(cfg Config) (*Painter, error) {
	if cfg.Width == 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height == 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.BrushSize == 0 {
		cfg.BrushSize = DefaultBrushSize
	}
	if cfg.Opacity == 0 {
		cfg.Opacity = DefaultOpacity
	}
	if cfg.Smoothing == 0 {
		cfg.Smoothing = DefaultSmoothing
	}
	if cfg.Color.A == 0 {
		cfg.Color = DefaultColor
	}
	if cfg.Brush == "" {
		cfg.Brush = BrushPencil
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if cfg.Width < 1 || cfg.Height < 1 {
		return nil, fmt.Errorf("canvas dimensions %dx%d: %w", cfg.Width, cfg.Height, ErrInvalidParameter)
	}
	if cfg.BrushSize < MinBrushSize || cfg.BrushSize > MaxBrushSize {
		return nil, fmt.Errorf("brush size %d: %w", cfg.BrushSize, ErrInvalidParameter)
	}
	if cfg.Opacity < MinOpacity || cfg.Opacity > MaxOpacity {
		return nil, fmt.Errorf("opacity %d: %w", cfg.Opacity, ErrInvalidParameter)
	}
	if cfg.Smoothing < 0 || cfg.Smoothing > 1 {
		return nil, fmt.Errorf("smoothing %v: %w", cfg.Smoothing, ErrInvalidParameter)
	}

	p := &Painter{
		cfg:     cfg,
		canvas:  NewCanvas(cfg.Width, cfg.Height),
		history: NewHistory(),
		brushes: map[string]*Brush{
			BrushPencil: NewPencilBrush(),
			BrushSoft:   NewSoftBrush(),
		},
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
	p.session = newSession(cfg)

	if _, ok := p.brushes[cfg.Brush]; !ok {
		return nil, fmt.Errorf("unknown brush %q: %w", cfg.Brush, ErrInvalidParameter)
	}
	return p, nil
}

// Config returns the active painter configuration.
func (p *Painter) Config() Config { return p.cfg }

// Image returns the visible canvas state for rendering or export: all
// committed strokes plus the clipped stroke in progress.
func (p *Painter) Image() *image.NRGBA {
	return p.canvas.Composited()
}

// Canvas exposes the underlying canvas geometry.
func (p *Painter) Canvas() *Canvas { return p.canvas }

// Session returns the journal of the strokes painted since the last clear.
func (p *Painter) Session() *Session { return p.session }

// SetBrushSize changes the stamp radius. Out-of-range values are rejected
// and the previous size is kept.
func (p *Painter) SetBrushSize(size int) error {
	if size < MinBrushSize || size > MaxBrushSize {
		return fmt.Errorf("brush size %d: %w", size, ErrInvalidParameter)
	}
	p.cfg.BrushSize = size
	return nil
}

// SetOpacity changes the stroke coverage. Out-of-range values are rejected
// and the previous opacity is kept.
func (p *Painter) SetOpacity(opacity int) error {
	if opacity < MinOpacity || opacity > MaxOpacity {
		return fmt.Errorf("opacity %d: %w", opacity, ErrInvalidParameter)
	}
	p.cfg.Opacity = opacity
	return nil
}

// SetSmoothing changes the interpolation density. Values outside [0, 1] are
// rejected and the previous smoothing is kept.
func (p *Painter) SetSmoothing(smoothing float64) error {
	if smoothing < 0 || smoothing > 1 {
		return fmt.Errorf("smoothing %v: %w", smoothing, ErrInvalidParameter)
	}
	p.cfg.Smoothing = smoothing
	return nil
}

// SetColor changes the draw color.
func (p *Painter) SetColor(c color.NRGBA) {
	p.cfg.Color = c
}

// SetBrush selects the active brush by name.
func (p *Painter) SetBrush(name string) error {
	if _, ok := p.brushes[name]; !ok {
		return fmt.Errorf("unknown brush %q: %w", name, ErrInvalidParameter)
	}
	p.cfg.Brush = name
	return nil
}

// RegisterBrush adds a brush to the registry, replacing any brush
// registered under the same name.
func (p *Painter) RegisterBrush(b *Brush) {
	p.brushes[b.Name()] = b
}

// PointerDown starts a stroke at the given position: the pre-stroke canvas is
// snapshotted for undo and a single stamp is applied. Positions outside the
// circular boundary do not start a stroke.
func (p *Painter) PointerDown(x, y float64) {
	rec := newStroke(p.cfg)
	// Each stroke carries its own grain seed so a journal replay stays
	// exact even when some live strokes were undone in between.
	rec.Seed = p.rng.Int63()
	p.beginStroke(x, y, rec)
}

func (p *Painter) beginStroke(x, y float64, rec Stroke) {
	if p.active != nil || !p.canvas.Inside(x, y) {
		return
	}
	p.history.Push(p.canvas.Snapshot())

	cfg := p.cfg
	p.active = &stroke{
		rec:     rec,
		brush:   p.brushes[cfg.Brush],
		rng:     rand.New(rand.NewSource(rec.Seed)),
		size:    cfg.BrushSize,
		opacity: cfg.Opacity,
		col:     cfg.Color,
		spacing: utils.Max(1, float64(cfg.BrushSize)*(1-cfg.Smoothing)),
		lastX:   x,
		lastY:   y,
	}
	p.canvas.DropLayer()
	p.stampAt(x, y)
	p.active.rec.addPoint(x, y)
}

// PointerMove extends the active stroke to the given position, stamping at
// interpolated points so consecutive dabs are never farther apart than the
// stroke spacing. Positions outside the circular boundary are discarded.
func (p *Painter) PointerMove(x, y float64) {
	if p.active == nil {
		return
	}
	x = utils.Clamp(x, 0, float64(p.canvas.Width()-1))
	y = utils.Clamp(y, 0, float64(p.canvas.Height()-1))
	if !p.canvas.Inside(x, y) {
		return
	}

	s := p.active
	dx, dy := x-s.lastX, y-s.lastY
	segLen := math.Hypot(dx, dy)

	if segLen == 0 {
		p.stampAt(x, y)
	} else {
		n := utils.Max(1, int(segLen/s.spacing))
		for i := 1; i <= n; i++ {
			t := float64(i) / float64(n)
			p.stampAt(s.lastX+dx*t, s.lastY+dy*t)
		}
	}
	s.lastX, s.lastY = x, y
	s.rec.addPoint(x, y)
}

// PointerUp ends the active stroke: the stroke layer is clipped to the
// circular boundary, merged over the canvas and journaled.
func (p *Painter) PointerUp() {
	if p.active == nil {
		return
	}
	p.canvas.CommitLayer()
	p.session.append(p.active.rec)
	p.active = nil
}

// stampAt blends one dab into the stroke layer. The parameters were
// validated when the stroke configuration was set, so a generation error can
// only mean a programming mistake; the dab is skipped in that case and the
// layer is left fully unmodified.
func (p *Painter) stampAt(x, y float64) {
	s := p.active
	dab, err := s.brush.Stamp(s.size, s.opacity, s.col, s.rng)
	if err != nil {
		return
	}
	p.canvas.Stamp(dab, x, y)
}

// Undo restores the canvas to the most recent snapshot and reports whether
// anything was undone. An empty history is a no-op. Undoing while a stroke
// is in progress cancels it.
func (p *Painter) Undo() bool {
	snapshot := p.history.Pop()
	if snapshot == nil {
		return false
	}
	p.canvas.Restore(snapshot)
	p.canvas.DropLayer()
	if p.active == nil {
		// An undo mid-stroke reverts the uncommitted stroke, which was
		// never journaled.
		p.session.removeLast()
	}
	p.active = nil
	return true
}

// Clear resets the canvas to the blank disc and empties both the undo
// history and the session journal.
func (p *Painter) Clear() {
	p.canvas.Reset()
	p.history.Clear()
	p.session = newSession(p.cfg)
	p.active = nil
}

// replayStroke repaints one journaled stroke with its recorded brush
// configuration and grain seed. Invalid journal entries are reported, not
// painted.
func (p *Painter) replayStroke(st Stroke) error {
	if err := p.SetBrush(st.Brush); err != nil {
		return err
	}
	if err := p.SetBrushSize(st.Size); err != nil {
		return err
	}
	if err := p.SetOpacity(st.Opacity); err != nil {
		return err
	}
	if err := p.SetSmoothing(st.Smoothing); err != nil {
		return err
	}
	p.SetColor(st.Color.NRGBA())

	if len(st.Points) == 0 {
		return nil
	}
	rec := newStroke(p.cfg)
	rec.ID = st.ID
	rec.Seed = st.Seed

	p.beginStroke(st.Points[0].X, st.Points[0].Y, rec)
	for _, pt := range st.Points[1:] {
		p.PointerMove(pt.X, pt.Y)
	}
	p.PointerUp()
	return nil
}
