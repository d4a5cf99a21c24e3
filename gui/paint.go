package gui

import (
	"image"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/esimov/tondo"
)

// refreshInterval throttles the mid-stroke raster refresh so fast pointer
// movement does not flood the render pipeline.
const refreshInterval = time.Second / 60

// PaintWidget shows the painting canvas and feeds pointer events into the
// engine. Dragging with the primary button paints; everything else is
// handled by the toolbar.
type PaintWidget struct {
	widget.BaseWidget
	painter *tondo.Painter
	raster  *canvas.Raster

	lastRefresh time.Time

	// OnStroke is called after each committed stroke.
	OnStroke func()
}

var _ fyne.Widget = (*PaintWidget)(nil)
var _ fyne.Draggable = (*PaintWidget)(nil)
var _ desktop.Mouseable = (*PaintWidget)(nil)

func NewPaintWidget(p *tondo.Painter) *PaintWidget {
	w := &PaintWidget{painter: p}
	w.raster = canvas.NewRaster(func(int, int) image.Image {
		return w.painter.Image()
	})
	w.ExtendBaseWidget(w)
	return w
}

// Painter returns the engine currently attached to the widget.
func (w *PaintWidget) Painter() *tondo.Painter { return w.painter }

// SetPainter swaps in a different engine, e.g. after replaying a loaded
// session, and repaints.
func (w *PaintWidget) SetPainter(p *tondo.Painter) {
	w.painter = p
	w.Repaint()
}

// Repaint forces a raster refresh regardless of throttling.
func (w *PaintWidget) Repaint() {
	w.lastRefresh = time.Now()
	w.raster.Refresh()
}

// repaintThrottled refreshes at most once per frame interval.
func (w *PaintWidget) repaintThrottled() {
	if time.Since(w.lastRefresh) < refreshInterval {
		return
	}
	w.Repaint()
}

// toCanvas maps a widget-local position to engine pixel coordinates.
func (w *PaintWidget) toCanvas(pos fyne.Position) (float64, float64) {
	sz := w.Size()
	if sz.Width <= 0 || sz.Height <= 0 {
		return float64(pos.X), float64(pos.Y)
	}
	c := w.painter.Canvas()
	x := float64(pos.X) * float64(c.Width()) / float64(sz.Width)
	y := float64(pos.Y) * float64(c.Height()) / float64(sz.Height)
	return x, y
}

func (w *PaintWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	x, y := w.toCanvas(e.Position)
	w.painter.PointerDown(x, y)
	w.repaintThrottled()
}

func (w *PaintWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.endStroke()
}

func (w *PaintWidget) Dragged(e *fyne.DragEvent) {
	x, y := w.toCanvas(e.Position)
	w.painter.PointerMove(x, y)
	w.repaintThrottled()
}

// DragEnd commits the stroke. Releasing outside the window skips MouseUp,
// so both events end the stroke; committing twice is harmless.
func (w *PaintWidget) DragEnd() {
	w.endStroke()
}

func (w *PaintWidget) endStroke() {
	w.painter.PointerUp()
	w.Repaint()
	if w.OnStroke != nil {
		w.OnStroke()
	}
}

func (w *PaintWidget) CreateRenderer() fyne.WidgetRenderer {
	return &paintRenderer{widget: w}
}

type paintRenderer struct {
	widget *PaintWidget
}

func (r *paintRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.widget.raster}
}

func (r *paintRenderer) Layout(size fyne.Size) {
	r.widget.raster.Resize(size)
}

// MinSize pins the widget to the engine canvas dimensions so pointer
// positions map one to one onto pixels.
func (r *paintRenderer) MinSize() fyne.Size {
	c := r.widget.painter.Canvas()
	return fyne.NewSize(float32(c.Width()), float32(c.Height()))
}

func (r *paintRenderer) Refresh() {
	canvas.Refresh(r.widget)
}

func (r *paintRenderer) Destroy() {}
