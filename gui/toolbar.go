package gui

import (
	"fmt"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/esimov/tondo"
)

// swatchPalette is the fixed set of quick-pick draw colors.
var swatchPalette = []color.NRGBA{
	{R: 0x22, G: 0x22, B: 0x22, A: 0xff},
	{R: 0xd0, G: 0x30, B: 0x30, A: 0xff},
	{R: 0x2a, G: 0x7a, B: 0x3b, A: 0xff},
	{R: 0x2b, G: 0x50, B: 0xc8, A: 0xff},
	{R: 0xd8, G: 0xa0, B: 0x20, A: 0xff},
	{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
}

// colorSwatch is a tappable square filled with a single palette color.
type colorSwatch struct {
	widget.BaseWidget
	color    color.NRGBA
	onTapped func(color.NRGBA)
}

func newColorSwatch(c color.NRGBA, tapped func(color.NRGBA)) *colorSwatch {
	s := &colorSwatch{color: c, onTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.color)
	rect.SetMinSize(fyne.NewSize(26, 26))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.onTapped != nil {
		s.onTapped(s.color)
	}
}

// toolbar groups the brush controls. The sliders write straight into the
// engine; values only apply from the next stroke on.
type toolbar struct {
	paint     *PaintWidget
	brush     *widget.Select
	size      *widget.Slider
	opacity   *widget.Slider
	smoothing *widget.Slider
	strokes   *widget.Label

	root fyne.CanvasObject
}

func newToolbar(win fyne.Window, pw *PaintWidget) *toolbar {
	t := &toolbar{paint: pw}

	t.brush = widget.NewSelect([]string{tondo.BrushPencil, tondo.BrushSoft}, func(name string) {
		if err := pw.Painter().SetBrush(name); err != nil {
			log.Printf("selecting brush: %v", err)
		}
	})

	t.size = widget.NewSlider(tondo.MinBrushSize, tondo.MaxBrushSize)
	t.size.OnChanged = func(v float64) {
		if err := pw.Painter().SetBrushSize(int(v)); err != nil {
			log.Printf("setting brush size: %v", err)
		}
	}

	t.opacity = widget.NewSlider(tondo.MinOpacity, tondo.MaxOpacity)
	t.opacity.OnChanged = func(v float64) {
		if err := pw.Painter().SetOpacity(int(v)); err != nil {
			log.Printf("setting opacity: %v", err)
		}
	}

	t.smoothing = widget.NewSlider(0, 1)
	t.smoothing.Step = 0.01
	t.smoothing.OnChanged = func(v float64) {
		if err := pw.Painter().SetSmoothing(v); err != nil {
			log.Printf("setting smoothing: %v", err)
		}
	}

	onSwatch := func(c color.NRGBA) {
		pw.Painter().SetColor(c)
	}
	swatches := container.NewHBox()
	for _, c := range swatchPalette {
		swatches.Add(newColorSwatch(c, onSwatch))
	}
	pickColor := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), func() {
		dialog.ShowColorPicker("Brush color", "Pick the draw color", func(c color.Color) {
			r, g, b, a := c.RGBA()
			pw.Painter().SetColor(color.NRGBA{
				R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8),
			})
		}, win)
	})

	undo := widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() {
		pw.Painter().Undo()
		pw.Repaint()
		t.sync()
	})
	clear := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		dialog.ShowConfirm("Clear canvas", "Discard the whole painting?", func(ok bool) {
			if !ok {
				return
			}
			pw.Painter().Clear()
			pw.Repaint()
			t.sync()
		}, win)
	})

	t.strokes = widget.NewLabel("")

	slider := func(s *widget.Slider) fyne.CanvasObject {
		return container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 36)), s)
	}
	t.root = container.NewHBox(
		widget.NewLabel("Brush:"), t.brush,
		widget.NewSeparator(),
		widget.NewLabel("Size:"), slider(t.size),
		widget.NewLabel("Opacity:"), slider(t.opacity),
		widget.NewLabel("Smoothing:"), slider(t.smoothing),
		widget.NewSeparator(),
		swatches, pickColor,
		layout.NewSpacer(),
		t.strokes, undo, clear,
	)

	pw.OnStroke = t.sync
	t.sync()
	return t
}

// sync pulls the control values and the stroke count from the engine, e.g.
// after a committed stroke or a session load that swapped the painter.
func (t *toolbar) sync() {
	cfg := t.paint.Painter().Config()
	t.brush.SetSelected(cfg.Brush)
	t.size.SetValue(float64(cfg.BrushSize))
	t.opacity.SetValue(float64(cfg.Opacity))
	t.smoothing.SetValue(cfg.Smoothing)
	t.strokes.SetText(fmt.Sprintf("Strokes: %d", t.paint.Painter().Session().Len()))
}
