/*
Package tondo implements the painting engine behind a small desktop application
built around a circular canvas: a textured pencil brush is stamped along the
pointer path, strokes are clipped to the circle, and a bounded snapshot stack
provides undo.

The engine is driven through pointer events and renders into an in-memory RGBA
buffer which the UI shell displays and the export functions encode to PNG or
JPEG. A minimal headless session:

	package main

	import (
		"image/color"
		"log"

		"github.com/esimov/tondo"
	)

	func main() {
		p, err := tondo.NewPainter(tondo.Config{
			Width:  720,
			Height: 720,
			Color:  color.NRGBA{A: 0xff},
		})
		if err != nil {
			log.Fatal(err)
		}

		p.PointerDown(360, 360)
		p.PointerMove(420, 380)
		p.PointerUp()

		if err := p.Save("out.png", tondo.FormatPNG); err != nil {
			log.Fatal(err)
		}
	}

The painter is not safe for concurrent use: all drawing, history and export
operations are expected to run on a single UI event loop, so no locking is
performed internally.
*/
package tondo
