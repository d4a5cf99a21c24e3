package tondo

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"
)

// pdfMargin is the page margin in millimeters around the placed canvas.
const pdfMargin = 15.0

// ExportPDF writes the visible canvas as a PDF document to a file.
func (p *Painter) ExportPDF(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating pdf file: %w", err)
	}
	defer f.Close()

	return p.WritePDF(f)
}

// WritePDF writes the visible canvas centered on an A4 page. The image is
// flattened onto white and scaled to fit the printable area while keeping
// its aspect ratio.
func (p *Painter) WritePDF(w io.Writer) error {
	img := flatten(p.Image(), color.White)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding page image: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	availW := pageW - 2*pdfMargin
	availH := pageH - 2*pdfMargin

	imgW := availW
	imgH := imgW * float64(img.Bounds().Dy()) / float64(img.Bounds().Dx())
	if imgH > availH {
		imgH = availH
		imgW = imgH * float64(img.Bounds().Dx()) / float64(img.Bounds().Dy())
	}
	x := (pageW - imgW) / 2
	y := (pageH - imgH) / 2

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("canvas", opts, &buf)
	pdf.ImageOptions("canvas", x, y, imgW, imgH, false, opts, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}
