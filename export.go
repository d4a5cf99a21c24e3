package tondo

import (
	"errors"
	"fmt"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies an export encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ErrUnsupportedFormat is returned when an export format is not recognized.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// FormatFromPath derives the export format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("%q: %w", filepath.Ext(path), ErrUnsupportedFormat)
	}
}

// Encode writes the visible canvas to w in the given format. PNG keeps the
// transparent surround outside the circular boundary; JPEG cannot carry
// alpha, so the image is flattened onto white first.
func (p *Painter) Encode(w io.Writer, format Format) error {
	img := p.Image()

	switch format {
	case FormatPNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encoding png: %w", err)
		}
	case FormatJPEG:
		flat := flatten(img, color.White)
		if err := jpeg.Encode(w, flat, &jpeg.Options{Quality: 100}); err != nil {
			return fmt.Errorf("encoding jpeg: %w", err)
		}
	default:
		return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	return nil
}

// Save exports the visible canvas to a file. The format is validated before
// the file is created, so an unsupported format leaves no file behind.
func (p *Painter) Save(path string, format Format) error {
	switch format {
	case FormatPNG, FormatJPEG:
	default:
		return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	return p.Encode(f, format)
}
