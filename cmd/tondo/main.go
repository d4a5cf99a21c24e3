package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/esimov/tondo"
	"github.com/esimov/tondo/gui"
	"github.com/esimov/tondo/utils"
)

const HelpBanner = `
┌┬┐┌─┐┌┐┌┌┬┐┌─┐
 │ │ │││││ ││ │
 ┴ └─┘┘└┘─┴┘└─┘

Circular canvas painting app.
    Version: %s

`

// pipeName is the file name that indicates stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	session   = flag.String("session", "", "Session journal to replay headlessly")
	output    = flag.String("out", pipeName, "Destination of the rendered image")
	width     = flag.Int("width", tondo.DefaultWidth, "Canvas width")
	height    = flag.Int("height", tondo.DefaultHeight, "Canvas height")
	size      = flag.Int("size", tondo.DefaultBrushSize, "Brush size")
	opacity   = flag.Int("opacity", tondo.DefaultOpacity, "Brush opacity")
	smoothing = flag.Float64("smoothing", tondo.DefaultSmoothing, "Stroke smoothing")
	hexColor  = flag.String("color", "#222222", "Draw color as #rrggbb")
	brush     = flag.String("brush", tondo.BrushPencil, "Active brush")
	brushImg  = flag.String("brushimg", "", "Image file registered as a custom brush")
	seed      = flag.Int64("seed", 0, "Grain seed, 0 draws a random one")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, fmt.Sprintf(HelpBanner, Version))
		flag.PrintDefaults()
	}
	flag.Parse()

	col, err := parseHexColor(*hexColor)
	if err != nil {
		log.Fatalf(utils.DecorateText("Invalid color %q: %v\n", utils.ErrorMessage), *hexColor, err)
	}

	painter, err := tondo.NewPainter(tondo.Config{
		Width:     *width,
		Height:    *height,
		BrushSize: *size,
		Opacity:   *opacity,
		Smoothing: *smoothing,
		Color:     col,
		Brush:     tondo.BrushPencil,
		Seed:      *seed,
	})
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Failed to initialize the painter: %v\n", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	var extra []*tondo.Brush
	if *brushImg != "" {
		name := strings.TrimSuffix(filepath.Base(*brushImg), filepath.Ext(*brushImg))
		b, err := tondo.LoadImageBrush(name, *brushImg)
		if err != nil {
			log.Fatalf(
				utils.DecorateText("Failed to load the brush image: %v\n", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
		painter.RegisterBrush(b)
		extra = append(extra, b)
	}
	if err := painter.SetBrush(*brush); err != nil {
		log.Fatalf(utils.DecorateText("Unknown brush %q\n", utils.ErrorMessage), *brush)
	}

	if *session == "" {
		gui.Run(painter)
		return
	}

	now := time.Now()
	if err := render(*session, *output, extra); err != nil {
		fmt.Fprintf(os.Stderr,
			utils.DecorateText("\nError rendering the session: %s", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err.Error()), utils.DefaultMessage),
		)
		os.Exit(1)
	}

	if *output != pipeName {
		fmt.Fprintf(os.Stderr, fmt.Sprintf("\nThe painting has been saved as: %s %s\n",
			utils.DecorateText(filepath.Base(*output), utils.SuccessMessage),
			utils.DefaultColor,
		))
	}
	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// render replays the session journal headlessly and writes the result to
// the destination file or to stdout when the pipe name is used.
func render(sessionPath, out string, brushes []*tondo.Brush) error {
	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ TONDO", utils.StatusMessage),
		utils.DecorateText("is rendering the session...", utils.DefaultMessage))
	spinner := utils.NewSpinner(spinnerText, time.Millisecond*200, true)

	s, err := tondo.LoadSession(sessionPath)
	if err != nil {
		return err
	}

	spinner.Start()
	painter, err := s.Replay(brushes...)
	spinner.StopMsg = fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ TONDO", utils.StatusMessage),
		utils.DecorateText("is rendering the session... ✔", utils.DefaultMessage))
	spinner.Stop()
	if err != nil {
		return err
	}

	if out == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("`-` should be used with a pipe for stdout")
		}
		return painter.Encode(os.Stdout, tondo.FormatPNG)
	}

	if strings.EqualFold(filepath.Ext(out), ".pdf") {
		return painter.ExportPDF(out)
	}
	format, err := tondo.FormatFromPath(out)
	if err != nil {
		return err
	}
	return painter.Save(out, format)
}

// parseHexColor converts a #rrggbb or #rrggbbaa string to a color.
func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	c := color.NRGBA{A: 0xff}

	switch len(s) {
	case 6:
		_, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B)
		return c, err
	case 8:
		_, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
		return c, err
	default:
		return c, fmt.Errorf("expected 6 or 8 hex digits, got %d", len(s))
	}
}
