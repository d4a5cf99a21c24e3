package gui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"

	"github.com/esimov/tondo"
)

const appTitle = "Tondo"

// Run opens the painting window around the given engine and blocks until
// the window is closed.
func Run(p *tondo.Painter) {
	a := app.New()
	win := a.NewWindow(appTitle)

	pw := NewPaintWidget(p)
	tb := newToolbar(win, pw)

	win.SetContent(container.NewBorder(tb.root, nil, nil, nil, container.NewCenter(pw)))
	win.Resize(fyne.NewSize(
		float32(p.Canvas().Width())+80,
		float32(p.Canvas().Height())+120,
	))

	win.SetMainMenu(mainMenu(win, pw, tb))
	addShortcuts(win, pw, tb)

	win.ShowAndRun()
}

func mainMenu(win fyne.Window, pw *PaintWidget, tb *toolbar) *fyne.MainMenu {
	return fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Export Image...", func() { showExportDialog(win, pw) }),
			fyne.NewMenuItem("Export PDF...", func() { showPDFDialog(win, pw) }),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Save Session...", func() { showSessionSaveDialog(win, pw) }),
			fyne.NewMenuItem("Open Session...", func() { showSessionOpenDialog(win, pw, tb) }),
		),
		fyne.NewMenu("Edit",
			fyne.NewMenuItem("Undo", func() {
				pw.Painter().Undo()
				pw.Repaint()
				tb.sync()
			}),
			fyne.NewMenuItem("Clear", func() {
				pw.Painter().Clear()
				pw.Repaint()
				tb.sync()
			}),
		),
	)
}

func addShortcuts(win fyne.Window, pw *PaintWidget, tb *toolbar) {
	win.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl,
	}, func(fyne.Shortcut) {
		pw.Painter().Undo()
		pw.Repaint()
		tb.sync()
	})
	win.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl,
	}, func(fyne.Shortcut) {
		showExportDialog(win, pw)
	})
}

func showExportDialog(win fyne.Window, pw *PaintWidget) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		format, err := tondo.FormatFromPath(writer.URI().Name())
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if err := pw.Painter().Encode(writer, format); err != nil {
			log.Printf("exporting image: %v", err)
			dialog.ShowError(err, win)
		}
	}, win)
	d.SetFileName("tondo.png")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg"}))
	d.Show()
}

func showPDFDialog(win fyne.Window, pw *PaintWidget) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		if err := pw.Painter().WritePDF(writer); err != nil {
			log.Printf("exporting pdf: %v", err)
			dialog.ShowError(err, win)
		}
	}, win)
	d.SetFileName("tondo.pdf")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	d.Show()
}

func showSessionSaveDialog(win fyne.Window, pw *PaintWidget) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		if err := pw.Painter().Session().WriteTo(writer); err != nil {
			log.Printf("saving session: %v", err)
			dialog.ShowError(err, win)
		}
	}, win)
	d.SetFileName("tondo-session.json")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

func showSessionOpenDialog(win fyne.Window, pw *PaintWidget, tb *toolbar) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		session, err := tondo.ReadSession(reader)
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		replayed, err := session.Replay()
		if err != nil {
			log.Printf("replaying session: %v", err)
			dialog.ShowError(err, win)
			return
		}
		pw.SetPainter(replayed)
		tb.sync()
	}, win)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}
