package tondo

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/google/uuid"
)

// Point is a raw pointer position recorded during a stroke.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one journaled pointer gesture together with the brush
// configuration it was painted with.
type Stroke struct {
	ID        string  `json:"id"`
	Brush     string  `json:"brush"`
	Size      int     `json:"size"`
	Opacity   int     `json:"opacity"`
	Smoothing float64 `json:"smoothing"`
	Color     RGBA    `json:"color"`
	Seed      int64   `json:"seed"`
	Points    []Point `json:"points"`
}

// RGBA is the journaled form of a draw color.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// NRGBA converts the journaled color back to its image form.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func newStroke(cfg Config) Stroke {
	return Stroke{
		ID:        uuid.NewString(),
		Brush:     cfg.Brush,
		Size:      cfg.BrushSize,
		Opacity:   cfg.Opacity,
		Smoothing: cfg.Smoothing,
		Color:     RGBA{R: cfg.Color.R, G: cfg.Color.G, B: cfg.Color.B, A: cfg.Color.A},
	}
}

func (s *Stroke) addPoint(x, y float64) {
	s.Points = append(s.Points, Point{X: x, Y: y})
}

// Session is the journal of every stroke painted since the canvas was last
// cleared, together with the painter configuration needed to reproduce it.
// Replaying a session with the same seed regenerates the canvas pixel for
// pixel.
type Session struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Seed    int64    `json:"seed"`
	Strokes []Stroke `json:"strokes"`
}

func newSession(cfg Config) *Session {
	return &Session{
		Width:  cfg.Width,
		Height: cfg.Height,
		Seed:   cfg.Seed,
	}
}

func (s *Session) append(st Stroke) {
	s.Strokes = append(s.Strokes, st)
}

// removeLast drops the most recent stroke, mirroring an undo.
func (s *Session) removeLast() {
	if n := len(s.Strokes); n > 0 {
		s.Strokes = s.Strokes[:n-1]
	}
}

// Len returns the number of journaled strokes.
func (s *Session) Len() int { return len(s.Strokes) }

// WriteTo serializes the session as indented JSON.
func (s *Session) WriteTo(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Save writes the session journal to a file.
func (s *Session) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating session file: %w", err)
	}
	defer f.Close()

	if err := s.WriteTo(f); err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return nil
}

// ReadSession parses a session journal from r.
func ReadSession(r io.Reader) (*Session, error) {
	var s Session
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &s, nil
}

// LoadSession reads a session journal back from a file.
func LoadSession(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening session file: %w", err)
	}
	defer f.Close()

	return ReadSession(f)
}

// Replay repaints every journaled stroke onto a fresh painter and returns
// it. The painter is seeded from the session, so the result matches the
// original canvas exactly. Extra brushes used by the journal beside the
// built-in ones must be passed in.
func (s *Session) Replay(brushes ...*Brush) (*Painter, error) {
	p, err := NewPainter(Config{
		Width:  s.Width,
		Height: s.Height,
		Seed:   s.Seed,
	})
	if err != nil {
		return nil, err
	}
	for _, b := range brushes {
		p.RegisterBrush(b)
	}

	for _, st := range s.Strokes {
		if err := p.replayStroke(st); err != nil {
			return nil, fmt.Errorf("replaying stroke %s: %w", st.ID, err)
		}
	}
	return p, nil
}
