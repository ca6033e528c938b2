// package bdf loads BDF bitmap fonts and repacks their glyphs into the
// fixed large cell format used by the firmware font tables.
package bdf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// BBox is a glyph's tight bounding box within its nominal cell. Left
// and Bottom offset the box from the cell origin at the baseline.
type BBox struct {
	Left, Bottom  int
	Width, Height int
}

// A Glyph is a source bitmap with its bounding box. Rows are stored
// bottom-most first and the least significant bit of each row is the
// right-most pixel.
type Glyph struct {
	BBox BBox
	Rows []uint32
}

// A Font is an immutable set of parsed glyphs keyed by code point.
type Font struct {
	glyphs map[rune]Glyph
}

// Glyph returns the source glyph for the code point r.
func (f *Font) Glyph(r rune) (Glyph, bool) {
	g, ok := f.glyphs[r]
	return g, ok
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int { return len(f.glyphs) }

// Parse reads a BDF font. Only the fields the packer needs are kept:
// per-glyph encoding, bounding box and bitmap rows. Glyphs wider than
// 32 pixels are rejected.
func Parse(r io.Reader) (*Font, error) {
	f := &Font{glyphs: make(map[rune]Glyph)}
	s := bufio.NewScanner(r)

	var (
		inChar   bool
		inBitmap bool
		enc      rune
		box      BBox
		rows     []uint32
		line     int
	)
	fail := func(format string, args ...any) error {
		return fmt.Errorf("bdf: line %d: %s", line, fmt.Sprintf(format, args...))
	}
	for s.Scan() {
		line++
		text := strings.TrimSpace(s.Text())
		if text == "" {
			continue
		}
		if inBitmap {
			if text == "ENDCHAR" {
				g := Glyph{BBox: box, Rows: rows}
				// BDF stores the top row first; flip so
				// row 0 is the bottom-most.
				for i, j := 0, len(g.Rows)-1; i < j; i, j = i+1, j-1 {
					g.Rows[i], g.Rows[j] = g.Rows[j], g.Rows[i]
				}
				if len(g.Rows) != box.Height {
					return nil, fail("%d bitmap rows for a %d pixel tall box", len(g.Rows), box.Height)
				}
				if enc >= 0 {
					f.glyphs[enc] = g
				}
				inChar, inBitmap = false, false
				continue
			}
			row, err := parseRow(text, box.Width)
			if err != nil {
				return nil, fail("%v", err)
			}
			rows = append(rows, row)
			continue
		}
		fields := strings.Fields(text)
		switch fields[0] {
		case "STARTCHAR":
			inChar = true
			enc = -1
			box = BBox{}
			rows = nil
		case "ENCODING":
			if !inChar || len(fields) < 2 {
				return nil, fail("stray ENCODING")
			}
			v, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fail("ENCODING: %v", err)
			}
			if v > utf8.MaxRune {
				return nil, fail("ENCODING %d out of range", v)
			}
			enc = rune(v)
		case "BBX":
			if !inChar || len(fields) < 5 {
				return nil, fail("malformed BBX")
			}
			var v [4]int
			for i := 0; i < 4; i++ {
				n, err := strconv.Atoi(fields[i+1])
				if err != nil {
					return nil, fail("BBX: %v", err)
				}
				v[i] = n
			}
			box = BBox{Width: v[0], Height: v[1], Left: v[2], Bottom: v[3]}
			if box.Width > 32 {
				return nil, fail("glyph %d pixels wide, 32 max", box.Width)
			}
		case "BITMAP":
			if !inChar {
				return nil, fail("stray BITMAP")
			}
			inBitmap = true
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("bdf: %w", err)
	}
	if inChar {
		return nil, fmt.Errorf("bdf: truncated glyph")
	}
	return f, nil
}

// parseRow decodes one hex bitmap line into a row integer whose least
// significant bit is the right-most of the width pixels.
func parseRow(text string, width int) (uint32, error) {
	v, err := strconv.ParseUint(text, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("bitmap row %q: %w", text, err)
	}
	// Rows are padded to a whole number of bytes on the right.
	bits := 4 * len(text)
	if pad := bits - width; pad > 0 {
		v >>= uint(pad)
	}
	return uint32(v), nil
}
