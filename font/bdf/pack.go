package bdf

import (
	"unicode/utf8"

	"transpack.dev/font"
)

// baselineRise places the glyph baseline 3 pixels above the bottom of
// the large cell. The metric is tuned for WenQuanYi Bitmap Song 9pt
// with glyphs drawn in a 12x12 box; it is a fixed policy, not derived
// from the source font.
const baselineRise = 3

// PackGlyph converts a source glyph into the packed large cell format.
// Cells outside the source bounding box are unlit, so a box lying
// entirely outside the cell packs to all zero bytes.
func PackGlyph(g Glyph) []byte {
	return font.PackLarge(func(x, y int) bool {
		ax := x - g.BBox.Left
		if ax < 0 || ax >= g.BBox.Width {
			return false
		}
		ay := y - (font.LargeHeight - g.BBox.Height - g.BBox.Bottom - baselineRise)
		if ay < 0 || ay >= g.BBox.Height {
			return false
		}
		return g.Rows[g.BBox.Height-ay-1]&(1<<(g.BBox.Width-ax-1)) != 0
	})
}

// A Source serves packed glyphs from a parsed BDF font. BDF sources
// carry no small bitmaps, so their symbols sort after all both-size
// symbols in the final allocation order.
type Source struct {
	name string
	f    *Font
}

// NewSource wraps f as a font source. The font handle is owned by the
// caller; typically it is parsed once per compilation run.
func NewSource(name string, f *Font) *Source {
	return &Source{name: name, f: f}
}

func (s *Source) Name() string { return s.name }

func (s *Source) Supports(sym string) bool {
	r, size := utf8.DecodeRuneInString(sym)
	if size != len(sym) || r == utf8.RuneError {
		return false
	}
	_, ok := s.f.Glyph(r)
	return ok
}

func (s *Source) Glyph(sym string) (font.Glyph, bool) {
	r, size := utf8.DecodeRuneInString(sym)
	if size != len(sym) || r == utf8.RuneError {
		return font.Glyph{}, false
	}
	g, ok := s.f.Glyph(r)
	if !ok {
		return font.Glyph{}, false
	}
	return font.Glyph{Large: PackGlyph(g)}, true
}
