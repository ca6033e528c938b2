// package truetype renders the fixed firmware cells from an OpenType
// font, for language packs that substitute a vector font for the
// packed bitmap tables.
package truetype

import (
	"image"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	pfont "transpack.dev/font"
)

// Rendering policy for the two cell sizes. The pixel sizes and the
// large baseline (3 pixels above the cell bottom, matching the packed
// CJK tables) are fixed; they are tuned for legibility on the target
// display, not derived from font metrics.
const (
	largeSize     = 12
	largeBaseline = pfont.LargeHeight - 3
	smallSize     = 8
	smallBaseline = pfont.SmallHeight - 1

	// alphaThreshold converts antialiased coverage to one bit.
	alphaThreshold = 0x80
)

// A Source rasterizes glyphs on demand. It supplies both cell sizes,
// so its symbols keep their position in the allocation order.
type Source struct {
	name  string
	f     *sfnt.Font
	buf   sfnt.Buffer
	large font.Face
	small font.Face
}

// NewSource parses TTF or OTF data and prepares faces for both cell
// sizes.
func NewSource(name string, data []byte) (*Source, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	large, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size: largeSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	small, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size: smallSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	return &Source{name: name, f: f, large: large, small: small}, nil
}

func (s *Source) Name() string { return s.name }

// covers reports whether the font maps r to a real glyph. The face
// maps uncovered runes to glyph 0, the missing-glyph box, so face
// lookups cannot distinguish coverage.
func (s *Source) covers(r rune) bool {
	idx, err := s.f.GlyphIndex(&s.buf, r)
	return err == nil && idx != 0
}

func (s *Source) Supports(sym string) bool {
	r, size := utf8.DecodeRuneInString(sym)
	if size != len(sym) || r == utf8.RuneError {
		return false
	}
	return s.covers(r)
}

func (s *Source) Glyph(sym string) (pfont.Glyph, bool) {
	r, size := utf8.DecodeRuneInString(sym)
	if size != len(sym) || r == utf8.RuneError {
		return pfont.Glyph{}, false
	}
	if !s.covers(r) {
		return pfont.Glyph{}, false
	}
	large := render(s.large, r, pfont.LargeWidth, pfont.LargeHeight, largeBaseline)
	small := render(s.small, r, pfont.SmallWidth, pfont.SmallHeight, smallBaseline)
	return pfont.Glyph{
		Large: pfont.PackLarge(large),
		Small: pfont.PackSmall(small),
	}, true
}

// render draws r into a w by h cell with its baseline at the given row
// and returns the thresholded pixel predicate.
func render(face font.Face, r rune, w, h, baseline int) func(x, y int) bool {
	cell := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  cell,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(0, baseline),
	}
	// Center narrow glyphs in the cell.
	if adv, ok := face.GlyphAdvance(r); ok {
		if pad := fixed.I(w) - adv; pad > 0 {
			d.Dot.X = pad / 2
		}
	}
	d.DrawString(string(r))
	return func(x, y int) bool {
		return cell.AlphaAt(x, y).A >= alphaThreshold
	}
}
