// package font defines the glyph bitmap sources the pack compiler
// draws from and the packed cell formats the firmware expects.
package font

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
)

// Cell dimensions of the two firmware font sizes.
const (
	LargeWidth  = 12
	LargeHeight = 16
	// LargeBytes is the packed size of a large glyph: two 8-row
	// blocks of one byte per column.
	LargeBytes = 2 * LargeWidth

	SmallWidth  = 6
	SmallHeight = 8
	// SmallBytes is the packed size of a small glyph, one byte per
	// column.
	SmallBytes = SmallWidth
)

// Names of the well-known sources referenced by language packs. The
// first source of every pack must be the basic ASCII table.
const (
	NameASCIIBasic = "ascii_basic"
	NameCJK        = "cjk"
)

// A Glyph holds the packed bitmaps for one symbol. Small is nil when
// the source provides only the large size; the allocator keeps that
// distinction because it affects the final symbol order.
type Glyph struct {
	Large []byte
	Small []byte
}

// A Source provides glyph bitmaps for a subset of symbols. Sources are
// consulted in priority order and the first one that supports a symbol
// resolves it.
type Source interface {
	Name() string
	Supports(sym string) bool
	Glyph(sym string) (Glyph, bool)
}

// PackLarge packs a 12x16 cell into the firmware format: 12 bytes for
// rows 0-7 followed by 12 bytes for rows 8-15, one byte per column
// with bit 0 the top-most row of its block. lit reports whether the
// pixel at (x, y) is set, with the origin at the top left.
func PackLarge(lit func(x, y int) bool) []byte {
	b := make([]byte, 0, LargeBytes)
	for block := 0; block < 2; block++ {
		for x := 0; x < LargeWidth; x++ {
			var col byte
			for y := 0; y < 8; y++ {
				if lit(x, y+8*block) {
					col |= 1 << y
				}
			}
			b = append(b, col)
		}
	}
	return b
}

// PackSmall packs a 6x8 cell, one byte per column with bit 0 the top
// row.
func PackSmall(lit func(x, y int) bool) []byte {
	b := make([]byte, 0, SmallBytes)
	for x := 0; x < SmallWidth; x++ {
		var col byte
		for y := 0; y < SmallHeight; y++ {
			if lit(x, y) {
				col |= 1 << y
			}
		}
		b = append(b, col)
	}
	return b
}

// A Table is a source backed by pre-packed glyph bitmaps.
type Table struct {
	name  string
	large map[string][]byte
	small map[string][]byte
}

// NewTable returns a table source. small may be nil for a table that
// carries only large bitmaps; otherwise a symbol must appear in both
// maps to be supported.
func NewTable(name string, large, small map[string][]byte) (*Table, error) {
	for sym, b := range large {
		if len(b) != LargeBytes {
			return nil, fmt.Errorf("font: table %s: symbol %q: %d large bytes, expected %d", name, sym, len(b), LargeBytes)
		}
	}
	for sym, b := range small {
		if len(b) != SmallBytes {
			return nil, fmt.Errorf("font: table %s: symbol %q: %d small bytes, expected %d", name, sym, len(b), SmallBytes)
		}
		if _, ok := large[sym]; !ok {
			return nil, fmt.Errorf("font: table %s: symbol %q has a small bitmap but no large one", name, sym)
		}
	}
	return &Table{name: name, large: large, small: small}, nil
}

func (t *Table) Name() string { return t.name }

func (t *Table) Supports(sym string) bool {
	if _, ok := t.large[sym]; !ok {
		return false
	}
	if t.small == nil {
		return true
	}
	_, ok := t.small[sym]
	return ok
}

func (t *Table) Glyph(sym string) (Glyph, bool) {
	if !t.Supports(sym) {
		return Glyph{}, false
	}
	g := Glyph{Large: t.large[sym]}
	if t.small != nil {
		g.Small = t.small[sym]
	}
	return g, true
}

// tableFile is the on-disk form of a packed table: hex encoded bitmaps
// keyed by symbol.
type tableFile struct {
	Name  string            `json:"name"`
	Large map[string]string `json:"large"`
	Small map[string]string `json:"small"`
}

// ParseTable reads a JSON table description.
func ParseTable(r io.Reader) (*Table, error) {
	var tf tableFile
	if err := json.NewDecoder(r).Decode(&tf); err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	if tf.Name == "" {
		return nil, fmt.Errorf("font: table has no name")
	}
	decode := func(m map[string]string) (map[string][]byte, error) {
		if m == nil {
			return nil, nil
		}
		out := make(map[string][]byte, len(m))
		for sym, s := range m {
			b, err := hex.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("font: table %s: symbol %q: %w", tf.Name, sym, err)
			}
			out[sym] = b
		}
		return out, nil
	}
	large, err := decode(tf.Large)
	if err != nil {
		return nil, err
	}
	small, err := decode(tf.Small)
	if err != nil {
		return nil, err
	}
	return NewTable(tf.Name, large, small)
}
