// package symbol assigns font bitmaps and byte codes to the set of
// symbols a language pack uses.
package symbol

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"transpack.dev/codec"
	"transpack.dev/font"
)

// digits always receive the lowest ordinals so numeric text encodes as
// single low bytes.
var digits = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

// ErrBaseline reports a font source list whose first entry is not the
// basic ASCII table.
var ErrBaseline = errors.New("symbol: first font source must be " + font.NameASCIIBasic)

// ErrDuplicate reports a duplicated symbol in the required set.
var ErrDuplicate = errors.New("symbol: duplicate symbol")

// A CapacityError reports a symbol set larger than the code space.
type CapacityError struct {
	Count int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("symbol: %d symbols exceed the %d allocatable codes", e.Count, codec.MaxOrdinals)
}

// A LookupError reports every required symbol that no font source
// could resolve, so all gaps surface in one build.
type LookupError struct {
	Symbols []string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("symbol: no font source for %s", strings.Join(e.Symbols, " "))
}

// A Table is the complete symbol allocation for one language pack.
type Table struct {
	// Symbols in final allocation order: digits first, then by
	// descending use, with every both-size symbol before the first
	// large-only symbol.
	Symbols []string `cbor:"symbols"`
	// Large maps each symbol to its packed 12x16 bitmap.
	Large map[string][]byte `cbor:"large"`
	// Small maps each symbol to its packed 6x8 bitmap; a nil entry
	// records that the resolving source has no small size.
	Small map[string][]byte `cbor:"small"`
	// Codes maps each symbol, plus "\n", to its encoded byte form.
	Codes map[string][]byte `cbor:"codes"`

	// Unused names the sources that resolved no symbols. Diagnostic
	// only; an unused source is not an error.
	Unused []string `cbor:"unused,omitempty"`
}

// Build resolves every required symbol against the font sources in
// priority order and assigns byte codes in the final symbol order.
// required is expected in descending order of use; digits are moved to
// the front whether or not they appear in it.
func Build(required []string, sources []font.Source) (*Table, error) {
	if len(sources) == 0 || sources[0].Name() != font.NameASCIIBasic {
		return nil, ErrBaseline
	}
	seen := make(map[string]bool, len(required))
	for _, sym := range required {
		if seen[sym] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, sym)
		}
		seen[sym] = true
	}

	isDigit := func(sym string) bool {
		return len(sym) == 1 && sym[0] >= '0' && sym[0] <= '9'
	}
	order := make([]string, 0, len(required)+len(digits))
	order = append(order, digits...)
	for _, sym := range required {
		if !isDigit(sym) {
			order = append(order, sym)
		}
	}
	if len(order) > codec.MaxOrdinals {
		return nil, &CapacityError{Count: len(order)}
	}

	t := &Table{
		Large: make(map[string][]byte, len(order)),
		Small: make(map[string][]byte, len(order)),
		Codes: make(map[string][]byte, len(order)+1),
	}
	pending := make(map[string]bool, len(order))
	for _, sym := range order {
		pending[sym] = true
	}
	for _, src := range sources {
		if len(pending) == 0 {
			t.Unused = append(t.Unused, src.Name())
			continue
		}
		resolved := 0
		for _, sym := range order {
			if !pending[sym] || !src.Supports(sym) {
				continue
			}
			g, ok := src.Glyph(sym)
			if !ok {
				continue
			}
			t.Large[sym] = g.Large
			t.Small[sym] = g.Small
			delete(pending, sym)
			resolved++
		}
		if resolved == 0 {
			t.Unused = append(t.Unused, src.Name())
		}
	}
	if len(pending) > 0 {
		missing := make([]string, 0, len(pending))
		for sym := range pending {
			missing = append(missing, sym)
		}
		sort.Strings(missing)
		return nil, &LookupError{Symbols: missing}
	}

	// Symbols that only have a large bitmap go last, both groups
	// keeping their relative order, so the small font table stays
	// densely packed.
	var large []string
	for _, sym := range order {
		if t.Small[sym] == nil {
			large = append(large, sym)
		} else {
			t.Symbols = append(t.Symbols, sym)
		}
	}
	t.Symbols = append(t.Symbols, large...)

	t.Codes["\n"] = []byte{codec.Newline}
	for i, sym := range t.Symbols {
		code, err := codec.Encode(i)
		if err != nil {
			return nil, err
		}
		t.Codes[sym] = code
	}
	return t, nil
}

// Encode converts text to its byte form, symbol by symbol. The text
// must already be normalized: no carriage returns, newlines literal.
func (t *Table) Encode(text string) ([]byte, error) {
	var out []byte
	for _, r := range text {
		code, ok := t.Codes[string(r)]
		if !ok {
			return nil, fmt.Errorf("symbol: no byte code for %q", string(r))
		}
		out = append(out, code...)
	}
	return out, nil
}
