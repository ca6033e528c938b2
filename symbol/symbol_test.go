package symbol

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"transpack.dev/codec"
	"transpack.dev/font"
)

// testSource is a font source with a fixed symbol set.
type testSource struct {
	name  string
	syms  []string
	small bool
}

func (s *testSource) Name() string { return s.name }

func (s *testSource) Supports(sym string) bool {
	for _, c := range s.syms {
		if c == sym {
			return true
		}
	}
	return false
}

func (s *testSource) Glyph(sym string) (font.Glyph, bool) {
	if !s.Supports(sym) {
		return font.Glyph{}, false
	}
	g := font.Glyph{Large: bytes.Repeat([]byte(sym[:1]), font.LargeBytes)}
	if s.small {
		g.Small = bytes.Repeat([]byte(sym[:1]), font.SmallBytes)
	}
	return g, true
}

func ascii(syms ...string) *testSource {
	all := append([]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}, syms...)
	return &testSource{name: font.NameASCIIBasic, syms: all, small: true}
}

func TestDigitsFirst(t *testing.T) {
	tab, err := Build([]string{"b", "7", "a"}, []font.Source{ascii("a", "b")})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "b", "a"}
	if fmt.Sprint(tab.Symbols) != fmt.Sprint(want) {
		t.Errorf("symbols %q, expected %q", tab.Symbols, want)
	}
	// Digits get codes 0x02..0x0B.
	for i := 0; i < 10; i++ {
		sym := string(rune('0' + i))
		if got := tab.Codes[sym]; !bytes.Equal(got, []byte{byte(2 + i)}) {
			t.Errorf("code for %s = %x", sym, got)
		}
	}
	if got := tab.Codes["\n"]; !bytes.Equal(got, []byte{codec.Newline}) {
		t.Errorf("newline code %x", got)
	}
}

func TestLargeOnlyLast(t *testing.T) {
	cjk := &testSource{name: "cjk", syms: []string{"一", "二"}}
	tab, err := Build([]string{"一", "a", "二", "b"}, []font.Source{ascii("a", "b"), cjk})
	if err != nil {
		t.Fatal(err)
	}
	n := len(tab.Symbols)
	if got := tab.Symbols[n-2:]; got[0] != "一" || got[1] != "二" {
		t.Errorf("tail symbols %q, expected large-only pair in arrival order", got)
	}
	if tab.Small["一"] != nil {
		t.Error("large-only symbol has a small bitmap")
	}
	if tab.Small["a"] == nil {
		t.Error("both-size symbol lost its small bitmap")
	}
	// No large-only symbol may precede a both-size symbol.
	firstLarge := -1
	for i, sym := range tab.Symbols {
		if tab.Small[sym] == nil {
			if firstLarge == -1 {
				firstLarge = i
			}
		} else if firstLarge != -1 {
			t.Fatalf("both-size symbol %q after large-only at %d", sym, firstLarge)
		}
	}
}

func TestFirstSourceWins(t *testing.T) {
	second := &testSource{name: "fallback", syms: []string{"a"}, small: true}
	tab, err := Build([]string{"a"}, []font.Source{ascii("a"), second})
	if err != nil {
		t.Fatal(err)
	}
	if tab.Large["a"][0] != 'a' {
		t.Error("symbol not resolved by the first source")
	}
	if len(tab.Unused) != 1 || tab.Unused[0] != "fallback" {
		t.Errorf("unused = %q, expected the fallback source", tab.Unused)
	}
}

func TestBaselineRequired(t *testing.T) {
	src := &testSource{name: "other", syms: []string{"a"}, small: true}
	if _, err := Build([]string{"a"}, []font.Source{src}); !errors.Is(err, ErrBaseline) {
		t.Errorf("err = %v, expected baseline error", err)
	}
	if _, err := Build([]string{"a"}, nil); !errors.Is(err, ErrBaseline) {
		t.Errorf("err = %v, expected baseline error", err)
	}
}

func TestDuplicateRejected(t *testing.T) {
	_, err := Build([]string{"a", "a"}, []font.Source{ascii("a")})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("err = %v, expected duplicate error", err)
	}
}

func TestLookupBatched(t *testing.T) {
	_, err := Build([]string{"a", "ξ", "ψ"}, []font.Source{ascii("a")})
	var lerr *LookupError
	if !errors.As(err, &lerr) {
		t.Fatalf("err = %v, expected lookup error", err)
	}
	if fmt.Sprint(lerr.Symbols) != fmt.Sprint([]string{"ξ", "ψ"}) {
		t.Errorf("unresolved %q, expected both missing symbols", lerr.Symbols)
	}
}

func TestCapacity(t *testing.T) {
	syms := make([]string, 0, 4065)
	src := &testSource{name: font.NameASCIIBasic, small: true}
	for i := 0; len(syms) < 4065; i++ {
		r := rune(0x4E00 + i)
		syms = append(syms, string(r))
	}
	src.syms = append(append([]string{}, syms...), "0", "1", "2", "3", "4", "5", "6", "7", "8", "9")
	_, err := Build(syms, []font.Source{src})
	var cerr *CapacityError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, expected capacity error", err)
	}
	if cerr.Count != 4075 {
		t.Errorf("count = %d, expected 4065 symbols plus 10 forced digits", cerr.Count)
	}
}

func TestEncode(t *testing.T) {
	tab, err := Build([]string{"a", "b"}, []font.Source{ascii("a", "b")})
	if err != nil {
		t.Fatal(err)
	}
	got, err := tab.Encode("ab\n7")
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x0C, 0x0D, codec.Newline, 0x09}
	if !bytes.Equal(got, want) {
		t.Errorf("encoded %x, expected %x", got, want)
	}
	if _, err := tab.Encode("missing!"); err == nil {
		t.Error("unknown symbol encoded")
	}
}
