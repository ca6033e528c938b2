package truetype

import (
	"bytes"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"transpack.dev/font"
)

func TestNewSourceRejectsGarbage(t *testing.T) {
	if _, err := NewSource("vector", []byte("not a font")); err == nil {
		t.Error("garbage font data accepted")
	}
}

func TestSupportsOnlyMappedRunes(t *testing.T) {
	src, err := NewSource("vector", goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	if !src.Supports("A") {
		t.Error("Supports(A) = false")
	}
	// Go Regular maps uncovered runes to the missing-glyph box; the
	// source must not claim them, or it shadows later sources.
	if src.Supports("一") {
		t.Error("Supports(一) = true")
	}
	if _, ok := src.Glyph("一"); ok {
		t.Error("Glyph(一) resolved")
	}
	if src.Supports("ab") || src.Supports("") {
		t.Error("multi-rune symbol supported")
	}
}

func TestGlyphRenders(t *testing.T) {
	src, err := NewSource("vector", goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	g, ok := src.Glyph("A")
	if !ok {
		t.Fatal("Glyph(A) unresolved")
	}
	if len(g.Large) != font.LargeBytes || len(g.Small) != font.SmallBytes {
		t.Fatalf("bitmap sizes %d/%d", len(g.Large), len(g.Small))
	}
	if bytes.Equal(g.Large, make([]byte, font.LargeBytes)) {
		t.Error("large bitmap is empty")
	}
	if bytes.Equal(g.Small, make([]byte, font.SmallBytes)) {
		t.Error("small bitmap is empty")
	}
}
