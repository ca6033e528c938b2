package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"transpack.dev/font"
)

func writeTable(t *testing.T, dir, file, name string) {
	t.Helper()
	large := hex.EncodeToString(make([]byte, font.LargeBytes))
	data := fmt.Sprintf(`{"name": %q, "large": {"a": %q}}`, name, large)
	if err := os.WriteFile(filepath.Join(dir, file), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOpenSourceTable(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "ascii_basic.json", "ascii_basic")
	src, err := openSource(dir, "ascii_basic")
	if err != nil {
		t.Fatal(err)
	}
	if src.Name() != "ascii_basic" || !src.Supports("a") {
		t.Errorf("source %q supports a: %t", src.Name(), src.Supports("a"))
	}
}

func TestOpenSourceNameMismatch(t *testing.T) {
	dir := t.TempDir()
	// A file declaring a different table name must fail here, not
	// later as a baseline validation error.
	writeTable(t, dir, "ascii_basic.json", "other")
	if _, err := openSource(dir, "ascii_basic"); err == nil {
		t.Error("mismatched table name accepted")
	} else if !strings.Contains(err.Error(), "other") {
		t.Errorf("err = %v, expected the declared name", err)
	}
}

func TestOpenSourceMissing(t *testing.T) {
	if _, err := openSource(t.TempDir(), "nope"); err == nil {
		t.Error("missing source file accepted")
	}
}
