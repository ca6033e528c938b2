package codec

import (
	"bytes"
	"errors"
	"testing"
)

func TestBijection(t *testing.T) {
	seen := make(map[string]int)
	for o := 0; o <= MaxOrdinals; o++ {
		b, err := Encode(o)
		if err != nil {
			t.Fatalf("Encode(%d): %v", o, err)
		}
		if prev, ok := seen[string(b)]; ok {
			t.Fatalf("Encode(%d) = %x, already produced by ordinal %d", o, b, prev)
		}
		seen[string(b)] = o
		got, err := Decode(b)
		if err != nil {
			t.Fatalf("Decode(%x): %v", b, err)
		}
		if got != o {
			t.Errorf("Decode(Encode(%d)) = %d", o, got)
		}
	}
}

func TestBoundaries(t *testing.T) {
	tests := []struct {
		ordinal int
		want    []byte
	}{
		{0, []byte{0x02}},
		{1, []byte{0x03}},
		{238, []byte{0xF0}},
		{239, []byte{0xF1, 0x01}},
		{493, []byte{0xF1, 0xFF}},
		{494, []byte{0xF2, 0x01}},
		{MaxOrdinals, []byte{0xFF, 0xFF}},
	}
	for _, test := range tests {
		got, err := Encode(test.ordinal)
		if err != nil {
			t.Fatalf("Encode(%d): %v", test.ordinal, err)
		}
		if !bytes.Equal(got, test.want) {
			t.Errorf("Encode(%d) = %x, expected %x", test.ordinal, got, test.want)
		}
	}
}

func TestNoZeroValueByte(t *testing.T) {
	for o := 0; o <= MaxOrdinals; o++ {
		b, err := Encode(o)
		if err != nil {
			t.Fatal(err)
		}
		for _, v := range b {
			if v == Terminator {
				t.Fatalf("Encode(%d) = %x contains the terminator byte", o, b)
			}
			if v == Newline {
				t.Fatalf("Encode(%d) = %x contains the newline byte", o, b)
			}
		}
	}
}

func TestRangeErrors(t *testing.T) {
	if _, err := Encode(-1); !errors.Is(err, ErrRange) {
		t.Errorf("Encode(-1) = %v, expected range error", err)
	}
	if _, err := Encode(MaxOrdinals + 1); !errors.Is(err, ErrRange) {
		t.Errorf("Encode(%d) = %v, expected range error", MaxOrdinals+1, err)
	}
	bad := [][]byte{
		{},
		{0x00},
		{0x01},
		{0xF1},
		{0xF1, 0x00},
		{0x02, 0x02},
		{0x02, 0x02, 0x02},
	}
	for _, b := range bad {
		if _, err := Decode(b); !errors.Is(err, ErrRange) {
			t.Errorf("Decode(%x) = %v, expected range error", b, err)
		}
	}
}
