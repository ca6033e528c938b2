package emit

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Compress deflates data. The caller records the uncompressed size
// alongside; Decompress needs it to size its buffer, the same contract
// the firmware decompressor has.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates data into exactly size bytes.
func Decompress(data []byte, size int) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out := make([]byte, size)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}
	var extra [1]byte
	if n, _ := r.Read(extra[:]); n != 0 {
		return nil, fmt.Errorf("emit: compressed data exceeds declared size %d", size)
	}
	return out, nil
}
