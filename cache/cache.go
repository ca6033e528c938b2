// package cache persists prepared language data between runs, so the
// statistics and font resolution passes can be skipped when only the
// emission options change.
package cache

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"transpack.dev/lang"
	"transpack.dev/symbol"
)

// Data is one prepared language: the catalog and the symbol table
// built from it.
type Data struct {
	Version string        `cbor:"version"`
	Catalog *lang.Catalog `cbor:"catalog"`
	Table   *symbol.Table `cbor:"table"`
}

// Save writes data in CBOR form.
func Save(w io.Writer, data *Data) error {
	if err := cbor.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// Load reads previously saved data and checks it belongs to the given
// language code.
func Load(r io.Reader, code string) (*Data, error) {
	var data Data
	if err := cbor.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	if data.Catalog == nil || data.Table == nil {
		return nil, fmt.Errorf("cache: incomplete language data")
	}
	if data.Catalog.Code != code {
		return nil, fmt.Errorf("cache: language data is for %q, not %q", data.Catalog.Code, code)
	}
	return &data, nil
}
