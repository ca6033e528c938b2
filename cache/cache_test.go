package cache

import (
	"bytes"
	"testing"

	"transpack.dev/lang"
	"transpack.dev/symbol"
)

func testData() *Data {
	return &Data{
		Version: "2.22",
		Catalog: &lang.Catalog{
			Code:      "EN",
			LocalName: "English",
			Entries: []lang.Entry{
				{Group: lang.GroupMessages, ID: "SettingsResetMessage", Text: "OK"},
			},
		},
		Table: &symbol.Table{
			Symbols: []string{"O", "K"},
			Large:   map[string][]byte{"O": {1}, "K": {2}},
			Small:   map[string][]byte{"O": {3}, "K": nil},
			Codes:   map[string][]byte{"O": {0x02}, "K": {0x03}, "\n": {0x01}},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Save(&buf, testData()); err != nil {
		t.Fatal(err)
	}
	got, err := Load(&buf, "EN")
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != "2.22" || got.Catalog.LocalName != "English" {
		t.Errorf("loaded %q %q", got.Version, got.Catalog.LocalName)
	}
	if len(got.Catalog.Entries) != 1 || got.Catalog.Entries[0].ID != "SettingsResetMessage" {
		t.Errorf("entries = %+v", got.Catalog.Entries)
	}
	if !bytes.Equal(got.Table.Codes["O"], []byte{0x02}) {
		t.Errorf("codes = %x", got.Table.Codes["O"])
	}
	if got.Table.Small["K"] != nil {
		t.Error("absent small bitmap became non-nil")
	}
}

func TestLoadWrongLanguage(t *testing.T) {
	var buf bytes.Buffer
	if err := Save(&buf, testData()); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(&buf, "DE"); err == nil {
		t.Error("mismatched language code accepted")
	}
}

func TestLoadGarbage(t *testing.T) {
	if _, err := Load(bytes.NewReader([]byte("not cbor")), "EN"); err == nil {
		t.Error("garbage accepted")
	}
}
