// package emit serializes a symbol table and text catalog into the
// firmware artifacts: the binary translation block and the generated
// C++ translation source.
package emit

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"transpack.dev/lang"
	"transpack.dev/strtab"
	"transpack.dev/symbol"
)

// An Artifact holds the encoded form of one language: the per-entry
// byte sequences, the compacted string blob with offsets, and the font
// bitmap blobs in final symbol order.
type Artifact struct {
	// Entries holds the encoded bytes of each catalog entry, parallel
	// to the catalog's Entries.
	Entries [][]byte
	// Offsets locates each entry in Strings.
	Offsets []int
	// Reps maps each entry to the entry whose stored bytes it shares.
	Reps []int
	// Strings is the compacted blob, representatives terminated by 0x00.
	Strings []byte

	// FontLarge concatenates the 12x16 bitmaps in final symbol order.
	FontLarge []byte
	// FontSmall concatenates the 6x8 bitmaps of the both-size symbols,
	// which occupy the front of the symbol order.
	FontSmall  []byte
	SmallCount int
}

// Build encodes every catalog entry through the symbol table, compacts
// the string blob and lays out the font blobs. Offsets are checked
// against the uint16 index table layout.
func Build(tab *symbol.Table, cat *lang.Catalog) (*Artifact, error) {
	a := &Artifact{Entries: make([][]byte, 0, len(cat.Entries))}
	for _, e := range cat.Entries {
		enc, err := tab.Encode(lang.Normalize(e.Text))
		if err != nil {
			return nil, fmt.Errorf("emit: %s %s: %w", e.Group, e.ID, err)
		}
		a.Entries = append(a.Entries, enc)
	}
	a.Strings, a.Offsets, a.Reps = strtab.Compact(a.Entries)
	for i, off := range a.Offsets {
		if off > 0xFFFF {
			return nil, fmt.Errorf("emit: entry %d at offset %d exceeds the uint16 index table", i, off)
		}
	}
	for _, sym := range tab.Symbols {
		a.FontLarge = append(a.FontLarge, tab.Large[sym]...)
		if small := tab.Small[sym]; small != nil {
			a.FontSmall = append(a.FontSmall, small...)
			a.SmallCount++
		}
	}
	return a, nil
}

// TranslationBin is the binary translation block the firmware reads:
// the index table as little-endian uint16 offsets in index group
// order, followed by the string blob the offsets point into.
func (a *Artifact) TranslationBin(cat *lang.Catalog) []byte {
	var out []byte
	for _, group := range lang.IndexGroups {
		_, indices := cat.Group(group)
		for _, idx := range indices {
			out = binary.LittleEndian.AppendUint16(out, uint16(a.Offsets[idx]))
		}
	}
	return append(out, a.Strings...)
}

// Bin is the complete byte-exact artifact: symbol count, large font
// table, small font table, two-byte code table and the translation
// block. Identical inputs produce identical bytes.
func (a *Artifact) Bin(tab *symbol.Table, cat *lang.Catalog) []byte {
	var out []byte
	out = binary.LittleEndian.AppendUint16(out, uint16(len(tab.Symbols)))
	out = append(out, a.FontLarge...)
	out = binary.LittleEndian.AppendUint16(out, uint16(a.SmallCount))
	out = append(out, a.FontSmall...)
	for _, sym := range tab.Symbols {
		code := tab.Codes[sym]
		out = append(out, code[0])
		if len(code) > 1 {
			out = append(out, code[1])
		} else {
			out = append(out, 0)
		}
	}
	tr := a.TranslationBin(cat)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(tr)))
	return append(out, tr...)
}

// SourceOptions selects the optional compressed paths of the generated
// source.
type SourceOptions struct {
	// StringsBin, when set, is a prebuilt binary translation block to
	// embed compressed instead of generating the table initializers.
	StringsBin []byte
	// CompressFont embeds the large font table compressed.
	CompressFont bool
}

// WriteSource generates the C++ translation source for one language.
func WriteSource(w io.Writer, tab *symbol.Table, cat *lang.Catalog, a *Artifact, opts SourceOptions) error {
	var b bytes.Buffer
	b.WriteString("// WARNING: THIS FILE WAS AUTO GENERATED. PLEASE DO NOT EDIT.\n\n")
	b.WriteString("#include \"Translation.h\"\n")
	if opts.StringsBin != nil || opts.CompressFont {
		b.WriteString("#include \"tinf.h\"\n")
	}
	fmt.Fprintf(&b, "\n// ---- %s ----\n\n", cat.LocalName)

	if opts.CompressFont {
		comp, err := Compress(a.FontLarge)
		if err != nil {
			return err
		}
		writeByteArray(&b, "font_12x16_deflate", comp)
	} else {
		writeFontLarge(&b, tab)
	}
	writeFontSmall(&b, tab)

	fmt.Fprintf(&b, "\n// ---- %s ----\n\n", cat.LocalName)

	for _, k := range cat.Constants {
		enc, err := tab.Encode(lang.Normalize(k.Value))
		if err != nil {
			return fmt.Errorf("emit: constant %s: %w", k.Name, err)
		}
		fmt.Fprintf(&b, "const char* %s = \"%s\";//%s \n", k.Name, escapeBytes(enc), k.Value)
	}
	b.WriteString("\nconst char* DebugMenu[] = {\n")
	for _, d := range cat.DebugMenu {
		enc, err := tab.Encode(lang.Normalize(d))
		if err != nil {
			return fmt.Errorf("emit: debug menu: %w", err)
		}
		fmt.Fprintf(&b, "\t \"%s\",//%s \n", escapeBytes(enc), d)
	}
	b.WriteString("};\n\n")

	fmt.Fprintf(&b, "const bool HasFahrenheit = %t;\n\n", cat.Fahrenheit)

	if opts.CompressFont {
		fmt.Fprintf(&b, "static uint8_t font_out_buffer[%d];\n\n", len(a.FontLarge))
		b.WriteString("extern const uint8_t *const Font_12x16 = font_out_buffer;\n")
	} else {
		b.WriteString("extern const uint8_t *const Font_12x16 = USER_FONT_12;\n")
	}
	b.WriteString("extern const uint8_t *const Font_6x8 = USER_FONT_6x8;\n\n")

	if opts.StringsBin != nil {
		comp, err := Compress(opts.StringsBin)
		if err != nil {
			return err
		}
		writeByteArray(&b, "translation_data_deflate", comp)
		fmt.Fprintf(&b, "static uint8_t translation_data_out_buffer[%d] __attribute__((__aligned__(2)));\n\n", len(opts.StringsBin))
		b.WriteString("const TranslationIndexTable *const Tr = reinterpret_cast<const TranslationIndexTable *>(translation_data_out_buffer);\n" +
			"const char *const TranslationStrings = reinterpret_cast<const char *>(translation_data_out_buffer) + sizeof(TranslationIndexTable);\n\n")
	} else {
		writeStringsAndIndices(&b, cat, a)
		b.WriteString("const TranslationIndexTable *const Tr = &TranslationIndices;\n" +
			"const char *const TranslationStrings = TranslationStringsData;\n\n")
	}

	if opts.StringsBin == nil && !opts.CompressFont {
		b.WriteString("void prepareTranslations() {}\n\n")
	} else {
		b.WriteString("void prepareTranslations() {\n  unsigned int outsize;\n")
		if opts.CompressFont {
			b.WriteString("  outsize = sizeof(font_out_buffer);\n" +
				"  tinf_uncompress(font_out_buffer, &outsize, font_12x16_deflate, sizeof(font_12x16_deflate));\n")
		}
		if opts.StringsBin != nil {
			b.WriteString("  outsize = sizeof(translation_data_out_buffer);\n" +
				"  tinf_uncompress(translation_data_out_buffer, &outsize, translation_data_deflate, sizeof(translation_data_deflate));\n")
		}
		b.WriteString("}\n\n")
	}

	writeSanityChecks(&b, cat)
	_, err := w.Write(b.Bytes())
	return err
}

func writeFontLarge(b *bytes.Buffer, tab *symbol.Table) {
	b.WriteString("const uint8_t USER_FONT_12[] = {\n")
	for _, sym := range tab.Symbols {
		fmt.Fprintf(b, "%s//%s -> %s\n", cHex(tab.Large[sym]), escapeBytes(tab.Codes[sym]), sym)
	}
	b.WriteString("};\n")
}

func writeFontSmall(b *bytes.Buffer, tab *symbol.Table) {
	b.WriteString("const uint8_t USER_FONT_6x8[] = {\n")
	for _, sym := range tab.Symbols {
		line := "//" + strings.Repeat(" ", 33) // placeholder, no bytes
		if small := tab.Small[sym]; small != nil {
			line = cHex(small)
		}
		fmt.Fprintf(b, "%s//%s -> %s\n", line, escapeBytes(tab.Codes[sym]), sym)
	}
	b.WriteString("};\n")
}

// entryInfos renders the comment label of every catalog entry: the
// plain id for the scalar groups, "[nn] id" for the array groups.
func entryInfos(cat *lang.Catalog) []string {
	arrayGroup := map[string]bool{
		lang.GroupSettingsDesc:    true,
		lang.GroupShortNames:      true,
		lang.GroupMenuEntries:     true,
		lang.GroupMenuEntriesDesc: true,
	}
	infos := make([]string, len(cat.Entries))
	nth := make(map[string]int)
	for i, e := range cat.Entries {
		if arrayGroup[e.Group] {
			infos[i] = fmt.Sprintf("[%02d] %s", nth[e.Group], e.ID)
		} else {
			infos[i] = e.ID
		}
		nth[e.Group]++
	}
	return infos
}

func writeStringsAndIndices(b *bytes.Buffer, cat *lang.Catalog, a *Artifact) {
	infos := entryInfos(cat)

	b.WriteString("const char TranslationStringsData[] = {\n")
	first := true
	for i, enc := range a.Entries {
		if a.Reps[i] != i {
			continue
		}
		if !first {
			b.WriteString(" \"\\0\"\n")
		}
		first = false
		users := []int{i}
		for j, r := range a.Reps {
			if j != i && r == i {
				users = append(users, j)
			}
		}
		for _, j := range users {
			fmt.Fprintf(b, "  //     - %s %s\n", cat.Entries[j].Group, infos[j])
			fmt.Fprintf(b, "  // %4d: %s\n", a.Offsets[j], escapeText(cat.Entries[j].Text))
		}
		fmt.Fprintf(b, "  \"%s\"", escapeBytes(enc))
	}
	b.WriteString("\n}; // TranslationStringsData\n\n")

	b.WriteString("const TranslationIndexTable TranslationIndices = {\n")
	for _, group := range []string{lang.GroupMessages, lang.GroupMessagesWarn, lang.GroupCharacters} {
		entries, indices := cat.Group(group)
		for k, e := range entries {
			fmt.Fprintf(b, "  .%s = %d, // %s\n", e.ID, a.Offsets[indices[k]], escapeText(e.Text))
		}
		b.WriteString("\n")
	}
	for _, group := range []string{lang.GroupSettingsDesc, lang.GroupShortNames, lang.GroupMenuEntries, lang.GroupMenuEntriesDesc} {
		entries, indices := cat.Group(group)
		fmt.Fprintf(b, "  .%s = {\n", group)
		for k, e := range entries {
			fmt.Fprintf(b, "    /* %-30.30s */ %d, // %s\n",
				fmt.Sprintf("[%02d] %s", k, e.ID), a.Offsets[indices[k]], escapeText(e.Text))
		}
		fmt.Fprintf(b, "  }, // %s\n\n", group)
	}
	b.WriteString("}; // TranslationIndices\n\n")
}

func writeSanityChecks(b *bytes.Buffer, cat *lang.Catalog) {
	entries, _ := cat.Group(lang.GroupSettingsDesc)
	b.WriteString("\n// Verify SettingsItemIndex values:\n")
	for i, e := range entries {
		fmt.Fprintf(b, "static_assert(static_cast<uint8_t>(SettingsItemIndex::%s) == %d);\n", e.ID, i)
	}
	fmt.Fprintf(b, "static_assert(static_cast<uint8_t>(SettingsItemIndex::NUM_ITEMS) == %d);\n", len(entries))
}

func writeByteArray(b *bytes.Buffer, name string, data []byte) {
	fmt.Fprintf(b, "const uint8_t %s[] = {\n", name)
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		b.WriteString("  ")
		for j, v := range data[i:end] {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "0x%02X", v)
		}
		b.WriteString(",\n")
	}
	fmt.Fprintf(b, "}; // %s\n\n", name)
}

func escapeBytes(data []byte) string {
	var sb strings.Builder
	for _, v := range data {
		fmt.Fprintf(&sb, "\\x%02X", v)
	}
	return sb.String()
}

func cHex(data []byte) string {
	parts := make([]string, len(data))
	for i, v := range data {
		parts[i] = fmt.Sprintf("0x%02X", v)
	}
	return strings.Join(parts, ", ") + ","
}

func escapeText(text string) string {
	return strconv.Quote(lang.Normalize(text))
}
