// package lang loads translation definitions and per-language content
// and derives the texts and symbol statistics the compiler works from.
package lang

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Defs describes the translatable fields shared by every language:
// which ids exist and in what order they occupy the firmware index
// table.
type Defs struct {
	MenuOptions  []FieldDef   `json:"menuOptions"`
	Messages     []MessageDef `json:"messages"`
	MessagesWarn []FieldDef   `json:"messagesWarn"`
	Characters   []FieldDef   `json:"characters"`
	MenuGroups   []FieldDef   `json:"menuGroups"`
}

type FieldDef struct {
	ID string `json:"id"`
}

// MessageDef optionally carries a default text used when a language
// leaves the message untranslated.
type MessageDef struct {
	ID      string `json:"id"`
	Default string `json:"default"`
}

// LoadDefs reads a definitions file. skipFirstLine drops the variable
// assignment line of a .js wrapped definitions file.
func LoadDefs(r io.Reader, skipFirstLine bool) (*Defs, error) {
	br := bufio.NewReader(r)
	if skipFirstLine {
		if _, err := br.ReadString('\n'); err != nil {
			return nil, fmt.Errorf("lang: defs: %w", err)
		}
	}
	var d Defs
	if err := json.NewDecoder(br).Decode(&d); err != nil {
		return nil, fmt.Errorf("lang: defs: %w", err)
	}
	return &d, nil
}

// Text is a translated value that is either a plain string or a pair
// of display lines.
type Text struct {
	Lines []string `cbor:"lines"`
	Pair  bool     `cbor:"pair"`
}

func (t *Text) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		t.Pair = true
		return json.Unmarshal(b, &t.Lines)
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t.Lines = []string{s}
	return nil
}

// Display renders the value the way the firmware shows it: a pair is
// two lines joined by a newline, dropping an empty second line; a
// plain string displays on the second line only.
func (t Text) Display() string {
	if len(t.Lines) == 0 {
		return ""
	}
	if !t.Pair {
		return "\n" + t.Lines[0]
	}
	if len(t.Lines) < 2 || t.Lines[1] == "" {
		return t.Lines[0]
	}
	return t.Lines[0] + "\n" + t.Lines[1]
}

type MenuOption struct {
	Desc  string `json:"desc"`
	Text2 Text   `json:"text2"`
}

type MenuGroup struct {
	Text2 Text   `json:"text2"`
	Desc  string `json:"desc"`
}

// Language is one translation file.
type Language struct {
	Code         string                `json:"languageCode"`
	LocalName    string                `json:"languageLocalName"`
	Fonts        []string              `json:"fonts"`
	Fahrenheit   *bool                 `json:"tempUnitFahrenheit"`
	MenuOptions  map[string]MenuOption `json:"menuOptions"`
	Messages     map[string]string     `json:"messages"`
	MessagesWarn map[string]Text       `json:"messagesWarn"`
	Characters   map[string]string     `json:"characters"`
	MenuGroups   map[string]MenuGroup  `json:"menuGroups"`
}

// LoadLanguage reads a translation file and checks its language code
// against the one implied by the file name.
func LoadLanguage(r io.Reader, code string) (*Language, error) {
	var l Language
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("lang: %w", err)
	}
	if !strings.EqualFold(l.Code, code) {
		return nil, fmt.Errorf("lang: languageCode %q does not match %q", l.Code, code)
	}
	return &l, nil
}

// Normalize strips carriage returns and turns literal \n escapes into
// newlines, matching how the firmware renders the text.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\\r", "")
	text = strings.ReplaceAll(text, "\r", "")
	return strings.ReplaceAll(text, "\\n", "\n")
}

// Group names of the firmware index table, in emission order.
const (
	GroupMessages        = "messages"
	GroupMessagesWarn    = "messagesWarn"
	GroupCharacters      = "characters"
	GroupSettingsDesc    = "SettingsDescriptions"
	GroupShortNames      = "SettingsShortNames"
	GroupMenuEntries     = "SettingsMenuEntries"
	GroupMenuEntriesDesc = "SettingsMenuEntriesDescriptions"
)

// IndexGroups lists the groups in the order their offsets appear in
// the emitted index table.
var IndexGroups = []string{
	GroupMessages,
	GroupMessagesWarn,
	GroupCharacters,
	GroupSettingsDesc,
	GroupShortNames,
	GroupMenuEntries,
	GroupMenuEntriesDesc,
}

// An Entry is one translatable unit. Group and ID locate the slot in
// the firmware index table and appear in emitted comments; they never
// affect encoding.
type Entry struct {
	Group string `cbor:"group"`
	ID    string `cbor:"id"`
	Text  string `cbor:"text"`
}

// A Constant is a fixed firmware string shared by all languages.
type Constant struct {
	Name  string `cbor:"name"`
	Value string `cbor:"value"`
}

// A Catalog is the full set of texts one compilation run encodes.
type Catalog struct {
	Code       string     `cbor:"code"`
	LocalName  string     `cbor:"localName"`
	Fonts      []string   `cbor:"fonts"`
	Fahrenheit bool       `cbor:"fahrenheit"`
	Entries    []Entry    `cbor:"entries"`
	Constants  []Constant `cbor:"constants"`
	DebugMenu  []string   `cbor:"debugMenu"`
}

// Constants returns the fixed firmware symbol strings. The build
// version participates in symbol statistics like any other text.
func Constants(buildVersion string) []Constant {
	return []Constant{
		{"SymbolPlus", "+"},
		{"SymbolMinus", "-"},
		{"SymbolSpace", " "},
		{"SymbolDot", "."},
		{"SymbolDegC", "C"},
		{"SymbolDegF", "F"},
		{"SymbolMinutes", "M"},
		{"SymbolSeconds", "S"},
		{"SymbolWatts", "W"},
		{"SymbolVolts", "V"},
		{"SymbolDC", "DC"},
		{"SymbolCellCount", "S"},
		{"SymbolVersionNumber", buildVersion},
	}
}

// DebugMenu returns the debug menu labels. The build date stamp is an
// input rather than the wall clock so identical inputs reproduce
// identical artifacts.
func DebugMenu(buildDate string) []string {
	return []string{
		buildDate,
		"HW G ",
		"HW M ",
		"HW P ",
		"Time ",
		"Move ",
		"RTip ",
		"CTip ",
		"CHan ",
		"Vin  ",
		"PCB  ",
		"PWR  ",
		"Max  ",
	}
}

// NewCatalog assembles every translatable text of one language in
// index table order. Missing translations fall back to defaults where
// the definitions provide one and fail otherwise.
func NewCatalog(defs *Defs, l *Language, buildVersion, buildDate string) (*Catalog, error) {
	c := &Catalog{
		Code:       l.Code,
		LocalName:  l.LocalName,
		Fonts:      l.Fonts,
		Fahrenheit: l.Fahrenheit == nil || *l.Fahrenheit,
		Constants:  Constants(buildVersion),
		DebugMenu:  DebugMenu(buildDate),
	}
	if c.LocalName == "" {
		c.LocalName = l.Code
	}
	add := func(group, id, text string) {
		c.Entries = append(c.Entries, Entry{Group: group, ID: id, Text: text})
	}

	for _, def := range defs.MenuOptions {
		opt, ok := l.MenuOptions[def.ID]
		if !ok {
			return nil, fmt.Errorf("lang: %s: no menuOptions entry %q", l.Code, def.ID)
		}
		add(GroupSettingsDesc, def.ID, opt.Desc)
	}
	for _, def := range defs.Messages {
		text := def.Default
		if t, ok := l.Messages[def.ID]; ok {
			text = t
		}
		add(GroupMessages, def.ID, text)
	}
	for _, def := range defs.MessagesWarn {
		warn, ok := l.MessagesWarn[def.ID]
		if !ok {
			return nil, fmt.Errorf("lang: %s: no messagesWarn entry %q", l.Code, def.ID)
		}
		add(GroupMessagesWarn, def.ID, warn.Display())
	}
	for _, def := range defs.Characters {
		ch, ok := l.Characters[def.ID]
		if !ok {
			return nil, fmt.Errorf("lang: %s: no characters entry %q", l.Code, def.ID)
		}
		add(GroupCharacters, def.ID, ch)
	}
	for _, def := range defs.MenuOptions {
		add(GroupShortNames, def.ID, l.MenuOptions[def.ID].Text2.Display())
	}
	for _, def := range defs.MenuGroups {
		grp, ok := l.MenuGroups[def.ID]
		if !ok {
			return nil, fmt.Errorf("lang: %s: no menuGroups entry %q", l.Code, def.ID)
		}
		add(GroupMenuEntries, def.ID, grp.Text2.Display())
	}
	for _, def := range defs.MenuGroups {
		add(GroupMenuEntriesDesc, def.ID, l.MenuGroups[def.ID].Desc)
	}
	return c, nil
}

// Group returns the catalog entries of one group, with their catalog
// indices, preserving definition order.
func (c *Catalog) Group(group string) (entries []Entry, indices []int) {
	for i, e := range c.Entries {
		if e.Group == group {
			entries = append(entries, e)
			indices = append(indices, i)
		}
	}
	return entries, indices
}

// SymbolsByUse returns every symbol appearing in the catalog texts,
// most used first, ties broken by the symbol value descending. Newline
// and carriage return never count; they map to reserved codes.
func (c *Catalog) SymbolsByUse() []string {
	counts := make(map[string]int)
	add := func(text string) {
		text = strings.ReplaceAll(Normalize(text), "\n", "")
		for _, r := range text {
			counts[string(r)]++
		}
	}
	for _, e := range c.Entries {
		add(e.Text)
	}
	for _, k := range c.Constants {
		add(k.Value)
	}
	for _, d := range c.DebugMenu {
		add(d)
	}
	syms := make([]string, 0, len(counts))
	for sym := range counts {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		if counts[syms[i]] != counts[syms[j]] {
			return counts[syms[i]] > counts[syms[j]]
		}
		return syms[i] > syms[j]
	})
	return syms
}
