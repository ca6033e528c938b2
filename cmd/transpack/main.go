// Command transpack compiles one language's translation pack: it
// collects the translatable texts, allocates font bitmaps and byte
// codes for every symbol they use, compacts the string table and
// generates the firmware translation source.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"transpack.dev/cache"
	"transpack.dev/emit"
	"transpack.dev/font"
	"transpack.dev/font/bdf"
	"transpack.dev/font/truetype"
	"transpack.dev/lang"
	"transpack.dev/symbol"
)

var (
	defsFile     = flag.String("defs", "translations_def.js", "translation definitions file")
	langDir      = flag.String("lang-dir", ".", "directory holding translation_XX.json files")
	fontDir      = flag.String("font-dir", "fonts", "directory holding font source files")
	output       = flag.String("o", "", "output source file")
	stringsBin   = flag.String("strings-bin", "", "binary translation block to embed compressed")
	compressFont = flag.Bool("compress-font", false, "embed the large font table compressed")
	inputCache   = flag.String("input-cache", "", "use previously prepared language data")
	outputCache  = flag.String("output-cache", "", "write prepared language data for later reuse")
	versionFile  = flag.String("version-file", "", "version header to read BUILD_VERSION from")
	buildDate    = flag.String("build-date", "", "build date stamp for the debug menu (DD-MM-YY)")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	if flag.NArg() != 1 || *output == "" {
		fmt.Fprintf(os.Stderr, "usage: transpack -o outfile [flags] languageCode\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *inputCache != "" && *outputCache != "" {
		log.Fatal("error: both -input-cache and -output-cache are specified")
	}
	if err := run(flag.Arg(0)); err != nil {
		log.Fatalf("error: %v", err)
	}
}

func run(code string) error {
	var data *cache.Data
	if *inputCache != "" {
		log.Printf("reading prepared language data from %s", *inputCache)
		f, err := os.Open(*inputCache)
		if err != nil {
			return err
		}
		defer f.Close()
		data, err = cache.Load(f, code)
		if err != nil {
			return err
		}
		log.Printf("build version: %s", data.Version)
	} else {
		var err error
		data, err = prepare(code)
		if err != nil {
			return err
		}
	}

	art, err := emit.Build(data.Table, data.Catalog)
	if err != nil {
		return err
	}
	var opts emit.SourceOptions
	opts.CompressFont = *compressFont
	if *stringsBin != "" {
		opts.StringsBin, err = os.ReadFile(*stringsBin)
		if err != nil {
			return err
		}
	}

	out, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := emit.WriteSource(out, data.Table, data.Catalog, art, opts); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if *outputCache != "" {
		log.Printf("writing prepared language data to %s", *outputCache)
		f, err := os.Create(*outputCache)
		if err != nil {
			return err
		}
		if err := cache.Save(f, data); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	log.Printf("done")
	return nil
}

func prepare(code string) (*cache.Data, error) {
	version, err := readVersion(*versionFile)
	if err != nil {
		return nil, fmt.Errorf("could not read version info: %w", err)
	}
	log.Printf("build version: %s", version)
	log.Printf("making %s from %s", code, *langDir)

	defs, err := loadDefs(*defsFile)
	if err != nil {
		return nil, err
	}
	l, err := loadLanguage(*langDir, code)
	if err != nil {
		return nil, err
	}
	cat, err := lang.NewCatalog(defs, l, version, *buildDate)
	if err != nil {
		return nil, err
	}

	sources, err := openSources(*fontDir, cat.Fonts)
	if err != nil {
		return nil, err
	}
	tab, err := symbol.Build(cat.SymbolsByUse(), sources)
	if err != nil {
		return nil, err
	}
	for _, name := range tab.Unused {
		log.Printf("font source %s resolved no symbols", name)
	}
	return &cache.Data{Version: version, Catalog: cat, Table: tab}, nil
}

func loadDefs(path string) (*lang.Defs, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	// A .js definitions file wraps the JSON in an assignment.
	return lang.LoadDefs(f, strings.HasSuffix(path, ".js"))
}

func loadLanguage(dir, code string) (*lang.Language, error) {
	path := filepath.Join(dir, "translation_"+code+".json")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return lang.LoadLanguage(f, code)
}

// openSources resolves each font name of the language to a source
// file: NAME.json packed tables, NAME.bdf bitmap fonts, NAME.ttf or
// NAME.otf vector fonts.
func openSources(dir string, names []string) ([]font.Source, error) {
	var sources []font.Source
	for _, name := range names {
		src, err := openSource(dir, name)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func openSource(dir, name string) (font.Source, error) {
	for _, ext := range []string{".json", ".bdf", ".ttf", ".otf"} {
		path := filepath.Join(dir, name+ext)
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		defer f.Close()
		switch ext {
		case ".json":
			tab, err := font.ParseTable(f)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			if tab.Name() != name {
				return nil, fmt.Errorf("%s: table name %q does not match %q", path, tab.Name(), name)
			}
			return tab, nil
		case ".bdf":
			parsed, err := bdf.Parse(f)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			return bdf.NewSource(name, parsed), nil
		default:
			data, err := io.ReadAll(f)
			if err != nil {
				return nil, err
			}
			src, err := truetype.NewSource(name, data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			return src, nil
		}
	}
	return nil, fmt.Errorf("no font source file for %q in %s", name, dir)
}

var versionDefine = regexp.MustCompile(`#define\s+BUILD_VERSION\s+"(.+?)"`)

// readVersion extracts BUILD_VERSION from the version header and
// appends the short VCS revision when one is available.
func readVersion(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no -version-file given")
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	version := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := versionDefine.FindStringSubmatch(scanner.Text()); m != nil {
			version = m[1]
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	if version == "" {
		return "", fmt.Errorf("no BUILD_VERSION in %s", path)
	}
	rev, err := exec.Command("git", "rev-parse", "--short=7", "HEAD").Output()
	if err != nil {
		return version + " git", nil
	}
	return version + "." + strings.ToUpper(strings.TrimSpace(string(rev))), nil
}
