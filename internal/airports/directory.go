// Package airports resolves IATA airport codes to human-readable names.
//
// The Directory is a read-only lookup table loaded once at process start,
// either from the bundled data/airport_codes.csv or from a file supplied by
// configuration. It is safe for concurrent reads.
//
// The bundled file covers the Ryanair network as of 2024. Codes it does not
// know are stored as NULL names, so deployments tracking other carriers or
// new routes should point airports.path at a maintained IATA export.
package airports

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

//go:embed data/airport_codes.csv
var bundled string

// Header names recognised for the code and name columns. The first match in
// header order wins.
var (
	codeHeaders = []string{"iata", "iata_code", "dep_iata", "arr_iata", "code"}
	nameHeaders = []string{"airport_name", "name"}
)

// Directory maps an upper-case IATA code to an airport name.
type Directory struct {
	names map[string]string
}

// Bundled returns the directory built from the embedded reference dataset.
func Bundled() (*Directory, error) {
	return Load(strings.NewReader(bundled))
}

// Open loads a directory from a CSV file on disk. An empty path selects the
// bundled dataset.
func Open(path string) (*Directory, error) {
	if strings.TrimSpace(path) == "" {
		return Bundled()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("airports: open %s: %w", path, err)
	}
	defer f.Close()

	d, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("airports: %s: %w", path, err)
	}
	return d, nil
}

// Load reads a header-first CSV with an IATA code column and an airport name
// column. Rows with a blank code or name are skipped. When a code appears more
// than once the first name is kept, so a join against the directory can never
// fan out.
func Load(r io.Reader) (*Directory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty airport dataset")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	codeIdx := indexOf(header, codeHeaders)
	nameIdx := indexOf(header, nameHeaders)
	if codeIdx < 0 || nameIdx < 0 {
		return nil, fmt.Errorf("header %v: need one of %v and one of %v", header, codeHeaders, nameHeaders)
	}

	d := &Directory{names: make(map[string]string, 1024)}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if codeIdx >= len(rec) || nameIdx >= len(rec) {
			continue
		}
		code := NormalizeCode(rec[codeIdx])
		name := cleanName(rec[nameIdx])
		if code == "" || name == "" {
			continue
		}
		if _, dup := d.names[code]; dup {
			continue
		}
		d.names[code] = name
	}
	return d, nil
}

// Lookup returns the airport name for code.
func (d *Directory) Lookup(code string) (string, bool) {
	if d == nil {
		return "", false
	}
	name, ok := d.names[NormalizeCode(code)]
	return name, ok
}

// Len returns the number of codes in the directory.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}

// NormalizeCode trims and upper-cases an IATA code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// cleanName collapses whitespace runs, composes to NFC and drops control
// characters so that names compare and store consistently.
func cleanName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	t := transform.Chain(norm.NFC, runes.Remove(runes.In(unicode.Cc)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func indexOf(header []string, candidates []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, c := range candidates {
			if h == c {
				return i
			}
		}
	}
	return -1
}
