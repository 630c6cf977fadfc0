// Package npa maps North American numbering plan area codes to US states
// and classifies calls by jurisdiction.
package npa

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Class is the jurisdictional classification of a single call.
type Class int

const (
	Unknown Class = iota
	Interstate
	Intrastate
	TollFree
)

func (c Class) String() string {
	switch c {
	case Interstate:
		return "interstate"
	case Intrastate:
		return "intrastate"
	case TollFree:
		return "toll_free"
	default:
		return "unknown"
	}
}

// tollFree lists the toll-free NPAs. Calls touching any of these are neither
// interstate nor intrastate.
var tollFree = map[string]struct{}{
	"800": {}, "833": {}, "844": {}, "855": {}, "866": {}, "877": {}, "888": {},
}

var nonDigit = regexp.MustCompile(`\D`)

// Normalize reduces a phone number to its bare 10 digits. An 11-digit number
// with a leading country code 1 has the 1 stripped; longer numbers are cut to
// their first 10 digits; shorter ones are returned as-is.
func Normalize(number string) string {
	d := nonDigit.ReplaceAllString(number, "")
	if len(d) == 11 && strings.HasPrefix(d, "1") {
		return d[1:]
	}
	if len(d) > 10 {
		return d[:10]
	}
	return d
}

// AreaCode extracts the 3-digit NPA from a phone number, or "" if the number
// is too short to carry one.
func AreaCode(number string) string {
	n := Normalize(number)
	if len(n) < 3 {
		return ""
	}
	return n[:3]
}

// IsTollFree reports whether the number's area code is a toll-free NPA.
func IsTollFree(number string) bool {
	_, ok := tollFree[AreaCode(number)]
	return ok
}

// Table is the read-only NPA to state reference table.
type Table struct {
	states map[string]string
}

//go:embed data/npa_states.csv
var dataFS embed.FS

// LoadEmbedded builds the table from the compiled-in reference data.
func LoadEmbedded() (*Table, error) {
	f, err := dataFS.Open("data/npa_states.csv")
	if err != nil {
		return nil, fmt.Errorf("npa: open embedded table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return nil, fmt.Errorf("npa: read embedded table: %w", err)
	}

	states := make(map[string]string)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("npa: read embedded table: %w", err)
		}
		if len(rec) < 2 {
			continue
		}
		states[strings.TrimSpace(rec[0])] = strings.TrimSpace(rec[1])
	}
	return &Table{states: states}, nil
}

// State returns the US state for an NPA.
func (t *Table) State(areaCode string) (string, bool) {
	s, ok := t.states[areaCode]
	return s, ok
}

// Len reports the number of NPA entries loaded.
func (t *Table) Len() int { return len(t.states) }

// Classify determines the jurisdiction of a call between two numbers.
// Toll-free on either side wins outright; a failed state lookup on either
// side yields Unknown; otherwise equal states mean Intrastate.
func (t *Table) Classify(source, destination string) Class {
	if IsTollFree(source) || IsTollFree(destination) {
		return TollFree
	}
	src, okSrc := t.State(AreaCode(source))
	dst, okDst := t.State(AreaCode(destination))
	if !okSrc || !okDst {
		return Unknown
	}
	if src == dst {
		return Intrastate
	}
	return Interstate
}
